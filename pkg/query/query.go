// Package query validates and normalizes pagination and sorting parameters
// shared by every list endpoint, and wraps results in a paginated envelope.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// DefaultLimit is applied when no limit is supplied.
	DefaultLimit = 10
	// MaxLimit is the largest page size a caller may request.
	MaxLimit = 100
)

// ErrInvalidQuery is wrapped by every pagination or sorting validation
// failure.
var ErrInvalidQuery = errors.New("invalid query")

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params carries the raw pagination and sorting request for a list query.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Normalize fills zero values with defaults. defaultSortBy is the resource's
// natural sort column.
func (p Params) Normalize(defaultSortBy string) Params {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.SortBy == "" {
		p.SortBy = defaultSortBy
	}
	if p.SortOrder == "" {
		p.SortOrder = SortDesc
	}
	return p
}

// Validate checks bounds and restricts SortBy to the resource's allow-list.
func (p Params) Validate(allowedSortFields []string) error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page number must be greater than 0", ErrInvalidQuery)
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidQuery, MaxLimit)
	}
	if !slices.Contains(allowedSortFields, p.SortBy) {
		return fmt.Errorf("%w: invalid sort field, allowed fields: %s",
			ErrInvalidQuery, strings.Join(allowedSortFields, ", "))
	}
	if p.SortOrder != SortAsc && p.SortOrder != SortDesc {
		return fmt.Errorf("%w: invalid sort order, allowed orders: %s, %s",
			ErrInvalidQuery, SortAsc, SortDesc)
	}
	return nil
}

// Offset returns the row offset for the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginated wraps one page of results with the total count and derived page
// arithmetic.
type Paginated[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginated builds the envelope; TotalPages is ceil(total/limit).
func NewPaginated[T any](data []T, total int64, page, limit int) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return Paginated[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}
