package query_test

import (
	"testing"

	"github.com/fintrack/fintrack/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sortFields = []string{"createdAt", "amount"}

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()
	p := query.Params{}.Normalize("createdAt")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, query.DefaultLimit, p.Limit)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.Equal(t, query.SortDesc, p.SortOrder)
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	t.Parallel()
	p := query.Params{Page: 3, Limit: 25, SortBy: "amount", SortOrder: query.SortAsc}
	p = p.Normalize("createdAt")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, "amount", p.SortBy)
	assert.Equal(t, query.SortAsc, p.SortOrder)
}

func TestValidate_Bounds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		p    query.Params
	}{
		{"zero page", query.Params{Page: 0, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}},
		{"negative page", query.Params{Page: -1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}},
		{"zero limit", query.Params{Page: 1, Limit: 0, SortBy: "createdAt", SortOrder: "desc"}},
		{"limit over max", query.Params{Page: 1, Limit: query.MaxLimit + 1, SortBy: "createdAt", SortOrder: "desc"}},
		{"unknown sort field", query.Params{Page: 1, Limit: 10, SortBy: "password", SortOrder: "desc"}},
		{"bad sort order", query.Params{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "sideways"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.p.Validate(sortFields)
			require.Error(t, err)
			assert.ErrorIs(t, err, query.ErrInvalidQuery)
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	t.Parallel()
	p := query.Params{Page: 1, Limit: query.MaxLimit, SortBy: "amount", SortOrder: query.SortAsc}
	assert.NoError(t, p.Validate(sortFields))
}

func TestOffset(t *testing.T) {
	t.Parallel()
	p := query.Params{Page: 4, Limit: 25}
	assert.Equal(t, 75, p.Offset())
}

func TestNewPaginated_TotalPages(t *testing.T) {
	t.Parallel()
	page := query.NewPaginated([]int{1, 2, 3}, 31, 1, 10)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, int64(31), page.Total)

	exact := query.NewPaginated([]int{}, 30, 1, 10)
	assert.Equal(t, 3, exact.TotalPages)

	empty := query.NewPaginated[int](nil, 0, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
	assert.NotNil(t, empty.Data)
}
