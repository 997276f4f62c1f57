package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains_EscapesPatternWildcards(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "%alice%", contains("alice"))
	assert.Equal(t, `%100\%%`, contains("100%"))
	assert.Equal(t, `%snake\_case%`, contains("snake_case"))
	assert.Equal(t, `%back\\slash%`, contains(`back\slash`))
}
