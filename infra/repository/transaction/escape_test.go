package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains_EscapesPatternWildcards(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "%rent%", contains("rent"))
	assert.Equal(t, `%50\%And\_More%`, contains("50%And_More"))
}
