package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Run("Defaults when empty", func(t *testing.T) {
		p, err := Parse("", "")
		assert.NoError(t, err)
		assert.Equal(t, Params{Page: 1, Limit: 10}, p)
	})

	t.Run("Explicit values", func(t *testing.T) {
		p, err := Parse("3", "25")
		assert.NoError(t, err)
		assert.Equal(t, Params{Page: 3, Limit: 25}, p)
		assert.Equal(t, 50, p.Offset())
	})

	t.Run("Rejects non-positive and non-numeric values", func(t *testing.T) {
		for _, in := range [][2]string{{"0", "10"}, {"-1", "10"}, {"1", "0"}, {"abc", "10"}, {"1", "xyz"}} {
			_, err := Parse(in[0], in[1])
			assert.ErrorIs(t, err, ErrInvalidParams)
		}
	})
}

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope("ok", []string{"a", "b"}, 21, Params{Page: 2, Limit: 10})

	assert.True(t, env.Success)
	assert.Equal(t, 21, env.Pagination.TotalItems)
	assert.Equal(t, 3, env.Pagination.TotalPages) // ceil(21/10)
	assert.Equal(t, 2, env.Pagination.CurrentPage)
	assert.Equal(t, 10, env.Pagination.PerPage)
}
