package movie_test

import (
	"bytes"
	"crypto/rand"
	"kino/movie"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickUniform(t *testing.T) {
	t.Run("should fail on empty pool", func(t *testing.T) {
		_, err := movie.PickUniform(nil, rand.Reader)

		assert.Error(t, err)
	})

	t.Run("should be deterministic for a fixed source", func(t *testing.T) {
		pool := []string{"a", "b", "c"}

		i, err := movie.PickUniform(pool, zeroReader{})

		require.NoError(t, err)
		assert.Equal(t, 0, i)
	})

	t.Run("should propagate a short source", func(t *testing.T) {
		_, err := movie.PickUniform([]string{"a", "b"}, bytes.NewReader(nil))

		assert.Error(t, err)
	})

	t.Run("should stay within bounds", func(t *testing.T) {
		pool := movie.DefaultNamePool()
		seen := make(map[int]bool)

		for n := 0; n < 500; n++ {
			i, err := movie.PickUniform(pool, rand.Reader)
			require.NoError(t, err)
			require.GreaterOrEqual(t, i, 0)
			require.Less(t, i, len(pool))
			seen[i] = true
		}
		assert.Greater(t, len(seen), 1)
	})
}

func TestDefaultNamePool(t *testing.T) {
	pool := movie.DefaultNamePool()
	require.NotEmpty(t, pool)

	pool[0] = "mutated"

	assert.NotEqual(t, "mutated", movie.DefaultNamePool()[0])
}
