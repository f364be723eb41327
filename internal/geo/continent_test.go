package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinentIndex_FromISO3(t *testing.T) {
	idx := NewContinentIndex()

	t.Run("known code", func(t *testing.T) {
		continent, ok := idx.FromISO3("PHL")
		require.True(t, ok)
		assert.Equal(t, "Asia", continent)
	})

	t.Run("lowercase code", func(t *testing.T) {
		continent, ok := idx.FromISO3("chl")
		require.True(t, ok)
		assert.Equal(t, "South America", continent)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, ok := idx.FromISO3("XXX")
		assert.False(t, ok)
	})

	t.Run("empty code", func(t *testing.T) {
		_, ok := idx.FromISO3("")
		assert.False(t, ok)
	})
}

func TestContinentIndex_FromName(t *testing.T) {
	idx := NewContinentIndex()

	t.Run("known name", func(t *testing.T) {
		continent, ok := idx.FromName("Philippines")
		require.True(t, ok)
		assert.Equal(t, "Asia", continent)
	})

	t.Run("case insensitive", func(t *testing.T) {
		continent, ok := idx.FromName("france")
		require.True(t, ok)
		assert.Equal(t, "Europe", continent)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := idx.FromName("Atlantis")
		assert.False(t, ok)
	})

	t.Run("empty name", func(t *testing.T) {
		_, ok := idx.FromName("")
		assert.False(t, ok)
	})
}
