package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(Book)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "book-"))
	assert.Len(t, got, len("book-")+21)
	assert.True(t, HasPrefix(got, Book))
	assert.False(t, HasPrefix(got, Movie))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		v := MustGenerate(Library)
		_, dup := seen[v]
		require.False(t, dup, "duplicate id %s", v)
		seen[v] = struct{}{}
	}
}
