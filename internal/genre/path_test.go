package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "Fiction", []string{"Fiction"}},
		{"nested", "Fiction / Fantasy / Epic", []string{"Fiction", "Fantasy", "Epic"}},
		{"extra whitespace", "  Fiction  /  Fantasy ", []string{"Fiction", "Fantasy"}},
		{"inner whitespace collapsed", "Science   Fiction / Space Opera", []string{"Science Fiction", "Space Opera"}},
		{"empty segments dropped", "Fiction /  / Fantasy", []string{"Fiction", "Fantasy"}},
		{"slash without spaces is part of the name", "Sci-Fi/Fantasy", []string{"Sci-Fi/Fantasy"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segments(tt.input))
		})
	}
}

func TestSegments_UnicodeNormalized(t *testing.T) {
	decomposed := "Ficcio\u0301n"
	composed := "Ficci\u00f3n"
	assert.Equal(t, []string{composed}, Segments(decomposed))
}

func TestLevels(t *testing.T) {
	got := Levels("Fiction / Fantasy / Epic")

	assert.Equal(t, []Level{
		{Name: "Fiction", Path: "Fiction"},
		{Name: "Fantasy", Path: "Fiction / Fantasy", ParentPath: "Fiction"},
		{Name: "Epic", Path: "Fiction / Fantasy / Epic", ParentPath: "Fiction / Fantasy"},
	}, got)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "Fiction / Fantasy", Canonical(" Fiction /  Fantasy "))
	assert.Equal(t, "", Canonical(" / "))
}
