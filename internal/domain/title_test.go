package domain

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The Hobbit", "Hobbit"},
		{"the hobbit", "hobbit"},
		{"THE STAND", "STAND"},
		{"A Wrinkle in Time", "Wrinkle in Time"},
		{"a tale", "tale"},
		{"An Echo in the Bone", "Echo in the Bone"},
		{"AN ODYSSEY", "ODYSSEY"},
		{"Theory of Everything", "Theory of Everything"},
		{"Anna Karenina", "Anna Karenina"},
		{"Atonement", "Atonement"},
		{"The", "The"},
		{"A", "A"},
		{"", ""},
		{"Dune", "Dune"},
		{" The Hobbit", " The Hobbit"},
		{"The  Double Space", " Double Space"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, SortTitle(tt.title))
		})
	}
}

func TestSortTitle_OnlyFirstArticle(t *testing.T) {
	assert.Equal(t, "A Story", SortTitle("The A Story"))
}

func TestCompareTitles_InterleavesByKey(t *testing.T) {
	titles := []string{"The Matrix", "Dune", "An Apple", "Brave", "the hobbit"}
	slices.SortFunc(titles, CompareTitles)

	assert.Equal(t, []string{"An Apple", "Brave", "Dune", "the hobbit", "The Matrix"}, titles)
}
