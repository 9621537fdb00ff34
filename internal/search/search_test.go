package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliohome/bibliohome-server/internal/domain"
)

// setupTestIndex creates an in-memory search index for testing.
func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	index, err := NewSearchIndex(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func testBook(id, title string, authors ...string) *domain.Book {
	b := &domain.Book{Entity: domain.Entity{ID: id, CreatedAt: time.Now()}, Title: title}
	for _, name := range authors {
		first, last := domain.ParseAuthorName(name)
		b.Authors = append(b.Authors, domain.Author{FirstName: first, LastName: last})
	}
	return b
}

func testMovie(id, title string, released time.Time, companies ...string) *domain.Movie {
	m := &domain.Movie{Entity: domain.Entity{ID: id, CreatedAt: time.Now()}, Title: title, ReleaseDate: released}
	for _, name := range companies {
		m.ProductionCompanies = append(m.ProductionCompanies, domain.ProductionCompany{Name: name})
	}
	return m
}

func seed(t *testing.T, index *SearchIndex) {
	t.Helper()
	docs := []*SearchDocument{
		BookToSearchDocument(testBook("book-1", "The Hobbit", "J. R. R. Tolkien")),
		BookToSearchDocument(testBook("book-2", "Dune", "Frank Herbert")),
		MovieToSearchDocument(testMovie("movie-1", "Dune", time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC), "Legendary")),
		MovieToSearchDocument(testMovie("movie-2", "Spirited Away", time.Date(2001, 7, 20, 0, 0, 0, 0, time.UTC), "Studio Ghibli")),
	}
	require.NoError(t, index.IndexDocuments(docs))
}

func TestNewSearchIndex_InMemory(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNewSearchIndex_OnDiskReopen(t *testing.T) {
	dir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexDocument(BookToSearchDocument(testBook("book-1", "Emma"))))
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearch_MatchesTitleAcrossKinds(t *testing.T) {
	index := setupTestIndex(t)
	seed(t, index)

	res, err := index.Search(context.Background(), SearchParams{Query: "dune", Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), res.Total)
	ids := []string{res.Hits[0].ID, res.Hits[1].ID}
	assert.ElementsMatch(t, []string{"book-2", "movie-1"}, ids)
}

func TestSearch_TypeFilter(t *testing.T) {
	index := setupTestIndex(t)
	seed(t, index)

	res, err := index.Search(context.Background(), SearchParams{Query: "dune", Types: []DocType{DocTypeMovie}, Limit: 10})
	require.NoError(t, err)

	require.Len(t, res.Hits, 1)
	assert.Equal(t, "movie-1", res.Hits[0].ID)
	assert.Equal(t, DocTypeMovie, res.Hits[0].Type)
	assert.Equal(t, 2021, res.Hits[0].Year)
}

func TestSearch_ByAuthorAndCompany(t *testing.T) {
	index := setupTestIndex(t)
	seed(t, index)
	ctx := context.Background()

	res, err := index.Search(ctx, SearchParams{Query: "Tolkien", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "book-1", res.Hits[0].ID)

	res, err = index.Search(ctx, SearchParams{Query: "Ghibli", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "movie-2", res.Hits[0].ID)
}

func TestSearch_DeleteAndRebuild(t *testing.T) {
	index := setupTestIndex(t)
	seed(t, index)

	require.NoError(t, index.DeleteDocument("book-2"))
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	require.NoError(t, index.Rebuild())
	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearch_EmptyQueryFacets(t *testing.T) {
	index := setupTestIndex(t)
	seed(t, index)

	res, err := index.Search(context.Background(), DefaultSearchParams())
	require.NoError(t, err)

	assert.Equal(t, uint64(4), res.Total)
	counts := map[string]int{}
	for _, f := range res.Facets {
		counts[f.Value] = f.Count
	}
	assert.Equal(t, 2, counts["book"])
	assert.Equal(t, 2, counts["movie"])
}

func TestBookToSearchDocument(t *testing.T) {
	published := time.Date(1937, 9, 21, 0, 0, 0, 0, time.UTC)
	b := testBook("book-1", "The Hobbit", "J. R. R. Tolkien")
	b.PublishedDate = &published
	b.Genres = []domain.Genre{{Path: "Fiction / Fantasy"}}
	b.Series = []domain.SeriesEntry{{Series: domain.Series{Name: "Middle-earth"}}}

	doc := BookToSearchDocument(b)

	assert.Equal(t, DocTypeBook, doc.Type)
	assert.Equal(t, "J. R. R. Tolkien", doc.Author)
	assert.Equal(t, 1937, doc.Year)
	assert.Equal(t, []string{"Fiction / Fantasy"}, doc.Genres)
	assert.Equal(t, "Middle-earth", doc.SeriesName)

	m := doc.ToMap()
	assert.Equal(t, "The Hobbit", m["name"])
	assert.NotContains(t, m, "production_company")
}
