package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/search"
)

func intPtr(v int) *int { return &v }

func TestCreateBook_ResolvesAssociations(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b, err := ts.books.CreateBook(ctx, CreateBookRequest{
		Title:         "  The Fellowship of the Ring ",
		Authors:       []AuthorRef{{Name: "J. R. R. Tolkien"}},
		ISBN13:        "978-0-261-10235-4",
		Genres:        []GenreRef{{Path: "Fiction / Fantasy"}},
		Series:        []SeriesRef{{Name: "The Lord of the Rings"}},
		OrderNumber:   intPtr(1),
		Binding:       "Paperback",
		PublishedDate: "1954-07-29",
		Description:   "<p>The first volume.</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "The Fellowship of the Ring", b.Title)
	assert.Equal(t, "9780261102354", b.ISBN13)
	assert.Equal(t, domain.BindingPaperback, b.Binding)
	assert.Equal(t, "The first volume.", b.Description)
	require.NotNil(t, b.PublishedDate)
	assert.Equal(t, 1954, b.PublishedDate.Year())

	require.Len(t, b.Authors, 1)
	assert.Equal(t, "J. R. R.", b.Authors[0].FirstName)
	assert.Equal(t, "Tolkien", b.Authors[0].LastName)

	require.Len(t, b.Genres, 1)
	assert.Equal(t, "Fiction / Fantasy", b.Genres[0].Path)

	require.Len(t, b.Series, 1)
	assert.Equal(t, "The Lord of the Rings", b.Series[0].Name)
	require.NotNil(t, b.Series[0].OrderNumber)
	assert.Equal(t, 1, *b.Series[0].OrderNumber)
}

func TestCreateBook_GenrePathCreatedOnce(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	for _, title := range []string{"A Wizard of Earthsea", "The Tombs of Atuan"} {
		_, err := ts.books.CreateBook(ctx, CreateBookRequest{
			Title:  title,
			Genres: []GenreRef{{Path: "Fiction / Fantasy"}},
		})
		require.NoError(t, err)
	}

	genres, err := ts.genres.ListGenres(ctx, "")
	require.NoError(t, err)
	require.Len(t, genres, 2)

	paths := []string{genres[0].Path, genres[1].Path}
	assert.ElementsMatch(t, []string{"Fiction", "Fiction / Fantasy"}, paths)
}

func TestCreateBook_SharedAuthor(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	first := ts.createBook(t, "Kindred", "Octavia Butler")
	second := ts.createBook(t, "Dawn", "Octavia Butler")
	assert.Equal(t, first.Authors[0].ID, second.Authors[0].ID)

	authors, err := ts.authors.ListAuthors(ctx, "")
	require.NoError(t, err)
	assert.Len(t, authors, 1)
}

func TestCreateBook_Validation(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateBookRequest
	}{
		{name: "missing title", req: CreateBookRequest{Title: "   "}},
		{name: "bad binding", req: CreateBookRequest{Title: "X", Binding: "spiral"}},
		{name: "bad published date", req: CreateBookRequest{Title: "X", PublishedDate: "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.books.CreateBook(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestCreateBook_UnknownAuthorID(t *testing.T) {
	ts := setupServices(t)

	_, err := ts.books.CreateBook(context.Background(), CreateBookRequest{
		Title:   "Orphan",
		Authors: []AuthorRef{{ID: "auth-missing"}},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	books, err := ts.books.ListBooks(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestUpdateBook_OverwritesSuppliedFieldsOnly(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b, err := ts.books.CreateBook(ctx, CreateBookRequest{
		Title:     "Solaris",
		Subtitle:  "A Novel",
		Authors:   []AuthorRef{{Name: "Stanislaw Lem"}},
		PageCount: intPtr(204),
	})
	require.NoError(t, err)

	updated, err := ts.books.UpdateBook(ctx, b.ID, UpdateBookRequest{
		Publisher: "Faber",
		Authors:   []AuthorRef{{FirstName: "Stanisław", LastName: "Lem"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Solaris", updated.Title)
	assert.Equal(t, "A Novel", updated.Subtitle)
	assert.Equal(t, "Faber", updated.Publisher)
	require.NotNil(t, updated.PageCount)
	assert.Equal(t, 204, *updated.PageCount)
	require.Len(t, updated.Authors, 1)
	assert.Equal(t, "Stanisław", updated.Authors[0].FirstName)

	// A nil list leaves links alone.
	again, err := ts.books.UpdateBook(ctx, b.ID, UpdateBookRequest{Title: "Solaris (1961)"})
	require.NoError(t, err)
	assert.Len(t, again.Authors, 1)
	assert.Equal(t, "Solaris (1961)", again.Title)
}

func TestUpdateBook_NotFound(t *testing.T) {
	ts := setupServices(t)

	_, err := ts.books.UpdateBook(context.Background(), "book-missing", UpdateBookRequest{Title: "X"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteBook_GuardedByInstances(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b := ts.createBook(t, "Beloved", "Toni Morrison")
	lib := ts.createLibrary(t, "Home")
	inst := ts.addInstance(t, domain.KindBook, b.ID, lib.ID)

	err := ts.books.DeleteBook(ctx, b.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrReferenced))
	assert.Contains(t, err.Error(), inst.ID)

	require.NoError(t, ts.instances.DeleteInstance(ctx, domain.KindBook, inst.ID))
	require.NoError(t, ts.books.DeleteBook(ctx, b.ID))

	_, err = ts.books.GetBook(ctx, b.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestResolveBook(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b, err := ts.books.CreateBook(ctx, CreateBookRequest{
		Title:  "Piranesi",
		ISBN10: "1526622424",
		ISBN13: "9781526622426",
	})
	require.NoError(t, err)
	lib := ts.createLibrary(t, "Shelf")
	ts.addInstance(t, domain.KindBook, b.ID, lib.ID)

	t.Run("no discriminator", func(t *testing.T) {
		match, err := ts.books.ResolveBook(ctx, BookQuery{})
		require.NoError(t, err)
		assert.Nil(t, match)
	})

	t.Run("isbn13 miss", func(t *testing.T) {
		match, err := ts.books.ResolveBook(ctx, BookQuery{ISBN13: "9780000000000"})
		require.NoError(t, err)
		assert.Nil(t, match)
	})

	t.Run("id takes precedence", func(t *testing.T) {
		match, err := ts.books.ResolveBook(ctx, BookQuery{ID: b.ID, ISBN13: "9780000000000"})
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, b.ID, match.Book.ID)
	})

	t.Run("isbn10 hit with libraries", func(t *testing.T) {
		match, err := ts.books.ResolveBook(ctx, BookQuery{ISBN10: "1-5266-2242-4"})
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, b.ID, match.Book.ID)
		assert.Equal(t, []string{lib.ID}, match.Libraries)
	})
}

func TestBookWrites_KeepSearchIndexInSync(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b := ts.createBook(t, "The Left Hand of Darkness", "Ursula K. Le Guin")

	res, err := ts.search.Search(ctx, search.SearchParams{Query: "Guin", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, b.ID, res.Hits[0].ID)

	require.NoError(t, ts.books.DeleteBook(ctx, b.ID))
	count, err := ts.search.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
