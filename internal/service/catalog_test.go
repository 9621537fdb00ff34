package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
)

func TestDeleteAuthor_GuardedByBooks(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	b := ts.createBook(t, "Things Fall Apart", "Chinua Achebe")
	authorID := b.Authors[0].ID

	err := ts.authors.DeleteAuthor(ctx, authorID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrReferenced))

	_, err = ts.authors.GetAuthor(ctx, authorID)
	require.NoError(t, err)
	got, err := ts.books.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, got.Authors, 1)

	require.NoError(t, ts.books.DeleteBook(ctx, b.ID))
	require.NoError(t, ts.authors.DeleteAuthor(ctx, authorID))
}

func TestCreateAuthor_Duplicate(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	_, err := ts.authors.CreateAuthor(ctx, AuthorRequest{FirstName: "Italo", LastName: "Calvino"})
	require.NoError(t, err)

	_, err = ts.authors.CreateAuthor(ctx, AuthorRequest{FirstName: "Italo", LastName: "Calvino"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestGenre_CreateRenameDelete(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	leaf, err := ts.genres.CreateGenre(ctx, CreateGenreRequest{Path: " Fiction /  Science   Fiction "})
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", leaf.Name)
	assert.Equal(t, "Fiction / Science Fiction", leaf.Path)
	assert.NotEmpty(t, leaf.ParentID)

	again, err := ts.genres.CreateGenre(ctx, CreateGenreRequest{Path: "Fiction / Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, leaf.ID, again.ID)

	renamed, err := ts.genres.UpdateGenre(ctx, leaf.ID, UpdateGenreRequest{Name: "SF"})
	require.NoError(t, err)
	assert.Equal(t, "SF", renamed.Name)
	assert.Equal(t, "Fiction / Science Fiction", renamed.Path)

	_, err = ts.books.CreateBook(ctx, CreateBookRequest{Title: "Neuromancer", Genres: []GenreRef{{ID: leaf.ID}}})
	require.NoError(t, err)

	err = ts.genres.DeleteGenre(ctx, leaf.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrReferenced))
}

func TestSeries_FindOrCreateAndGuards(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	sr, created, err := ts.series.CreateSeries(ctx, SeriesRequest{Name: "Discworld"})
	require.NoError(t, err)
	assert.True(t, created)

	dup, created, err := ts.series.CreateSeries(ctx, SeriesRequest{Name: "Discworld"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sr.ID, dup.ID)

	_, err = ts.movies.CreateMovie(ctx, MovieRequest{
		Title:       "Going Postal",
		ReleaseDate: "2010-05-30",
		Series:      []SeriesRef{{ID: sr.ID, OrderNumber: intPtr(33)}},
	})
	require.NoError(t, err)

	err = ts.series.DeleteSeries(ctx, sr.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "associated movies")
}

func TestMovie_CreateResolveAndGuard(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	t.Run("requires title and release date", func(t *testing.T) {
		_, err := ts.movies.CreateMovie(ctx, MovieRequest{})
		require.Error(t, err)
		var de *domainerrors.Error
		require.True(t, domainerrors.As(err, &de))
		assert.ElementsMatch(t, []string{"Title must not be empty", "Release date must not be empty"}, de.Messages)
	})

	m, err := ts.movies.CreateMovie(ctx, MovieRequest{
		Title:               "My Neighbor Totoro",
		ReleaseDate:         "1988-04-16",
		Genres:              []GenreRef{{Path: "Animation / Family"}},
		ProductionCompanies: []CompanyRef{{Name: "Studio Ghibli"}},
	})
	require.NoError(t, err)
	require.Len(t, m.ProductionCompanies, 1)
	require.Len(t, m.Genres, 1)
	assert.Equal(t, "Animation / Family", m.Genres[0].Path)

	t.Run("resolve by title and date", func(t *testing.T) {
		match, err := ts.movies.ResolveMovie(ctx, MovieQuery{Title: "My Neighbor Totoro", ReleaseDate: "1988-04-16"})
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, m.ID, match.Movie.ID)
		assert.Empty(t, match.Libraries)
	})

	t.Run("resolve miss", func(t *testing.T) {
		match, err := ts.movies.ResolveMovie(ctx, MovieQuery{Title: "My Neighbor Totoro", ReleaseDate: "1990-01-01"})
		require.NoError(t, err)
		assert.Nil(t, match)
	})

	companyID := m.ProductionCompanies[0].ID
	err = ts.companies.DeleteProductionCompany(ctx, companyID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrReferenced))
}

func TestLibrary_DefaultsAndUniqueName(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	lib := ts.createLibrary(t, "Cellar")
	assert.Equal(t, "MenuBookRounded", lib.Icon)

	_, err := ts.libraries.CreateLibrary(ctx, LibraryRequest{Name: "Cellar"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	updated, err := ts.libraries.UpdateLibrary(ctx, lib.ID, LibraryRequest{Name: "Wine Cellar"})
	require.NoError(t, err)
	assert.Equal(t, "MenuBookRounded", updated.Icon)

	found, err := ts.libraries.ListLibraries(ctx, "wine")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, lib.ID, found[0].ID)
}

func TestAppSettings_RoundTrip(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	empty, err := ts.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.EmailService)

	_, err = ts.settings.SaveSettings(ctx, AppSettingsRequest{EmailService: "gmail", BookAPIKey: " key "})
	require.NoError(t, err)

	got, err := ts.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gmail", got.EmailService)
	assert.Equal(t, "key", got.BookAPIKey)
}
