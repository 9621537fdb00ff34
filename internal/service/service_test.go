package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bibliohome/bibliohome-server/internal/auth"
	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/search"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
)

// testHasherParams keep argon2 cheap in tests.
var testHasherParams = auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1}

type testServices struct {
	store          *sqlite.Store
	search         *SearchService
	books          *BookService
	movies         *MovieService
	authors        *AuthorService
	genres         *GenreService
	series         *SeriesService
	companies      *ProductionCompanyService
	libraries      *LibraryService
	instances      *InstanceService
	mediaInstances *MediaInstanceService
	readingStatus  *ReadingStatusService
	users          *UserService
	settings       *AppSettingsService
	notifier       *recordingNotifier
}

type recordingNotifier struct {
	email, password string
}

func (n *recordingNotifier) PasswordReset(_ context.Context, email, password string) error {
	n.email, n.password = email, password
	return nil
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	searchSvc := NewSearchService(index, st, logger)
	notifier := &recordingNotifier{}

	return &testServices{
		store:          st,
		search:         searchSvc,
		books:          NewBookService(st, searchSvc, logger),
		movies:         NewMovieService(st, searchSvc, logger),
		authors:        NewAuthorService(st, logger),
		genres:         NewGenreService(st, logger),
		series:         NewSeriesService(st, logger),
		companies:      NewProductionCompanyService(st, logger),
		libraries:      NewLibraryService(st, logger),
		instances:      NewInstanceService(st, logger),
		mediaInstances: NewMediaInstanceService(st, logger),
		readingStatus:  NewReadingStatusService(st, logger),
		users:          NewUserService(st, auth.NewHasher(testHasherParams), notifier, logger),
		settings:       NewAppSettingsService(st, logger),
		notifier:       notifier,
	}
}

func (ts *testServices) createBook(t *testing.T, title string, authors ...string) *domain.Book {
	t.Helper()
	req := CreateBookRequest{Title: title}
	for _, a := range authors {
		req.Authors = append(req.Authors, AuthorRef{Name: a})
	}
	b, err := ts.books.CreateBook(context.Background(), req)
	require.NoError(t, err)
	return b
}

func (ts *testServices) createMovie(t *testing.T, title, released string) *domain.Movie {
	t.Helper()
	m, err := ts.movies.CreateMovie(context.Background(), MovieRequest{Title: title, ReleaseDate: released})
	require.NoError(t, err)
	return m
}

func (ts *testServices) createLibrary(t *testing.T, name string) *domain.Library {
	t.Helper()
	lib, err := ts.libraries.CreateLibrary(context.Background(), LibraryRequest{Name: name})
	require.NoError(t, err)
	return lib
}

func (ts *testServices) createUser(t *testing.T, username, password string) *domain.User {
	t.Helper()
	u, err := ts.users.CreateUser(context.Background(), CreateUserRequest{
		Username: username,
		Password: password,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return u
}

func (ts *testServices) addInstance(t *testing.T, kind domain.MediaKind, catalogID string, libraryIDs ...string) *domain.Instance {
	t.Helper()
	inst, err := ts.instances.CreateInstance(context.Background(), kind, InstanceRequest{
		Status:     string(domain.StatusAvailable),
		CatalogID:  catalogID,
		LibraryIDs: libraryIDs,
	})
	require.NoError(t, err)
	return inst
}
