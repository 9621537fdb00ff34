package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/search"
)

func TestCreateGenre_PathCreatesAncestors(t *testing.T) {
	ts := setupTestServer(t)

	first := ts.api.Post("/api/genre", map[string]any{"name": "Fiction / Fantasy"})
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := ts.api.Post("/api/genre", map[string]any{"name": "Fiction / Fantasy"})
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	assert.Equal(t, decode[domain.Genre](t, first).ID, decode[domain.Genre](t, second).ID)

	resp := ts.api.Get("/api/genre")
	require.Equal(t, http.StatusOK, resp.Code)
	genres := decode[[]domain.Genre](t, resp)
	require.Len(t, genres, 2)

	paths := []string{genres[0].Path, genres[1].Path}
	assert.ElementsMatch(t, []string{"Fiction", "Fiction / Fantasy"}, paths)
}

func TestUpdateGenre_RenamesOnly(t *testing.T) {
	ts := setupTestServer(t)

	id := ts.createID(t, "/api/genre", map[string]any{"name": "Horror"})

	resp := ts.api.Post("/api/genre/"+id+"/update", map[string]any{"name": "Terror"})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	g := decode[domain.Genre](t, resp)
	assert.Equal(t, "Terror", g.Name)
	assert.Equal(t, "Horror", g.Path)
}

func TestDeleteAuthor_ReferencedByBook(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Kindred", "authors": []any{"Octavia Butler"}})
	book := decode[domain.Book](t, ts.api.Get("/api/book/"+bookID))
	require.Len(t, book.Authors, 1)
	authorID := book.Authors[0].ID

	resp := ts.api.Post("/api/author/"+authorID+"/delete", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/author/"+authorID).Code)
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/book/"+bookID).Code)
}

func TestDeleteAuthor(t *testing.T) {
	ts := setupTestServer(t)

	id := ts.createID(t, "/api/author", map[string]any{"firstName": "Mary", "lastName": "Shelley"})

	resp := ts.api.Post("/api/author/"+id+"/delete", map[string]any{})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Author deleted successfully", decode[MessageResponse](t, resp).Message)
}

func TestCreateSeries_FindOrCreate(t *testing.T) {
	ts := setupTestServer(t)

	first := ts.api.Post("/api/series", map[string]any{"name": "Discworld"})
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := ts.api.Post("/api/series", map[string]any{"name": "Discworld"})
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())

	assert.Equal(t, decode[domain.Series](t, first).ID, decode[domain.Series](t, second).ID)
}

func TestCreateProductionCompany_FindOrCreate(t *testing.T) {
	ts := setupTestServer(t)

	first := ts.api.Post("/api/productionCompany", map[string]any{"name": "Ghibli"})
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := ts.api.Post("/api/productionCompany", map[string]any{"name": "Ghibli"})
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())

	resp := ts.api.Post("/api/productionCompany/"+decode[domain.ProductionCompany](t, first).ID+"/delete", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Production company deleted successfully", decode[MessageResponse](t, resp).Message)
}

func TestCreateLibrary_DefaultIcon(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/library", map[string]any{"name": "Living room"})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	lib := decode[domain.Library](t, resp)
	assert.Equal(t, "Living room", lib.Name)
	assert.Equal(t, "MenuBookRounded", lib.Icon)
}

func TestMovieSearch_ByTitleAndReleaseDate(t *testing.T) {
	ts := setupTestServer(t)

	movieID := ts.createID(t, "/api/movie", map[string]any{
		"title":               "Spirited Away",
		"releaseDate":         "2001-07-20",
		"productionCompanies": []any{"Ghibli"},
	})

	resp := ts.api.Get("/api/movie/search?title=Spirited%20Away&releaseDate=2001-07-20")
	require.Equal(t, http.StatusOK, resp.Code)
	match := decode[MovieSearchResponse](t, resp)
	require.NotNil(t, match.Movie)
	assert.Equal(t, movieID, match.Movie.ID)
	assert.Empty(t, match.Libraries)

	resp = ts.api.Get("/api/movie/search?title=Spirited%20Away&releaseDate=2002-01-01")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{}`, resp.Body.String())
}

func TestMediaInstanceSearch_PagesBothKinds(t *testing.T) {
	ts := setupTestServer(t)

	libID := ts.createID(t, "/api/library", map[string]any{"name": "Shelf"})
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		bookID := ts.createID(t, "/api/book", map[string]any{"title": title})
		ts.createID(t, "/api/bookInstance", map[string]any{
			"status":     "Available",
			"bookId":     bookID,
			"libraryIds": []string{libID},
		})
	}
	for _, title := range []string{"Delta", "Epsilon"} {
		movieID := ts.createID(t, "/api/movie", map[string]any{"title": title, "releaseDate": "1999-01-01"})
		ts.createID(t, "/api/movieInstance", map[string]any{
			"status":     "Available",
			"movieId":    movieID,
			"libraryIds": []string{libID},
		})
	}

	resp := ts.api.Get("/api/mediaInstance/search?libraryId=" + libID + "&page=1&pageSize=10")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	page := decode[InstancePage](t, resp)
	assert.Equal(t, 5, page.Count)
	assert.Len(t, page.Rows, 5)

	resp = ts.api.Get("/api/mediaInstance/search?libraryId=" + libID + "&page=1&pageSize=2")
	require.Equal(t, http.StatusOK, resp.Code)
	page = decode[InstancePage](t, resp)
	assert.Equal(t, 5, page.Count)
	assert.Len(t, page.Rows, 4)

	resp = ts.api.Get("/api/mediaInstance/search")
	require.Equal(t, http.StatusOK, resp.Code)
	page = decode[InstancePage](t, resp)
	assert.Zero(t, page.Count)
	assert.Empty(t, page.Rows)
}

func TestBookInstance_UpdateAndDelete(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Rebecca"})
	instID := ts.createID(t, "/api/bookInstance", map[string]any{"status": "Available", "bookId": bookID})

	resp := ts.api.Get("/api/bookInstance/" + instID)
	require.Equal(t, http.StatusOK, resp.Code)
	inst := decode[domain.Instance](t, resp)
	assert.Equal(t, 1, inst.NumberOfCopies)

	resp = ts.api.Post("/api/bookInstance/"+instID+"/update", map[string]any{
		"status":         "Loaned",
		"dueBack":        "2025-01-31",
		"numberOfCopies": 2,
		"bookId":         bookID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	inst = decode[domain.Instance](t, resp)
	assert.Equal(t, domain.StatusLoaned, inst.Status)
	assert.Equal(t, 2, inst.NumberOfCopies)
	require.NotNil(t, inst.DueBack)

	resp = ts.api.Post("/api/bookInstance/"+instID+"/delete", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Book instance deleted successfully", decode[MessageResponse](t, resp).Message)
}

func TestBookInstance_UnknownBook(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/bookInstance", map[string]any{"status": "Available", "bookId": "nope"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUserLogin(t *testing.T) {
	ts := setupTestServer(t)

	ts.createID(t, "/api/user", map[string]any{
		"username": "grace",
		"password": "hopper",
		"email":    "grace@example.com",
	})

	resp := ts.api.Post(loginPath, map[string]any{"username": "grace", "password": "hopper"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.NotContains(t, resp.Body.String(), "hopper")

	resp = ts.api.Post(loginPath, map[string]any{"username": "grace", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	ts := setupTestServer(t)

	user := map[string]any{"username": "linus", "password": "pw", "email": "linus@example.com"}
	ts.createID(t, "/api/user", user)

	user["email"] = "other@example.com"
	resp := ts.api.Post("/api/user", user)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAppSettings_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/appSettings")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/appSettings", map[string]any{"emailService": "smtp.example.com"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "smtp.example.com")
}

func TestCatalogSearch(t *testing.T) {
	ts := setupTestServer(t)

	ts.createID(t, "/api/book", map[string]any{"title": "The Left Hand of Darkness", "authors": []any{"Ursula K. Le Guin"}})
	ts.createID(t, "/api/movie", map[string]any{"title": "Arrival", "releaseDate": "2016-11-11"})

	resp := ts.api.Get("/api/catalog/search?q=darkness")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	res := decode[search.SearchResult](t, resp)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "The Left Hand of Darkness", res.Hits[0].Name)

	resp = ts.api.Get("/api/catalog/search?q=darkness&kind=movie")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[search.SearchResult](t, resp).Hits)

	resp = ts.api.Get("/api/catalog/search?kind=podcast")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")

	require.Equal(t, http.StatusOK, resp.Code)
	health := decode[HealthResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "healthy", health.Components["search"].Status)
}

func createEarthsea(t *testing.T, ts *testServer) {
	t.Helper()
	ts.createID(t, "/api/book", map[string]any{
		"title":   "A Wizard of Earthsea",
		"authors": []any{"Ursula LeGuin"},
		"genres":  []any{"Fiction / Fantasy"},
		"series":  []any{map[string]any{"name": "Earthsea", "orderNumber": 1}},
	})
}

func TestSearchAuthors(t *testing.T) {
	ts := setupTestServer(t)
	createEarthsea(t, ts)

	resp := ts.api.Get("/api/author/search?search=urs")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	authors := decode[[]domain.Author](t, resp)
	require.Len(t, authors, 1)
	assert.Equal(t, "Ursula", authors[0].FirstName)

	resp = ts.api.Get("/api/author/search?id=" + authors[0].ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]domain.Author](t, resp), 1)

	resp = ts.api.Get("/api/author/search?search=Le")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]domain.Author](t, resp), 1)

	resp = ts.api.Get("/api/author/search?search=Guin")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[[]domain.Author](t, resp))

	resp = ts.api.Get("/api/author/search?firstName=Ursula&lastName=LeGuin")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]domain.Author](t, resp), 1)

	resp = ts.api.Get("/api/author/search?id=missing")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())

	resp = ts.api.Get("/api/author/search")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{}`, resp.Body.String())
}

func TestSearchSeries(t *testing.T) {
	ts := setupTestServer(t)
	createEarthsea(t, ts)

	resp := ts.api.Get("/api/series/search?search=Earth")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	series := decode[[]domain.Series](t, resp)
	require.Len(t, series, 1)
	assert.Equal(t, "Earthsea", series[0].Name)

	resp = ts.api.Get("/api/series/search?name=Earth")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[[]domain.Series](t, resp))

	resp = ts.api.Get("/api/series/search")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{}`, resp.Body.String())
}

func TestSearchProductionCompanies(t *testing.T) {
	ts := setupTestServer(t)
	ts.createID(t, "/api/movie", map[string]any{
		"title":               "Alien",
		"releaseDate":         "1979-05-25",
		"productionCompanies": []any{"Brandywine", "Twentieth Century Fox"},
	})

	resp := ts.api.Get("/api/productionCompany/search?search=Bra")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	pcs := decode[[]domain.ProductionCompany](t, resp)
	require.Len(t, pcs, 1)
	assert.Equal(t, "Brandywine", pcs[0].Name)

	resp = ts.api.Get("/api/productionCompany/search?name=Twentieth%20Century%20Fox")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]domain.ProductionCompany](t, resp), 1)

	resp = ts.api.Get("/api/productionCompany/search")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{}`, resp.Body.String())
}

func TestSearchGenres(t *testing.T) {
	ts := setupTestServer(t)
	createEarthsea(t, ts)

	resp := ts.api.Get("/api/genre/search?name=Fan")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	genres := decode[[]domain.Genre](t, resp)
	require.Len(t, genres, 1)
	assert.Equal(t, "Fiction / Fantasy", genres[0].Path)

	resp = ts.api.Get("/api/genre/search?path=Fiction")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]domain.Genre](t, resp), 2)

	resp = ts.api.Get("/api/genre/search")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Get("/api/genre/name/Fantasy")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, genres[0].ID, decode[domain.Genre](t, resp).ID)

	resp = ts.api.Get("/api/genre/name/Horror")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
