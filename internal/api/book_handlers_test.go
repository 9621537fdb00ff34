package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliohome/bibliohome-server/internal/domain"
)

func TestCreateBook_ResolvesAssociations(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/book", map[string]any{
		"title":   "The Hobbit",
		"isbn13":  "9780547928227",
		"authors": []any{"J.R.R. Tolkien"},
		"genres":  []any{"Fiction / Fantasy"},
		"series":  []any{map[string]any{"name": "Middle-earth", "orderNumber": 1}},
	})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	book := decode[domain.Book](t, resp)
	assert.Equal(t, "The Hobbit", book.Title)
	require.Len(t, book.Authors, 1)
	assert.Equal(t, "Tolkien", book.Authors[0].LastName)
	require.Len(t, book.Genres, 1)
	assert.Equal(t, "Fiction / Fantasy", book.Genres[0].Path)
	require.Len(t, book.Series, 1)
}

func TestCreateBook_MissingTitle(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/book", map[string]any{"isbn13": "9780547928227"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.NotEmpty(t, body["errors"])
}

func TestSearchBook_MissReturnsEmptyObject(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/book/search?isbn13=9999999999999")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{}`, resp.Body.String())
}

func TestSearchBook_HitListsLibraries(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Dune", "isbn10": "0441172717"})
	libID := ts.createID(t, "/api/library", map[string]any{"name": "Home"})
	ts.createID(t, "/api/bookInstance", map[string]any{
		"status":     "Available",
		"bookId":     bookID,
		"libraryIds": []string{libID},
	})

	resp := ts.api.Get("/api/book/search?isbn10=0441172717")

	require.Equal(t, http.StatusOK, resp.Code)
	match := decode[BookSearchResponse](t, resp)
	require.NotNil(t, match.Book)
	assert.Equal(t, bookID, match.Book.ID)
	assert.Equal(t, []string{libID}, match.Libraries)
}

func TestGetBook_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/book/missing")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestUpdateBook_ReplacesAuthors(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Good Omens", "authors": []any{"Terry Pratchett"}})

	resp := ts.api.Post("/api/book/"+bookID+"/update", map[string]any{
		"subtitle": "The Nice and Accurate Prophecies",
		"authors":  []any{"Neil Gaiman"},
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	book := decode[domain.Book](t, resp)
	assert.Equal(t, "Good Omens", book.Title)
	assert.Equal(t, "The Nice and Accurate Prophecies", book.Subtitle)
	require.Len(t, book.Authors, 1)
	assert.Equal(t, "Gaiman", book.Authors[0].LastName)
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Emma"})

	resp := ts.api.Post("/api/book/"+bookID+"/delete", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Book deleted successfully", decode[MessageResponse](t, resp).Message)

	resp = ts.api.Get("/api/book/" + bookID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteBook_WithInstanceIsRefused(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Persuasion"})
	ts.createID(t, "/api/bookInstance", map[string]any{"status": "Available", "bookId": bookID})

	resp := ts.api.Post("/api/book/"+bookID+"/delete", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/book/"+bookID).Code)
}

func TestUpdateBookStatus_KeepsDateRead(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Middlemarch"})
	userID := ts.createID(t, "/api/user", map[string]any{
		"username": "ada",
		"password": "secret",
		"email":    "ada@example.com",
	})

	resp := ts.api.Post("/api/book/"+bookID+"/updateStatus", map[string]any{"userId": userID, "status": "read"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	read := decode[domain.UserBook](t, resp)
	assert.Equal(t, domain.ReadingRead, read.Status)
	require.NotNil(t, read.DateRead)

	resp = ts.api.Post("/api/book/"+bookID+"/updateStatus", map[string]any{"userId": userID, "status": "reading"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	reading := decode[domain.UserBook](t, resp)
	assert.Equal(t, domain.ReadingReading, reading.Status)
	require.NotNil(t, reading.DateRead)
	assert.True(t, read.DateRead.Equal(*reading.DateRead))
}

func TestUpdateBookStatus_BodyPathMismatch(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Ulysses"})

	resp := ts.api.Post("/api/book/"+bookID+"/updateStatus", map[string]any{
		"bookId": "someone-else",
		"userId": "u1",
		"status": "read",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateBookDateRead_NullClears(t *testing.T) {
	ts := setupTestServer(t)

	bookID := ts.createID(t, "/api/book", map[string]any{"title": "Beloved"})
	userID := ts.createID(t, "/api/user", map[string]any{
		"username": "toni",
		"password": "secret",
		"email":    "toni@example.com",
	})

	resp := ts.api.Post("/api/book/"+bookID+"/updateDateRead", map[string]any{"userId": userID, "dateRead": "2024-03-01"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	ub := decode[domain.UserBook](t, resp)
	require.NotNil(t, ub.DateRead)
	assert.Equal(t, "2024-03-01", ub.DateRead.Format("2006-01-02"))

	resp = ts.api.Post("/api/book/"+bookID+"/updateDateRead", map[string]any{"userId": userID, "dateRead": nil})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Nil(t, decode[domain.UserBook](t, resp).DateRead)
}

func TestListBooks_TitleFilter(t *testing.T) {
	ts := setupTestServer(t)

	ts.createID(t, "/api/book", map[string]any{"title": "Dracula"})
	ts.createID(t, "/api/book", map[string]any{"title": "Frankenstein"})

	resp := ts.api.Get("/api/book?title=drac")

	require.Equal(t, http.StatusOK, resp.Code)
	books := decode[[]domain.Book](t, resp)
	require.Len(t, books, 1)
	assert.Equal(t, "Dracula", books[0].Title)
}
