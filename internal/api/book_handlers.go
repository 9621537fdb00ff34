package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/book",
		Summary:       "Create book",
		Description:   "Creates a book, resolving authors, genres and series by id or name",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/book",
		Summary:     "List books",
		Description: "Returns every book, optionally filtered by title",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBook",
		Method:      http.MethodGet,
		Path:        "/api/book/search",
		Summary:     "Find book",
		Description: "Looks a book up by id, then ISBN-10, then ISBN-13. A miss returns an empty object.",
		Tags:        []string{"Books"},
	}, s.handleSearchBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/book/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its authors, genres and series",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPost,
		Path:        "/api/book/{id}/update",
		Summary:     "Update book",
		Description: "Overwrites the supplied fields; supplied author and genre lists replace the existing links",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookStatus",
		Method:      http.MethodPost,
		Path:        "/api/book/{id}/updateStatus",
		Summary:     "Update reading status",
		Description: "Sets a user's reading status on a book. Moving to read stamps today's date when none is set.",
		Tags:        []string{"Books"},
	}, s.handleUpdateBookStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookDateRead",
		Method:      http.MethodPost,
		Path:        "/api/book/{id}/updateDateRead",
		Summary:     "Update date read",
		Description: "Sets or clears the date a user finished a book",
		Tags:        []string{"Books"},
	}, s.handleUpdateBookDateRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodPost,
		Path:        "/api/book/{id}/delete",
		Summary:     "Delete book",
		Description: "Deletes a book that no instance refers to",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookRequest is the body for creating or updating a book.
type BookRequest struct {
	Title         string        `json:"title,omitempty" doc:"Title (required on create)"`
	Authors       []AuthorInput `json:"authors,omitempty" doc:"Author names or references"`
	ISBN10        string        `json:"isbn10,omitempty" doc:"ISBN-10"`
	ISBN13        string        `json:"isbn13,omitempty" doc:"ISBN-13"`
	Genres        []GenreInput  `json:"genres,omitempty" doc:"Genre paths such as \"Fiction / Fantasy\" or references"`
	Subtitle      string        `json:"subtitle,omitempty" doc:"Subtitle"`
	Description   string        `json:"description,omitempty" doc:"Description; HTML is converted to Markdown"`
	Photo         string        `json:"photo,omitempty" doc:"Cover image URL"`
	PageCount     *int          `json:"pageCount,omitempty" doc:"Number of pages"`
	Binding       string        `json:"binding,omitempty" doc:"Physical binding"`
	Series        []SeriesInput `json:"series,omitempty" doc:"Series names or references"`
	OrderNumber   *int          `json:"orderNumber,omitempty" doc:"Position in series for entries that give none"`
	Publisher     string        `json:"publisher,omitempty" doc:"Publisher"`
	PublishedDate string        `json:"publishedDate,omitempty" doc:"ISO-8601 publication date"`
}

func (r BookRequest) toService() service.CreateBookRequest {
	return service.CreateBookRequest{
		Title:         r.Title,
		Authors:       authorRefs(r.Authors),
		ISBN10:        r.ISBN10,
		ISBN13:        r.ISBN13,
		Genres:        genreRefs(r.Genres),
		Subtitle:      r.Subtitle,
		Description:   r.Description,
		Photo:         r.Photo,
		PageCount:     r.PageCount,
		Binding:       r.Binding,
		Series:        seriesRefs(r.Series),
		OrderNumber:   r.OrderNumber,
		Publisher:     r.Publisher,
		PublishedDate: r.PublishedDate,
	}
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body BookRequest
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body BookRequest
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// ListBooksOutput wraps the book list for Huma.
type ListBooksOutput struct {
	Body []*domain.Book
}

// SearchBookInput carries the book identifiers, tried in order.
type SearchBookInput struct {
	ID     string `query:"id" doc:"Book ID"`
	ISBN10 string `query:"isbn10" doc:"ISBN-10"`
	ISBN13 string `query:"isbn13" doc:"ISBN-13"`
}

// BookSearchResponse is a resolved book and the ids of the libraries that
// already hold a copy.
type BookSearchResponse struct {
	Book      *domain.Book `json:"book" doc:"Book with authors, genres, series and readers"`
	Libraries []string     `json:"libraries" doc:"Library IDs holding an instance, in first-seen order"`
}

// SearchBookOutput is a BookSearchResponse on a hit and {} on a miss.
type SearchBookOutput struct {
	Body any
}

// ReadingStatusRequest is the body of updateStatus.
type ReadingStatusRequest struct {
	BookID string `json:"bookId,omitempty" doc:"Must match the path when given"`
	UserID string `json:"userId,omitempty" doc:"User whose status changes"`
	Status string `json:"status,omitempty" doc:"unread, reading, read or abandoned"`
}

// UpdateBookStatusInput wraps the status request for Huma.
type UpdateBookStatusInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body ReadingStatusRequest
}

// DateReadRequest is the body of updateDateRead.
type DateReadRequest struct {
	BookID   string  `json:"bookId,omitempty" doc:"Must match the path when given"`
	UserID   string  `json:"userId,omitempty" doc:"User whose date changes"`
	DateRead *string `json:"dateRead,omitempty" nullable:"true" doc:"ISO-8601 date; null, empty or \"Invalid Date\" clears it"`
}

// UpdateBookDateReadInput wraps the date-read request for Huma.
type UpdateBookDateReadInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body DateReadRequest
}

// UserBookOutput wraps a status overlay for Huma.
type UserBookOutput struct {
	Body *domain.UserBook
}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	b, err := s.services.Book.CreateBook(ctx, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: b}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *TitleFilterInput) (*ListBooksOutput, error) {
	books, err := s.services.Book.ListBooks(ctx, input.Title)
	if err != nil {
		return nil, err
	}
	return &ListBooksOutput{Body: orEmpty(books)}, nil
}

func (s *Server) handleSearchBook(ctx context.Context, input *SearchBookInput) (*SearchBookOutput, error) {
	match, err := s.services.Book.ResolveBook(ctx, service.BookQuery{
		ID:     input.ID,
		ISBN10: input.ISBN10,
		ISBN13: input.ISBN13,
	})
	if err != nil {
		return nil, err
	}
	if match == nil {
		return &SearchBookOutput{Body: struct{}{}}, nil
	}
	return &SearchBookOutput{Body: BookSearchResponse{Book: match.Book, Libraries: match.Libraries}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *IDInput) (*BookOutput, error) {
	b, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: b}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	b, err := s.services.Book.UpdateBook(ctx, input.ID, service.UpdateBookRequest(input.Body.toService()))
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: b}, nil
}

func (s *Server) handleUpdateBookStatus(ctx context.Context, input *UpdateBookStatusInput) (*UserBookOutput, error) {
	bookID, err := pathBookID(input.ID, input.Body.BookID)
	if err != nil {
		return nil, err
	}
	ub, err := s.services.ReadingStatus.UpdateStatus(ctx, service.UpdateStatusRequest{
		BookID: bookID,
		UserID: input.Body.UserID,
		Status: input.Body.Status,
	})
	if err != nil {
		return nil, err
	}
	return &UserBookOutput{Body: ub}, nil
}

func (s *Server) handleUpdateBookDateRead(ctx context.Context, input *UpdateBookDateReadInput) (*UserBookOutput, error) {
	bookID, err := pathBookID(input.ID, input.Body.BookID)
	if err != nil {
		return nil, err
	}
	var dateRead string
	if input.Body.DateRead != nil {
		dateRead = *input.Body.DateRead
	}
	ub, err := s.services.ReadingStatus.UpdateDateRead(ctx, service.UpdateDateReadRequest{
		BookID:   bookID,
		UserID:   input.Body.UserID,
		DateRead: dateRead,
	})
	if err != nil {
		return nil, err
	}
	return &UserBookOutput{Body: ub}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Book.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}
	return deleted("Book"), nil
}

// pathBookID reconciles the path id with an optional body bookId.
func pathBookID(pathID, bodyID string) (string, error) {
	bodyID = strings.TrimSpace(bodyID)
	if bodyID != "" && bodyID != pathID {
		return "", domainerrors.Validation("bookId in body does not match the book in the path")
	}
	return pathID, nil
}
