package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createAuthor",
		Method:        http.MethodPost,
		Path:          "/api/author",
		Summary:       "Create author",
		Description:   "Creates an author; first and last name together must be unique",
		Tags:          []string{"Authors"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthors",
		Method:      http.MethodGet,
		Path:        "/api/author",
		Summary:     "List authors",
		Description: "Returns every author, optionally filtered by name",
		Tags:        []string{"Authors"},
	}, s.handleListAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchAuthors",
		Method:      http.MethodGet,
		Path:        "/api/author/search",
		Summary:     "Look up authors",
		Description: "Matches by id, by a first- or last-name prefix, or by exact first and last name. Returns {} when no parameter is given.",
		Tags:        []string{"Authors"},
	}, s.handleSearchAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAuthor",
		Method:      http.MethodGet,
		Path:        "/api/author/{id}",
		Summary:     "Get author",
		Tags:        []string{"Authors"},
	}, s.handleGetAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAuthor",
		Method:      http.MethodPost,
		Path:        "/api/author/{id}/update",
		Summary:     "Update author",
		Tags:        []string{"Authors"},
	}, s.handleUpdateAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAuthor",
		Method:      http.MethodPost,
		Path:        "/api/author/{id}/delete",
		Summary:     "Delete author",
		Description: "Deletes an author no book refers to",
		Tags:        []string{"Authors"},
	}, s.handleDeleteAuthor)
}

// === DTOs ===

// AuthorRequest is the body for creating or updating an author.
type AuthorRequest struct {
	FirstName string `json:"firstName,omitempty" doc:"Given names"`
	LastName  string `json:"lastName,omitempty" doc:"Family name"`
}

// CreateAuthorInput wraps the create request for Huma.
type CreateAuthorInput struct {
	Body AuthorRequest
}

// UpdateAuthorInput wraps the update request for Huma.
type UpdateAuthorInput struct {
	ID   string `path:"id" doc:"Author ID"`
	Body AuthorRequest
}

// AuthorOutput wraps a single author for Huma.
type AuthorOutput struct {
	Body *domain.Author
}

// ListAuthorsOutput wraps the author list for Huma.
type ListAuthorsOutput struct {
	Body []*domain.Author
}

// SearchAuthorsInput carries the author lookup criteria, tried in order.
type SearchAuthorsInput struct {
	ID        string `query:"id" doc:"Author ID"`
	Search    string `query:"search" doc:"Prefix of the first or last name"`
	FirstName string `query:"firstName" doc:"Exact first name, used with lastName"`
	LastName  string `query:"lastName" doc:"Exact last name, used with firstName"`
}

// === Handlers ===

func (s *Server) handleCreateAuthor(ctx context.Context, input *CreateAuthorInput) (*AuthorOutput, error) {
	a, err := s.services.Author.CreateAuthor(ctx, service.AuthorRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: a}, nil
}

func (s *Server) handleListAuthors(ctx context.Context, input *NameFilterInput) (*ListAuthorsOutput, error) {
	authors, err := s.services.Author.ListAuthors(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return &ListAuthorsOutput{Body: orEmpty(authors)}, nil
}

func (s *Server) handleGetAuthor(ctx context.Context, input *IDInput) (*AuthorOutput, error) {
	a, err := s.services.Author.GetAuthor(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: a}, nil
}

func (s *Server) handleUpdateAuthor(ctx context.Context, input *UpdateAuthorInput) (*AuthorOutput, error) {
	a, err := s.services.Author.UpdateAuthor(ctx, input.ID, service.AuthorRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: a}, nil
}

func (s *Server) handleDeleteAuthor(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Author.DeleteAuthor(ctx, input.ID); err != nil {
		return nil, err
	}
	return deleted("Author"), nil
}

func (s *Server) handleSearchAuthors(ctx context.Context, input *SearchAuthorsInput) (*LookupOutput, error) {
	authors, err := s.services.Author.SearchAuthors(ctx, service.AuthorLookup(*input))
	if err != nil {
		return nil, err
	}
	return lookupResult(authors), nil
}
