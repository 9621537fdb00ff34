package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createGenre",
		Method:        http.MethodPost,
		Path:          "/api/genre",
		Summary:       "Create genre",
		Description:   "Creates every genre along a \" / \" separated path and returns the leaf",
		Tags:          []string{"Genres"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/genre",
		Summary:     "List genres",
		Description: "Returns every genre ordered by path, optionally filtered by name",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchGenres",
		Method:      http.MethodGet,
		Path:        "/api/genre/search",
		Summary:     "Look up genres",
		Description: "Matches by id, by a display-name prefix, or by a path fragment. One parameter is required.",
		Tags:        []string{"Genres"},
	}, s.handleSearchGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenreByName",
		Method:      http.MethodGet,
		Path:        "/api/genre/name/{name}",
		Summary:     "Get genre by name",
		Tags:        []string{"Genres"},
	}, s.handleGetGenreByName)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenre",
		Method:      http.MethodGet,
		Path:        "/api/genre/{id}",
		Summary:     "Get genre",
		Tags:        []string{"Genres"},
	}, s.handleGetGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGenre",
		Method:      http.MethodPost,
		Path:        "/api/genre/{id}/update",
		Summary:     "Rename genre",
		Description: "Changes the genre's display name; its path is unchanged",
		Tags:        []string{"Genres"},
	}, s.handleUpdateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGenre",
		Method:      http.MethodPost,
		Path:        "/api/genre/{id}/delete",
		Summary:     "Delete genre",
		Description: "Deletes a genre no book or movie refers to",
		Tags:        []string{"Genres"},
	}, s.handleDeleteGenre)
}

// === DTOs ===

// GenreRequest is the body for creating a genre. name is read as a path
// when path is absent.
type GenreRequest struct {
	Name string `json:"name,omitempty" doc:"Genre name or path"`
	Path string `json:"path,omitempty" doc:"Breadcrumb path, e.g. \"Fiction / Fantasy\""`
}

// CreateGenreInput wraps the create request for Huma.
type CreateGenreInput struct {
	Body GenreRequest
}

// RenameGenreRequest is the body for renaming a genre.
type RenameGenreRequest struct {
	Name string `json:"name,omitempty" doc:"New display name"`
}

// UpdateGenreInput wraps the rename request for Huma.
type UpdateGenreInput struct {
	ID   string `path:"id" doc:"Genre ID"`
	Body RenameGenreRequest
}

// GenreOutput wraps a single genre for Huma.
type GenreOutput struct {
	Body *domain.Genre
}

// ListGenresOutput wraps the genre list for Huma.
type ListGenresOutput struct {
	Body []*domain.Genre
}

// SearchGenresInput carries the genre lookup criteria, tried in order.
type SearchGenresInput struct {
	ID   string `query:"id" doc:"Genre ID"`
	Name string `query:"name" doc:"Display-name prefix"`
	Path string `query:"path" doc:"Fragment of the path"`
}

// GenreNameInput is the path parameter of the by-name lookup.
type GenreNameInput struct {
	Name string `path:"name" doc:"Exact display name"`
}

// === Handlers ===

func (s *Server) handleCreateGenre(ctx context.Context, input *CreateGenreInput) (*GenreOutput, error) {
	path := input.Body.Path
	if path == "" {
		path = input.Body.Name
	}
	g, err := s.services.Genre.CreateGenre(ctx, service.CreateGenreRequest{Path: path})
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: g}, nil
}

func (s *Server) handleListGenres(ctx context.Context, input *NameFilterInput) (*ListGenresOutput, error) {
	genres, err := s.services.Genre.ListGenres(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return &ListGenresOutput{Body: orEmpty(genres)}, nil
}

func (s *Server) handleGetGenre(ctx context.Context, input *IDInput) (*GenreOutput, error) {
	g, err := s.services.Genre.GetGenre(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: g}, nil
}

func (s *Server) handleUpdateGenre(ctx context.Context, input *UpdateGenreInput) (*GenreOutput, error) {
	g, err := s.services.Genre.UpdateGenre(ctx, input.ID, service.UpdateGenreRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: g}, nil
}

func (s *Server) handleDeleteGenre(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Genre.DeleteGenre(ctx, input.ID); err != nil {
		return nil, err
	}
	return deleted("Genre"), nil
}

func (s *Server) handleSearchGenres(ctx context.Context, input *SearchGenresInput) (*ListGenresOutput, error) {
	genres, err := s.services.Genre.SearchGenres(ctx, service.GenreLookup(*input))
	if err != nil {
		return nil, err
	}
	return &ListGenresOutput{Body: genres}, nil
}

func (s *Server) handleGetGenreByName(ctx context.Context, input *GenreNameInput) (*GenreOutput, error) {
	g, err := s.services.Genre.GetGenreByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: g}, nil
}
