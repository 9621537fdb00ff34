package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createLibrary",
		Method:        http.MethodPost,
		Path:          "/api/library",
		Summary:       "Create library",
		Description:   "Creates a named library; the icon defaults to MenuBookRounded",
		Tags:          []string{"Libraries"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLibraries",
		Method:      http.MethodGet,
		Path:        "/api/library",
		Summary:     "List libraries",
		Description: "Returns every library, optionally filtered by name",
		Tags:        []string{"Libraries"},
	}, s.handleListLibraries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibrary",
		Method:      http.MethodGet,
		Path:        "/api/library/{id}",
		Summary:     "Get library",
		Tags:        []string{"Libraries"},
	}, s.handleGetLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLibrary",
		Method:      http.MethodPost,
		Path:        "/api/library/{id}/update",
		Summary:     "Update library",
		Tags:        []string{"Libraries"},
	}, s.handleUpdateLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLibrary",
		Method:      http.MethodPost,
		Path:        "/api/library/{id}/delete",
		Summary:     "Delete library",
		Description: "Deletes a library that holds no instances",
		Tags:        []string{"Libraries"},
	}, s.handleDeleteLibrary)
}

// === DTOs ===

// LibraryRequest is the body for creating or updating a library.
type LibraryRequest struct {
	Name string `json:"name,omitempty" doc:"Library name (unique)"`
	Icon string `json:"icon,omitempty" doc:"Client icon name"`
}

// CreateLibraryInput wraps the create request for Huma.
type CreateLibraryInput struct {
	Body LibraryRequest
}

// UpdateLibraryInput wraps the update request for Huma.
type UpdateLibraryInput struct {
	ID   string `path:"id" doc:"Library ID"`
	Body LibraryRequest
}

// LibraryOutput wraps a single library for Huma.
type LibraryOutput struct {
	Body *domain.Library
}

// ListLibrariesOutput wraps the library list for Huma.
type ListLibrariesOutput struct {
	Body []*domain.Library
}

// === Handlers ===

func (s *Server) handleCreateLibrary(ctx context.Context, input *CreateLibraryInput) (*LibraryOutput, error) {
	lib, err := s.services.Library.CreateLibrary(ctx, service.LibraryRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &LibraryOutput{Body: lib}, nil
}

func (s *Server) handleListLibraries(ctx context.Context, input *NameFilterInput) (*ListLibrariesOutput, error) {
	libraries, err := s.services.Library.ListLibraries(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return &ListLibrariesOutput{Body: orEmpty(libraries)}, nil
}

func (s *Server) handleGetLibrary(ctx context.Context, input *IDInput) (*LibraryOutput, error) {
	lib, err := s.services.Library.GetLibrary(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LibraryOutput{Body: lib}, nil
}

func (s *Server) handleUpdateLibrary(ctx context.Context, input *UpdateLibraryInput) (*LibraryOutput, error) {
	lib, err := s.services.Library.UpdateLibrary(ctx, input.ID, service.LibraryRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &LibraryOutput{Body: lib}, nil
}

func (s *Server) handleDeleteLibrary(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Library.DeleteLibrary(ctx, input.ID); err != nil {
		return nil, err
	}
	return deleted("Library"), nil
}
