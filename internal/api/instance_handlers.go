package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

func (s *Server) registerInstanceRoutes() {
	registerInstanceKind[BookInstanceRequest](s, domain.KindBook, "bookInstance", "Book instance")
	registerInstanceKind[MovieInstanceRequest](s, domain.KindMovie, "movieInstance", "Movie instance")
}

// registerInstanceKind registers CRUD and library search for one instance
// table. The two kinds differ only in their catalog reference field.
func registerInstanceKind[B instanceBody](s *Server, kind domain.MediaKind, resource, entity string) {
	base := "/api/" + resource
	tag := entity + "s"

	huma.Register(s.api, huma.Operation{
		OperationID:   "create" + resource,
		Method:        http.MethodPost,
		Path:          base,
		Summary:       "Create " + string(kind) + " instance",
		Description:   "Records an owned copy and attaches it to libraries",
		Tags:          []string{tag},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateInstanceInput[B]) (*InstanceOutput, error) {
		inst, err := s.services.Instance.CreateInstance(ctx, kind, input.Body.toService())
		if err != nil {
			return nil, err
		}
		return &InstanceOutput{Body: inst}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list" + resource,
		Method:      http.MethodGet,
		Path:        base,
		Summary:     "List " + string(kind) + " instances",
		Description: "Returns every " + string(kind) + " instance ordered by title",
		Tags:        []string{tag},
	}, func(ctx context.Context, _ *struct{}) (*ListInstancesOutput, error) {
		rows, err := s.services.Instance.ListInstances(ctx, kind)
		if err != nil {
			return nil, err
		}
		return &ListInstancesOutput{Body: orEmpty(rows)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "search" + resource,
		Method:      http.MethodGet,
		Path:        base + "/search",
		Summary:     "Page " + string(kind) + " instances",
		Description: "Pages through the " + strings.ToLower(kind.DisplayName()) + " held by a library",
		Tags:        []string{tag},
	}, func(ctx context.Context, input *PageInput) (*InstancePageOutput, error) {
		page, err := s.services.Instance.SearchInstances(ctx, kind, input.LibraryID, input.params())
		if err != nil {
			return nil, err
		}
		return newInstancePageOutput(page), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get" + resource,
		Method:      http.MethodGet,
		Path:        base + "/{id}",
		Summary:     "Get " + string(kind) + " instance",
		Tags:        []string{tag},
	}, func(ctx context.Context, input *IDInput) (*InstanceOutput, error) {
		inst, err := s.services.Instance.GetInstance(ctx, kind, input.ID)
		if err != nil {
			return nil, err
		}
		return &InstanceOutput{Body: inst}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update" + resource,
		Method:      http.MethodPost,
		Path:        base + "/{id}/update",
		Summary:     "Update " + string(kind) + " instance",
		Description: "Replaces the instance's fields; a supplied libraryIds list replaces its libraries",
		Tags:        []string{tag},
	}, func(ctx context.Context, input *UpdateInstanceInput[B]) (*InstanceOutput, error) {
		inst, err := s.services.Instance.UpdateInstance(ctx, kind, input.ID, input.Body.toService())
		if err != nil {
			return nil, err
		}
		return &InstanceOutput{Body: inst}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "delete" + resource,
		Method:      http.MethodPost,
		Path:        base + "/{id}/delete",
		Summary:     "Delete " + string(kind) + " instance",
		Tags:        []string{tag},
	}, func(ctx context.Context, input *IDInput) (*MessageOutput, error) {
		if err := s.services.Instance.DeleteInstance(ctx, kind, input.ID); err != nil {
			return nil, err
		}
		return deleted(entity), nil
	})
}

// === DTOs ===

type instanceBody interface {
	BookInstanceRequest | MovieInstanceRequest
	toService() service.InstanceRequest
}

// BookInstanceRequest is the body for creating or updating a book instance.
type BookInstanceRequest struct {
	Status         string   `json:"status,omitempty" doc:"Available, Maintenance, Loaned or Reserved"`
	DueBack        string   `json:"dueBack,omitempty" doc:"ISO-8601 date the copy is due back"`
	NumberOfCopies *int     `json:"numberOfCopies,omitempty" doc:"Copies owned (default 1)"`
	BookID         string   `json:"bookId,omitempty" doc:"Catalog book this is a copy of"`
	UserID         string   `json:"userId,omitempty" doc:"Borrower or owner"`
	LibraryIDs     []string `json:"libraryIds,omitempty" doc:"Libraries holding the copy"`
}

func (r BookInstanceRequest) toService() service.InstanceRequest {
	return service.InstanceRequest{
		Status:         r.Status,
		DueBack:        r.DueBack,
		NumberOfCopies: r.NumberOfCopies,
		CatalogID:      r.BookID,
		UserID:         r.UserID,
		LibraryIDs:     r.LibraryIDs,
	}
}

// MovieInstanceRequest is the body for creating or updating a movie instance.
type MovieInstanceRequest struct {
	Status     string   `json:"status,omitempty" doc:"Available, Maintenance, Loaned or Reserved"`
	DueBack    string   `json:"dueBack,omitempty" doc:"ISO-8601 date the copy is due back"`
	MovieID    string   `json:"movieId,omitempty" doc:"Catalog movie this is a copy of"`
	UserID     string   `json:"userId,omitempty" doc:"Borrower or owner"`
	LibraryIDs []string `json:"libraryIds,omitempty" doc:"Libraries holding the copy"`
}

func (r MovieInstanceRequest) toService() service.InstanceRequest {
	return service.InstanceRequest{
		Status:     r.Status,
		DueBack:    r.DueBack,
		CatalogID:  r.MovieID,
		UserID:     r.UserID,
		LibraryIDs: r.LibraryIDs,
	}
}

// CreateInstanceInput wraps a create request for Huma.
type CreateInstanceInput[B instanceBody] struct {
	Body B
}

// UpdateInstanceInput wraps an update request for Huma.
type UpdateInstanceInput[B instanceBody] struct {
	ID   string `path:"id" doc:"Instance ID"`
	Body B
}

// InstanceOutput wraps a single instance for Huma.
type InstanceOutput struct {
	Body *domain.Instance
}

// ListInstancesOutput wraps an instance list for Huma.
type ListInstancesOutput struct {
	Body []*domain.Instance
}

// InstancePage is one page of instances plus the total across all pages.
type InstancePage struct {
	Count int                `json:"count" doc:"Total instances across all pages"`
	Rows  []*domain.Instance `json:"rows" doc:"Instances on this page"`
}

// InstancePageOutput wraps an instance page for Huma.
type InstancePageOutput struct {
	Body InstancePage
}

func newInstancePageOutput(page *store.PagedResult[*domain.Instance]) *InstancePageOutput {
	return &InstancePageOutput{Body: InstancePage{Count: page.Count, Rows: orEmpty(page.Rows)}}
}
