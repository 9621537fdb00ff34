package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerSeriesRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createSeries",
		Method:        http.MethodPost,
		Path:          "/api/series",
		Summary:       "Create series",
		Description:   "Creates a series, or returns the existing one with the same name (200)",
		Tags:          []string{"Series"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSeries",
		Method:      http.MethodGet,
		Path:        "/api/series",
		Summary:     "List series",
		Description: "Returns every series, optionally filtered by name",
		Tags:        []string{"Series"},
	}, s.handleListSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchSeries",
		Method:      http.MethodGet,
		Path:        "/api/series/search",
		Summary:     "Look up series",
		Description: "Matches by id, by a name prefix, or by exact name. Returns {} when no parameter is given.",
		Tags:        []string{"Series"},
	}, s.handleSearchSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSeries",
		Method:      http.MethodGet,
		Path:        "/api/series/{id}",
		Summary:     "Get series",
		Tags:        []string{"Series"},
	}, s.handleGetSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSeries",
		Method:      http.MethodPost,
		Path:        "/api/series/{id}/update",
		Summary:     "Update series",
		Tags:        []string{"Series"},
	}, s.handleUpdateSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSeries",
		Method:      http.MethodPost,
		Path:        "/api/series/{id}/delete",
		Summary:     "Delete series",
		Description: "Deletes a series no book or movie belongs to",
		Tags:        []string{"Series"},
	}, s.handleDeleteSeries)
}

// === DTOs ===

// SeriesRequest is the body for creating or updating a series.
type SeriesRequest struct {
	Name        string `json:"name,omitempty" doc:"Series name (unique)"`
	Description string `json:"description,omitempty" doc:"Description"`
	Photo       string `json:"photo,omitempty" doc:"Image URL"`
}

// CreateSeriesInput wraps the create request for Huma.
type CreateSeriesInput struct {
	Body SeriesRequest
}

// UpdateSeriesInput wraps the update request for Huma.
type UpdateSeriesInput struct {
	ID   string `path:"id" doc:"Series ID"`
	Body SeriesRequest
}

// SeriesOutput wraps a single series for Huma. Status is 201 when the
// series was created and 200 when an existing one was returned.
type SeriesOutput struct {
	Status int
	Body   *domain.Series
}

// ListSeriesOutput wraps the series list for Huma.
type ListSeriesOutput struct {
	Body []*domain.Series
}

// SearchSeriesInput carries the series lookup criteria, tried in order.
type SearchSeriesInput struct {
	ID     string `query:"id" doc:"Series ID"`
	Search string `query:"search" doc:"Name prefix"`
	Name   string `query:"name" doc:"Exact name"`
}

// === Handlers ===

func (s *Server) handleCreateSeries(ctx context.Context, input *CreateSeriesInput) (*SeriesOutput, error) {
	sr, created, err := s.services.Series.CreateSeries(ctx, service.SeriesRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &SeriesOutput{Status: createdStatus(created), Body: sr}, nil
}

func (s *Server) handleListSeries(ctx context.Context, input *NameFilterInput) (*ListSeriesOutput, error) {
	series, err := s.services.Series.ListSeries(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return &ListSeriesOutput{Body: orEmpty(series)}, nil
}

func (s *Server) handleGetSeries(ctx context.Context, input *IDInput) (*SeriesOutput, error) {
	sr, err := s.services.Series.GetSeries(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SeriesOutput{Status: http.StatusOK, Body: sr}, nil
}

func (s *Server) handleUpdateSeries(ctx context.Context, input *UpdateSeriesInput) (*SeriesOutput, error) {
	sr, err := s.services.Series.UpdateSeries(ctx, input.ID, service.SeriesRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &SeriesOutput{Status: http.StatusOK, Body: sr}, nil
}

func (s *Server) handleDeleteSeries(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Series.DeleteSeries(ctx, input.ID); err != nil {
		return nil, err
	}
	return deleted("Series"), nil
}

func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (s *Server) handleSearchSeries(ctx context.Context, input *SearchSeriesInput) (*LookupOutput, error) {
	series, err := s.services.Series.SearchSeries(ctx, service.SeriesLookup(*input))
	if err != nil {
		return nil, err
	}
	return lookupResult(series), nil
}
