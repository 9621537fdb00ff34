package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerMediaInstanceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchMediaInstances",
		Method:      http.MethodGet,
		Path:        "/api/mediaInstance/search",
		Summary:     "Page a library's media",
		Description: "Returns books then movies held by a library. Each kind is paged with the same offset and limit; count covers both kinds.",
		Tags:        []string{"Media Instances"},
	}, s.handleSearchMediaInstances)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMediaInstances",
		Method:      http.MethodGet,
		Path:        "/api/mediaInstance",
		Summary:     "List all media",
		Description: "Returns every book instance then every movie instance, each ordered by title",
		Tags:        []string{"Media Instances"},
	}, s.handleListMediaInstances)
}

// === Handlers ===

func (s *Server) handleSearchMediaInstances(ctx context.Context, input *PageInput) (*InstancePageOutput, error) {
	page, err := s.services.MediaInstance.Search(ctx, input.LibraryID, input.params())
	if err != nil {
		return nil, err
	}
	return newInstancePageOutput(page), nil
}

func (s *Server) handleListMediaInstances(ctx context.Context, _ *struct{}) (*ListInstancesOutput, error) {
	rows, err := s.services.MediaInstance.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return &ListInstancesOutput{Body: orEmpty(rows)}, nil
}
