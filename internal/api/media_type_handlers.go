package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
)

func (s *Server) registerMediaTypeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMediaTypes",
		Method:      http.MethodGet,
		Path:        "/api/mediaType",
		Summary:     "List media types",
		Description: "Returns the two media kinds a library can hold",
		Tags:        []string{"Media Types"},
	}, s.handleListMediaTypes)
}

// MediaTypeResponse is one media kind and its display name.
type MediaTypeResponse struct {
	ID   domain.MediaKind `json:"id" doc:"book or movie"`
	Name string           `json:"name" doc:"Display name"`
}

// ListMediaTypesOutput wraps the media kinds for Huma.
type ListMediaTypesOutput struct {
	Body []MediaTypeResponse
}

func (s *Server) handleListMediaTypes(_ context.Context, _ *struct{}) (*ListMediaTypesOutput, error) {
	out := make([]MediaTypeResponse, 0, len(domain.MediaKinds))
	for _, k := range domain.MediaKinds {
		out = append(out, MediaTypeResponse{ID: k, Name: k.DisplayName()})
	}
	return &ListMediaTypesOutput{Body: out}, nil
}
