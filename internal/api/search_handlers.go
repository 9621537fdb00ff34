package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/catalog/search",
		Summary:     "Search catalog",
		Description: "Full-text search over book and movie titles, descriptions, authors, genres, series and production companies",
		Tags:        []string{"Search"},
	}, s.handleSearchCatalog)
}

// === DTOs ===

// SearchCatalogInput contains parameters for searching the catalog.
type SearchCatalogInput struct {
	Query   string `query:"q" maxLength:"200" doc:"Search text; empty matches everything"`
	Kind    string `query:"kind" enum:"book,movie" doc:"Restrict to one media kind"`
	MinYear int    `query:"minYear" minimum:"0" doc:"Earliest publication or release year"`
	MaxYear int    `query:"maxYear" minimum:"0" doc:"Latest publication or release year"`
	Sort    string `query:"sort" enum:"relevance,title,recent" doc:"Result order (default relevance)"`
	Limit   int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset  int    `query:"offset" minimum:"0" doc:"Pagination offset"`
	Facets  bool   `query:"facets" doc:"Include per-kind hit counts"`
}

// SearchCatalogOutput wraps the search result for Huma.
type SearchCatalogOutput struct {
	Body *search.SearchResult
}

// === Handlers ===

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.MinYear = input.MinYear
	params.MaxYear = input.MaxYear
	params.Offset = input.Offset
	params.IncludeFacets = input.Facets
	if input.Kind != "" {
		params.Types = []search.DocType{search.DocType(input.Kind)}
	}
	if input.Sort != "" {
		params.SortBy = input.Sort
	}
	if input.Limit > 0 {
		params.Limit = input.Limit
	}

	s.logger.Debug("catalog search",
		"query", input.Query,
		"kind", input.Kind,
		"limit", params.Limit,
		"request_id", getRequestID(ctx),
	)

	res, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if res.Hits == nil {
		res.Hits = []search.SearchHit{}
	}
	return &SearchCatalogOutput{Body: res}, nil
}
