package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a catalog query.
type SearchParams struct {
	Query string    // Free text; empty matches everything
	Types []DocType // Empty means books and movies

	MinYear int
	MaxYear int

	Limit  int
	Offset int

	// SortBy is "relevance" (default), "title" or "recent".
	SortBy string

	IncludeFacets bool
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		SortBy:        "relevance",
		IncludeFacets: true,
	}
}

// SearchResult is one page of hits plus the total match count.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"tookMs"`
	Hits   []SearchHit  `json:"hits"`
	Facets []FacetCount `json:"facets,omitempty"`
}

// SearchHit is a single matching catalog entry.
type SearchHit struct {
	ID                string            `json:"id"`
	Type              DocType           `json:"type"`
	Score             float64           `json:"score"`
	Name              string            `json:"name"`
	Subtitle          string            `json:"subtitle,omitempty"`
	Author            string            `json:"author,omitempty"`
	ProductionCompany string            `json:"productionCompany,omitempty"`
	SeriesName        string            `json:"seriesName,omitempty"`
	Year              int               `json:"year,omitempty"`
	Highlights        map[string]string `json:"highlights,omitempty"`
}

// FacetCount is the number of hits per document type.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a query against the catalog index.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	addSorting(req, params)
	if params.IncludeFacets {
		req.AddFacet("type", bleve.NewFacetRequest("type", 2))
	}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("name")
	req.Highlight.AddField("author")
	req.Fields = []string{"type", "name", "subtitle", "author", "production_company", "series_name", "year"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["type"].(string); ok {
			h.Type = DocType(v)
		}
		h.Name, _ = hit.Fields["name"].(string)
		h.Subtitle, _ = hit.Fields["subtitle"].(string)
		h.Author, _ = hit.Fields["author"].(string)
		h.ProductionCompany, _ = hit.Fields["production_company"].(string)
		h.SeriesName, _ = hit.Fields["series_name"].(string)
		if y, ok := hit.Fields["year"].(float64); ok {
			h.Year = int(y)
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		out.Hits = append(out.Hits, h)
	}

	if facet, ok := res.Facets["type"]; ok && facet.Terms != nil {
		for _, term := range facet.Terms.Terms() {
			out.Facets = append(out.Facets, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	return out, nil
}

// buildSearchQuery matches the text against titles and every denormalized
// name, boosting titles, and ANDs in the type and year filters.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		fields := []struct {
			name  string
			boost float64
		}{
			{"name", 3.0},
			{"series_name", 1.5},
			{"author", 1.5},
			{"production_company", 1.2},
			{"subtitle", 1.0},
			{"genres", 1.0},
			{"publisher", 0.8},
			{"description", 0.5},
		}
		textQueries := make([]query.Query, 0, len(fields)+2)
		for _, f := range fields {
			mq := bleve.NewMatchQuery(q)
			mq.SetField(f.name)
			mq.SetBoost(f.boost)
			textQueries = append(textQueries, mq)
		}

		// Typo tolerance and autocomplete on the title.
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Types) > 0 {
		typeQueries := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(string(t))
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	if params.MinYear > 0 || params.MaxYear > 0 {
		lo := float64(params.MinYear)
		hi := float64(params.MaxYear)
		if params.MaxYear == 0 {
			hi = 3000
		}
		inclusive := true
		rq := bleve.NewNumericRangeInclusiveQuery(&lo, &hi, &inclusive, &inclusive)
		rq.SetField("year")
		queries = append(queries, rq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "title", "name":
		req.SortBy([]string{"name", "_id"})
	case "recent":
		req.SortBy([]string{"-created_at", "_id"})
	default:
		req.SortBy([]string{"-_score", "_id"})
	}
}
