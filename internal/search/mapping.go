package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for catalog documents.
//
// Titles and related names use English stemming; type stays a keyword for
// filtering; year and created_at are numeric for range queries and sorting.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Text fields.
	docMapping.AddFieldMappingsAt("name", textField(en.AnalyzerName, true, true))
	docMapping.AddFieldMappingsAt("subtitle", textField(en.AnalyzerName, true, false))
	docMapping.AddFieldMappingsAt("description", textField(en.AnalyzerName, false, false))
	docMapping.AddFieldMappingsAt("author", textField(en.AnalyzerName, true, true))
	docMapping.AddFieldMappingsAt("production_company", textField(simple.Name, true, true))
	docMapping.AddFieldMappingsAt("series_name", textField(en.AnalyzerName, true, true))
	docMapping.AddFieldMappingsAt("publisher", textField(simple.Name, true, false))

	// Genre paths are searchable by segment ("Fantasy" finds "Fiction / Fantasy").
	docMapping.AddFieldMappingsAt("genres", textField(simple.Name, true, false))

	// Keyword fields.
	docMapping.AddFieldMappingsAt("type", textField(keyword.Name, true, false))
	docMapping.AddFieldMappingsAt("id", textField(keyword.Name, false, false))

	// Numeric fields.
	year := bleve.NewNumericFieldMapping()
	year.Store = true
	docMapping.AddFieldMappingsAt("year", year)

	createdAt := bleve.NewNumericFieldMapping()
	createdAt.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAt)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

func textField(analyzer string, store, termVectors bool) *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = analyzer
	fm.Store = store
	fm.IncludeTermVectors = termVectors
	return fm
}
