// Package search provides full-text catalog search using Bleve.
// Books and movies share one index and are told apart by their type field.
package search

import (
	"strings"

	"github.com/bibliohome/bibliohome-server/internal/domain"
)

// DocType is the kind of catalog entry a document represents.
type DocType string

// Document types for the search index.
const (
	DocTypeBook  DocType = DocType(domain.KindBook)
	DocTypeMovie DocType = DocType(domain.KindMovie)
)

// SearchDocument is the flattened form of a catalog entry in the index.
// Author, genre, company and series names are denormalized so one query
// covers every related name.
type SearchDocument struct {
	ID   string  `json:"id"`
	Type DocType `json:"type"`

	// Title of the book or movie.
	Name        string `json:"name"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`

	Author            string   `json:"author,omitempty"` // books only
	Publisher         string   `json:"publisher,omitempty"`
	ProductionCompany string   `json:"production_company,omitempty"` // movies only
	SeriesName        string   `json:"series_name,omitempty"`
	Genres            []string `json:"genres,omitempty"` // genre paths

	Year      int   `json:"year,omitempty"`
	CreatedAt int64 `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"created_at": d.CreatedAt,
	}

	if d.Subtitle != "" {
		m["subtitle"] = d.Subtitle
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if d.ProductionCompany != "" {
		m["production_company"] = d.ProductionCompany
	}
	if d.SeriesName != "" {
		m["series_name"] = d.SeriesName
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	return m
}

// BookToSearchDocument flattens a book with its loaded associations.
func BookToSearchDocument(b *domain.Book) *SearchDocument {
	doc := &SearchDocument{
		ID:          b.ID,
		Type:        DocTypeBook,
		Name:        b.Title,
		Subtitle:    b.Subtitle,
		Description: b.Description,
		Author:      strings.Join(b.AuthorNames(), ", "),
		Publisher:   b.Publisher,
		SeriesName:  seriesNames(b.Series),
		Genres:      genrePaths(b.Genres),
		CreatedAt:   b.CreatedAt.UnixMilli(),
	}
	if b.PublishedDate != nil {
		doc.Year = b.PublishedDate.Year()
	}
	return doc
}

// MovieToSearchDocument flattens a movie with its loaded associations.
func MovieToSearchDocument(m *domain.Movie) *SearchDocument {
	companies := make([]string, 0, len(m.ProductionCompanies))
	for _, pc := range m.ProductionCompanies {
		companies = append(companies, pc.Name)
	}
	return &SearchDocument{
		ID:                m.ID,
		Type:              DocTypeMovie,
		Name:              m.Title,
		Subtitle:          m.Subtitle,
		Description:       m.Description,
		ProductionCompany: strings.Join(companies, ", "),
		SeriesName:        seriesNames(m.Series),
		Genres:            genrePaths(m.Genres),
		Year:              m.ReleaseDate.Year(),
		CreatedAt:         m.CreatedAt.UnixMilli(),
	}
}

func seriesNames(entries []domain.SeriesEntry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

func genrePaths(genres []domain.Genre) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		out = append(out, g.Path)
	}
	return out
}
