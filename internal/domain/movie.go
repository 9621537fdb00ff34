package domain

import "time"

// Movie is a canonical catalog record, identified by title plus release date.
type Movie struct {
	Entity
	Title               string              `json:"title"`
	ReleaseDate         time.Time           `json:"releaseDate"`
	Subtitle            string              `json:"subtitle,omitempty"`
	Description         string              `json:"description,omitempty"`
	UPC                 string              `json:"upc,omitempty"`
	Runtime             *int64              `json:"runtime,omitempty"`
	Budget              *int64              `json:"budget,omitempty"`
	Revenue             *int64              `json:"revenue,omitempty"`
	Photo               string              `json:"photo,omitempty"`
	Genres              []Genre             `json:"movieGenres"`
	ProductionCompanies []ProductionCompany `json:"productionCompanies"`
	Series              []SeriesEntry       `json:"series"`
}
