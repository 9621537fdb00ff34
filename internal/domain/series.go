package domain

// Series groups books or movies, unique by name.
type Series struct {
	Entity
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Photo       string `json:"photo,omitempty"`
}

// SeriesEntry is a series membership with the position inside it.
type SeriesEntry struct {
	Series
	OrderNumber *int `json:"orderNumber"`
}
