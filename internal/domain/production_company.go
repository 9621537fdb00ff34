package domain

// ProductionCompany produced one or more movies, unique by name.
type ProductionCompany struct {
	Entity
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}
