package domain

// DefaultLibraryIcon is the client icon used when none is given.
const DefaultLibraryIcon = "MenuBookRounded"

// Library is a named shelf that instances are attached to.
type Library struct {
	Entity
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// LibraryRef is the compact library form embedded in instance rows.
type LibraryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}
