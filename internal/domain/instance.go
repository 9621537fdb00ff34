package domain

import "time"

// InstanceStatus is the availability of an owned copy.
type InstanceStatus string

// Instance statuses.
const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusLoaned      InstanceStatus = "Loaned"
	StatusReserved    InstanceStatus = "Reserved"
)

// Valid reports whether s is a known status.
func (s InstanceStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved:
		return true
	}
	return false
}

// Instance is an owned copy of a book or movie. Kind decides which of
// BookID/Book or MovieID/Movie is set.
type Instance struct {
	Entity
	Kind           MediaKind      `json:"kind"`
	Status         InstanceStatus `json:"status"`
	DueBack        *time.Time     `json:"dueBack,omitempty"`
	NumberOfCopies int            `json:"numberOfCopies,omitempty"`
	BookID         string         `json:"bookId,omitempty"`
	MovieID        string         `json:"movieId,omitempty"`
	UserID         string         `json:"userId,omitempty"`
	Libraries      []LibraryRef   `json:"libraries"`
	Book           *Book          `json:"book,omitempty"`
	Movie          *Movie         `json:"movie,omitempty"`
}

// CatalogID returns the id of the book or movie this instance copies.
func (i *Instance) CatalogID() string {
	if i.Kind == KindMovie {
		return i.MovieID
	}
	return i.BookID
}

// Title returns the embedded catalog title, or "" when not loaded.
func (i *Instance) Title() string {
	switch {
	case i.Kind == KindBook && i.Book != nil:
		return i.Book.Title
	case i.Kind == KindMovie && i.Movie != nil:
		return i.Movie.Title
	}
	return ""
}

// LibraryIDs returns the ids of the libraries holding this instance.
func (i *Instance) LibraryIDs() []string {
	ids := make([]string, 0, len(i.Libraries))
	for _, l := range i.Libraries {
		ids = append(ids, l.ID)
	}
	return ids
}
