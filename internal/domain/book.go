package domain

import "time"

// Binding is the physical format of a book.
type Binding string

// Bindings.
const (
	BindingUnknown   Binding = ""
	BindingPaperback Binding = "paperback"
	BindingHardcover Binding = "hardcover"
)

// Valid reports whether b is a known binding.
func (b Binding) Valid() bool {
	switch b {
	case BindingUnknown, BindingPaperback, BindingHardcover:
		return true
	}
	return false
}

// Book is a canonical catalog record shared by every library holding a copy.
type Book struct {
	Entity
	Title         string        `json:"title"`
	ISBN10        string        `json:"isbn10,omitempty"`
	ISBN13        string        `json:"isbn13,omitempty"`
	Subtitle      string        `json:"subtitle,omitempty"`
	Description   string        `json:"description,omitempty"`
	Photo         string        `json:"photo,omitempty"`
	PageCount     *int          `json:"pageCount,omitempty"`
	Publisher     string        `json:"publisher,omitempty"`
	PublishedDate *time.Time    `json:"publishedDate,omitempty"`
	Binding       Binding       `json:"binding"`
	Authors       []Author      `json:"authors"`
	Genres        []Genre       `json:"bookGenres"`
	Series        []SeriesEntry `json:"series"`
	Readers       []Reader      `json:"users,omitempty"`
}

// AuthorNames returns "First Last" for each author.
func (b *Book) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name())
	}
	return names
}

// Reader is a user who has a status overlay on a book.
type Reader struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	UserBook  UserBook `json:"userBook"`
}
