package domain

import "strings"

// Author is a book contributor, unique by (firstName, lastName).
type Author struct {
	Entity
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Name returns "First Last", or just the last name.
func (a Author) Name() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// ParseAuthorName splits free text on its last whitespace boundary: the final
// token is the last name and everything before it the first name. A single
// token yields a last name only.
func ParseAuthorName(raw string) (first, last string) {
	fields := strings.Fields(raw)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}
