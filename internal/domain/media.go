package domain

// MediaKind tags a catalog entity or instance as a book or a movie.
type MediaKind string

// Media kinds.
const (
	KindBook  MediaKind = "book"
	KindMovie MediaKind = "movie"
)

// MediaKinds lists every kind in display order.
var MediaKinds = []MediaKind{KindBook, KindMovie}

// Valid reports whether k is a known kind.
func (k MediaKind) Valid() bool {
	return k == KindBook || k == KindMovie
}

// DisplayName returns the plural label shown in the client ("Books", "Movies").
func (k MediaKind) DisplayName() string {
	switch k {
	case KindBook:
		return "Books"
	case KindMovie:
		return "Movies"
	default:
		return string(k)
	}
}
