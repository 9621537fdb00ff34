// Package genre parses the " / "-delimited genre breadcrumbs used by the catalog.
//
// A path such as "Fiction / Fantasy / Epic" denotes three genres, one per
// cumulative prefix:
//
//	Fiction
//	Fiction / Fantasy
//	Fiction / Fantasy / Epic
package genre

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Separator joins path segments.
const Separator = " / "

// Level is one cumulative prefix of a genre path.
type Level struct {
	Name       string // Last segment, e.g. "Fantasy"
	Path       string // Cumulative path, e.g. "Fiction / Fantasy"
	ParentPath string // Path of the previous level, empty at the root
}

// Segments splits a path into cleaned segments. Segments are trimmed,
// NFC-normalized and have inner whitespace collapsed; empty ones are dropped.
func Segments(path string) []string {
	parts := strings.Split(path, Separator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := cleanSegment(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Levels returns every cumulative prefix of path, root first.
func Levels(path string) []Level {
	segs := Segments(path)
	levels := make([]Level, 0, len(segs))
	for i, name := range segs {
		lvl := Level{Name: name, Path: strings.Join(segs[:i+1], Separator)}
		if i > 0 {
			lvl.ParentPath = levels[i-1].Path
		}
		levels = append(levels, lvl)
	}
	return levels
}

// Canonical returns the cleaned form of path, or "" if it has no segments.
func Canonical(path string) string {
	return strings.Join(Segments(path), Separator)
}

func cleanSegment(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
