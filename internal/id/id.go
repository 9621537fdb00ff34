// Package id generates the opaque, prefixed identifiers used for every catalog row.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each persisted entity.
const (
	Book              = "book"
	Movie             = "movie"
	Author            = "auth"
	Genre             = "gen"
	Series            = "ser"
	ProductionCompany = "pco"
	Library           = "lib"
	BookInstance      = "bi"
	MovieInstance     = "mi"
	User              = "usr"
)

// Generate returns prefix-nanoid, e.g. "book-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	raw, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + raw, nil
}

// MustGenerate is Generate for call sites where entropy failure should crash.
func MustGenerate(prefix string) string {
	out, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return out
}

// HasPrefix reports whether value was generated with prefix.
func HasPrefix(value, prefix string) bool {
	return strings.HasPrefix(value, prefix+"-")
}
