// Package normalize cleans free-text catalog input before it is stored or compared.
package normalize

import (
	"errors"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// DateLayout is the calendar-date format used for dateRead and similar fields.
const DateLayout = "2006-01-02"

// InvalidDate is the sentinel some clients send for an unset date picker.
const InvalidDate = "Invalid Date"

// ErrInvalidDate is returned when a value is not an ISO 8601 date or timestamp.
var ErrInvalidDate = errors.New("invalid ISO 8601 date")

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
}

// ParseDate accepts a calendar date or a timestamp in the common ISO 8601 forms.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// OptionalDate parses raw, mapping "", "null" and "Invalid Date" to nil.
func OptionalDate(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "null" || s == InvalidDate {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Text trims whitespace and drops NUL bytes.
func Text(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s))
}

// ISBN strips separators so "978-0-261-10235-4" and "9780261102354" compare equal.
func ISBN(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// Description converts HTML blurbs (as returned by book and movie metadata
// providers) to Markdown. Plain text passes through trimmed.
func Description(s string) string {
	s = Text(s)
	if s == "" || !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return s
	}

	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(md)
}
