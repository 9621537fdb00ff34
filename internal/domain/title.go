package domain

import "strings"

// leadingArticles are stripped from titles before alphabetical comparison.
var leadingArticles = []string{"the ", "a ", "an "}

// SortTitle returns title without a leading "The ", "A " or "An ".
// The article is matched case-insensitively and must be followed by a single
// space; "Theory", "Anna" and "A" alone are left untouched.
func SortTitle(title string) string {
	lower := strings.ToLower(title)
	for _, article := range leadingArticles {
		if strings.HasPrefix(lower, article) {
			return title[len(article):]
		}
	}
	return title
}

// CompareTitles orders two titles by their sort keys, case-insensitively,
// falling back to the raw titles so the order is total.
func CompareTitles(a, b string) int {
	if c := strings.Compare(strings.ToLower(SortTitle(a)), strings.ToLower(SortTitle(b))); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
