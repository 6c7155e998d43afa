package search

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fold lower-cases s for case-insensitive containment tests.
// A Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// foldQuery folds query for containment tests. Surrounding whitespace is
// kept as part of the query; it only decides whether the query is blank,
// in which case ok is false.
func foldQuery(query string) (q string, ok bool) {
	if strings.TrimSpace(query) == "" {
		return "", false
	}
	return fold(query), true
}

// containsAny reports whether any entry of fields contains q after folding.
func containsAny(fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(fold(f), q) {
			return true
		}
	}
	return false
}

// FuzzyMatch keeps the records whose title, description, tags or keywords
// contain query as a literal case-insensitive substring. Corpus order is
// preserved and nothing is scored.
//
// A blank query returns the whole corpus unchanged.
func FuzzyMatch(query string, corpus []Record) []Record {
	q, ok := foldQuery(query)
	if !ok {
		return slices.Clone(corpus)
	}

	matched := make([]Record, 0)
	for _, r := range corpus {
		if strings.Contains(fold(r.Title), q) ||
			strings.Contains(fold(r.Description), q) ||
			containsAny(r.Tags, q) ||
			containsAny(r.Keywords, q) {
			matched = append(matched, r)
		}
	}
	return matched
}
