package search

import "strings"

// MaxSuggestions caps the number of strings Suggest returns.
const MaxSuggestions = 5

// Suggest returns up to MaxSuggestions distinct field values that contain
// partial, for autocomplete. Records are scanned in corpus order and, within
// a record, title first, then tags, then keywords. Values keep their
// original casing.
//
// A blank partial returns no suggestions.
func Suggest(partial string, corpus []Record) []string {
	suggestions := []string{}

	q, ok := foldQuery(partial)
	if !ok {
		return suggestions
	}

	seen := make(map[string]struct{})
	add := func(value string) bool {
		if !strings.Contains(fold(value), q) {
			return false
		}
		if _, dup := seen[value]; dup {
			return false
		}
		seen[value] = struct{}{}
		suggestions = append(suggestions, value)
		return len(suggestions) == MaxSuggestions
	}

	for _, r := range corpus {
		if add(r.Title) {
			return suggestions
		}
		for _, tag := range r.Tags {
			if add(tag) {
				return suggestions
			}
		}
		for _, kw := range r.Keywords {
			if add(kw) {
				return suggestions
			}
		}
	}

	return suggestions
}
