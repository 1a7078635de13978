package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// suggest returns up to limit names that fuzzily match pattern, best first.
func suggest(pattern string, names []string, limit int) []string {
	if pattern == "" || len(names) == 0 || limit <= 0 {
		return nil
	}
	matches := fuzzy.Find(pattern, names)
	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// didYouMean formats suggestions for an empty filter result, or "".
func didYouMean(pattern string, names []string) string {
	s := suggest(pattern, names, maxSuggestions)
	if len(s) == 0 {
		return ""
	}
	return "Did you mean: " + strings.Join(s, ", ") + "?"
}
