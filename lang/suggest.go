package lang

import (
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions is the number of candidate names offered with an
// undefined-name error.
const maxSuggestions = 3

// suggest returns the names from candidates most similar to name, best
// first. A candidate is similar if either name is a fuzzy subsequence of the
// other.
func suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	matches := fuzzy.Find(name, candidates)

	seen := make(map[string]struct{}, len(matches))
	result := make([]string, 0, maxSuggestions)

	for _, m := range matches {
		if len(result) == maxSuggestions {
			return result
		}

		seen[m.Str] = struct{}{}
		result = append(result, m.Str)
	}

	// A misspelling that added characters: the candidate is a subsequence of
	// the name that was written.
	for _, c := range candidates {
		if len(result) == maxSuggestions {
			break
		}

		if _, ok := seen[c]; ok {
			continue
		}

		if len(fuzzy.Find(c, []string{name})) > 0 {
			result = append(result, c)
		}
	}

	return result
}

// undefined builds an undefined-name or undefined-function error for name,
// offering the visible names nearest to it.
func undefined(base *Error, name string, at Position, visible []string) *Error {
	detail := strings.Builder{}
	detail.WriteString(name)

	attrs := []slog.Attr{slog.String("name", name)}

	if s := suggest(name, visible); len(s) > 0 {
		detail.WriteString(" (did you mean ")
		detail.WriteString(strings.Join(s, ", "))
		detail.WriteString("?)")

		attrs = append(attrs, slog.Any("suggestions", s))
	}

	return base.WithPosition(at).Detail(detail.String()).With(attrs...)
}
