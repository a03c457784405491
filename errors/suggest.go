package errors

import (
	"cmp"
	"slices"
	"strings"
)

// Suggestion is a candidate name close to a name that failed to resolve.
type Suggestion struct {
	Value    string
	Distance int
}

const maxSuggestions = 3

// suggestionThreshold is the largest edit distance accepted for a name of
// the given length. Short names need a tighter bound or everything matches.
func suggestionThreshold(n int) int {
	switch {
	case n <= 3:
		return 1
	case n <= 5:
		return 2
	default:
		return 3
	}
}

// SuggestSimilar returns up to three candidates within a small edit
// distance of target, closest first. Matching ignores case, and candidates
// equal to target are skipped.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" {
		return nil
	}
	folded := strings.ToLower(target)
	limit := suggestionThreshold(len(folded))

	var out []Suggestion
	for _, c := range candidates {
		fc := strings.ToLower(c)
		if c == "" || fc == folded {
			continue
		}
		if d := editDistance(folded, fc); d <= limit {
			out = append(out, Suggestion{Value: c, Distance: d})
		}
	}
	slices.SortFunc(out, func(a, b Suggestion) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), strings.Compare(a.Value, b.Value))
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// FormatSuggestions renders suggestions as a "did you mean" hint, or ""
// when there are none.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "Did you mean '" + suggestions[0].Value + "'?"
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s.Value + "'"
	}
	return "Did you mean one of: " + strings.Join(quoted, ", ") + "?"
}

// editDistance is the Levenshtein distance between a and b over runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j
		for i := 1; i <= len(ra); i++ {
			above := row[i]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[i] = min(row[i]+1, row[i-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(ra)]
}
