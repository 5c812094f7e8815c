package categorizer

import "strings"

// FindFirstMatch returns the first category, in declaration order, contained in the
// lower-cased text. It is the deterministic fallback that maps free-text model output
// onto the closed category set.
func FindFirstMatch(text string, categories []string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, category := range categories {
		if category != "" && strings.Contains(lower, strings.ToLower(category)) {
			return category, true
		}
	}
	return "", false
}
