package atlas

import "strings"

// minTokenLength filters out short stop-ish words ("a", "an", "at", "eu").
const minTokenLength = 3

// Tokenize lowercases the question and splits it on any run of characters
// outside [a-z0-9]. Tokens shorter than three characters are discarded and
// duplicates are removed, keeping first-occurrence order so the result is
// deterministic.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})

	var tokens []string
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if len(field) < minTokenLength {
			continue
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}
	return tokens
}
