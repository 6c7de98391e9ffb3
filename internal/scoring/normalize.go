package scoring

import "unicode"

// Normalize canonicalizes an answer for comparison: surrounding
// whitespace is dropped, internal whitespace runs collapse to a single
// space, letters are casefolded and quote characters are stripped.
// Applied identically to both sides of every comparison, and idempotent.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case isQuote(r):
			// skip
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

func isQuote(r rune) bool {
	switch r {
	case '\'', '"', '`', '‘', '’', '“', '”':
		return true
	}
	return false
}
