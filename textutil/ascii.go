// Package textutil holds token normalization helpers.
package textutil

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// isPrintableASCII matches ASCII letters, digits and punctuation. Whitespace and control
// characters are excluded.
func isPrintableASCII(r rune) bool {
	return r > ' ' && r < 0x7f
}

func straightenQuotes(r rune) rune {
	switch r {
	case '‘', '’':
		return '\''
	case '“', '”':
		return '"'
	}
	return r
}

// newASCIIFolder returns a fresh transformer: transformers keep state and must not be shared
// between goroutines.
func newASCIIFolder() transform.Transformer {
	return transform.Chain(
		runes.Map(straightenQuotes),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return !isPrintableASCII(r) })),
	)
}

// ToASCII maps s to plain ASCII: curly quotes are straightened, letters lose their
// diacritics, and whatever is left that is not an ASCII letter, digit or punctuation
// (including whitespace) is dropped. The result may be shorter than s, or empty.
func ToASCII(s string) string {
	out, _, err := transform.String(newASCIIFolder(), s)
	if err != nil {
		// Only possible with invalid UTF-8: fall back to a rune by rune filter.
		return filterASCII(s)
	}
	return out
}

func filterASCII(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if isPrintableASCII(r) {
			buf = append(buf, byte(r))
		}
	}
	return string(buf)
}
