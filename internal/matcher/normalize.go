package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes characters and drops combining marks, so "Müller"
// and "Muller" normalize identically.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeTitle produces the canonical title key: diacritics stripped,
// punctuation collapsed to single spaces, lowercased.
func NormalizeTitle(title string) string {
	s := strings.ToLower(stripDiacritics(title))
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}

// CleanDOI strips resolver prefixes and surrounding noise from a DOI and
// uppercases it for exact-map comparison.
func CleanDOI(doi string) string {
	s := strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if rest, ok := strings.CutPrefix(strings.ToLower(s), prefix); ok {
			s = rest
			break
		}
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "10.") {
		return ""
	}
	return s
}

// CleanISBN reduces an ISBN to its canonical digit form (uppercase X check
// digit allowed). Returns "" unless the result has ISBN-10 or ISBN-13 length.
func CleanISBN(isbn string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(isbn) {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) != 10 && len(s) != 13 {
		return ""
	}
	return s
}

// NormalizeName canonicalizes a creator name part for comparison.
func NormalizeName(name string) string {
	return strings.ToLower(stripDiacritics(strings.TrimSpace(name)))
}

// firstInitial returns the lowercased first letter of a first name, or ""
// when the name is empty.
func firstInitial(first string) string {
	for _, r := range NormalizeName(first) {
		return string(r)
	}
	return ""
}
