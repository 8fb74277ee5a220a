package oci

import (
	"fmt"
	"strings"
)

// doiCharCodes maps each character a DOI suffix may contain to its fixed
// two-digit code. Digits and lowercase letters fill 00-35; the remaining
// slots cover the punctuation DOI registrants actually use.
var doiCharCodes = map[rune]string{
	'/': "36",
	'-': "37",
	'.': "38",
	'_': "39",
	'(': "40",
	')': "41",
	':': "42",
	';': "43",
	'<': "44",
	'>': "45",
}

var doiCodeChars = map[string]rune{}

func init() {
	for i := 0; i < 10; i++ {
		doiCharCodes[rune('0'+i)] = fmt.Sprintf("0%d", i)
	}
	for i := 0; i < 26; i++ {
		doiCharCodes[rune('a'+i)] = fmt.Sprintf("%02d", 10+i)
	}
	for ch, code := range doiCharCodes {
		doiCodeChars[code] = ch
	}
}

// encodeDOIChars encodes a DOI suffix character by character through the
// code table.
func encodeDOIChars(suffix string) (string, error) {
	var b strings.Builder
	b.Grow(len(suffix) * 2)
	for _, ch := range suffix {
		code, ok := doiCharCodes[ch]
		if !ok {
			return "", fmt.Errorf("%w: character %q has no code", ErrMalformedIdentifier, ch)
		}
		b.WriteString(code)
	}
	return b.String(), nil
}

// decodeDOIChars inverts encodeDOIChars, consuming two-digit groups left to
// right. A trailing incomplete group is a decode failure.
func decodeDOIChars(digits string) (string, error) {
	if len(digits)%2 != 0 {
		return "", fmt.Errorf("%w: odd-length DOI encoding %q", ErrMalformedIdentifier, digits)
	}
	var b strings.Builder
	b.Grow(len(digits) / 2)
	for i := 0; i < len(digits); i += 2 {
		ch, ok := doiCodeChars[digits[i:i+2]]
		if !ok {
			return "", fmt.Errorf("%w: unknown code %q", ErrMalformedIdentifier, digits[i:i+2])
		}
		b.WriteRune(ch)
	}
	return b.String(), nil
}
