// Package textnorm normalizes paragraph text for anchor comparison.
//
// Two strings are anchor-equal when they match after trimming surrounding
// whitespace, composing to Unicode NFC and case folding. Word may store
// "código" composed or decomposed depending on the input method, so plain
// byte comparison is not enough.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the comparison key for s.
// A fresh Caser is used per call: cases.Caser is stateful and not safe for
// concurrent use.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(s))
}

// Equal reports whether a and b are anchor-equal.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
