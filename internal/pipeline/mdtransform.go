package pipeline

import (
	"regexp"
	"strings"
)

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Trailing whitespace at the end of each line
	trailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)
)

// PrepareCode normalizes code before highlighting: line endings become \n,
// trailing spaces are dropped and blank lines at either end are removed.
// Interior blank lines are kept.
func PrepareCode(code string) string {
	code = crlfOrCR.ReplaceAllString(code, "\n")
	code = trailingSpace.ReplaceAllString(code, "")
	return strings.Trim(code, "\n")
}
