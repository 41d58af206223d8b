package strings

import (
	"strings"
)

// DefaultValueMaxLen is the width of a value column in the status table.
const DefaultValueMaxLen = 60

// DefaultBodyMaxLen bounds response bodies quoted in error messages.
const DefaultBodyMaxLen = 200

// MinTruncateLen leaves room for one character plus "...".
const MinTruncateLen = 4

// Truncate collapses whitespace runs (including newlines) into single spaces
// and cuts the result to maxLen runes, ending in "..." when cut.
//
// maxLen values below MinTruncateLen are raised to MinTruncateLen.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
