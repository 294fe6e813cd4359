// Package strings holds small text helpers for terminal output.
package strings

import (
	"strings"
)

// LabelMaxLen is the default width of a label shown in an interactive list.
const LabelMaxLen = 60

// minTruncateLen leaves room for one character plus "...".
const minTruncateLen = 4

// SingleLine collapses all whitespace in s to single spaces and shortens the
// result to maxLen runes, ending it with "..." when cut. maxLen values below
// 4 are treated as 4.
func SingleLine(s string, maxLen int) string {
	if maxLen < minTruncateLen {
		maxLen = minTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
