package aitime

import (
	"regexp"
	"strings"
)

var pukulPattern = regexp.MustCompile(`\bpukul\b`)

// trailingCutset holds the characters stripped from the end of a message.
// The space keeps "selesai . !" from leaving a dangling blank.
const trailingCutset = ".,!? "

// Normalize lowercases the message, collapses whitespace, strips trailing
// punctuation and rewrites the standalone word "pukul" to "jam".
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(raw string) string {
	s := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	s = strings.TrimRight(s, trailingCutset)
	return pukulPattern.ReplaceAllString(s, "jam")
}
