// Package priority encodes an order's urgency tag as a leading "<N>. " token
// inside the free-text comment.
package priority

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	Min = 1
	Max = 7
)

var (
	// any leading numeral followed by a period; Strip uses this unconditionally
	numeralPrefix = regexp.MustCompile(`^\d+\.\s*`)
	decodePrefix  = regexp.MustCompile(`^(\d+)\.\s*`)
)

// Valid reports whether p can be stored as a priority.
func Valid(p int) bool {
	return p >= Min && p <= Max
}

// Prefix returns the exact token written in front of the comment.
func Prefix(p int) string {
	return strconv.Itoa(p) + ". "
}

// Encode replaces any leading numeral token of text with the token for p.
func Encode(p int, text string) string {
	return Prefix(p) + Strip(text)
}

// Decode extracts a priority in [Min, Max]. Out-of-range numerals are not a
// priority and the text is returned unchanged.
func Decode(text string) (p int, ok bool, remainder string) {
	m := decodePrefix.FindStringSubmatch(text)
	if m == nil {
		return 0, false, text
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || !Valid(n) {
		return 0, false, text
	}

	return n, true, text[len(m[0]):]
}

// Strip removes a leading "<digits>. " token whatever its value, so a
// comment starting with "42. " loses that token once a priority is applied.
func Strip(text string) string {
	return numeralPrefix.ReplaceAllString(text, "")
}

// Toggle un-sets p when text already carries exactly that token, otherwise it
// replaces whatever token is present with p.
func Toggle(p int, text string) string {
	prefix := Prefix(p)
	if strings.HasPrefix(text, prefix) {
		return strings.TrimPrefix(text, prefix)
	}
	return Encode(p, text)
}

// Less orders comments by priority: tagged before untagged, lower first.
func Less(a, b string) bool {
	pa, okA, _ := Decode(a)
	pb, okB, _ := Decode(b)

	switch {
	case okA && okB:
		return pa < pb
	case okA:
		return true
	default:
		return false
	}
}
