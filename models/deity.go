package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Deity is the thematic category a game or review is assigned to.
type Deity string

const (
	DeityApollo Deity = "Apollo"
	DeityHecate Deity = "Hecate"
	DeityBoth   Deity = "Both"
)

// Deities lists every category in display order.
var Deities = []Deity{DeityApollo, DeityHecate, DeityBoth}

// Raw returns the value the persistence API stores for d.
func (d Deity) Raw() string {
	switch d {
	case DeityHecate:
		return "Hécate"
	case DeityBoth:
		return "Ambos"
	default:
		return "Apolo"
	}
}

// ParseDeity accepts both the server spelling (Apolo, Hécate, Ambos) and the
// English names, ignoring case and accents.
func ParseDeity(s string) (Deity, bool) {
	switch fold(s) {
	case "apolo", "apollo":
		return DeityApollo, true
	case "hecate":
		return DeityHecate, true
	case "ambos", "both":
		return DeityBoth, true
	}
	return "", false
}

// fold lowercases s and strips combining marks, so "Hécate" becomes "hecate".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
