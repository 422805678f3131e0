package wiki

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PageTitle turns an entity name into a MediaWiki title: NFC, single spaces, underscores.
func PageTitle(name string) string {
	name = norm.NFC.String(name)
	return strings.Join(strings.Fields(name), "_")
}

// Fold strips diacritics and case so "Räikkönen" and "raikkonen" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	// A Caser is stateful, so each call gets its own
	return cases.Fold().String(strings.Join(strings.Fields(out), " "))
}
