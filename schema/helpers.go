package schema

import (
	"strings"
	"unicode"
)

// cleanParts cleans a slice of name parts by trimming non-alphanumeric punctuation from ends,
// and additionally trims trailing periods for looser handling.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '\'' || r == '.' {
				return false
			}
			return true
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// getInitial extracts the first rune of a name part for Unicode safety.
func getInitial(part string) string {
	rr := []rune(part)
	if len(rr) > 0 {
		return string(rr[0])
	}
	return ""
}

// ShortName formats ("Max", "Verstappen") as "M. Verstappen", the way timing screens do.
// Multi-part given names use the first part's initial. Missing parts fall back to whatever is known.
func ShortName(givenName, familyName string) string {
	given := cleanParts(strings.Fields(strings.TrimSpace(givenName)))
	family := strings.TrimSpace(familyName)
	if family == Unknown {
		family = ""
	}

	switch {
	case len(given) > 0 && given[0] != Unknown && family != "":
		return getInitial(given[0]) + ". " + family
	case family != "":
		return family
	case len(given) > 0:
		return strings.Join(given, " ")
	default:
		return Unknown
	}
}

// FormatTeams joins team names for display, skipping blanks and repeats.
func FormatTeams(teams []string) string {
	return strings.Join(UniqueTeams(teams), ", ")
}

// UniqueTeams returns teams in first-seen order without blanks or repeats.
func UniqueTeams(teams []string) []string {
	seen := make(map[string]struct{}, len(teams))
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
