// Package country resolves ISO country codes to the German country names and
// nationality adjectives printed on the templates, and back.
//
// Resolution never fails: an unknown code resolves to itself and an unknown
// name to the empty string.
package country

import "strings"

// NameForCode returns the German country name for an ISO code, or code itself
// when the code is unknown.
func NameForCode(code string) string {
	if e, ok := lookup(code); ok {
		return e.Name
	}
	return code
}

// NationalityForCode returns the nationality adjective for an ISO code, or
// code itself when the code is unknown. Free-text nationalities therefore
// pass through unchanged.
func NationalityForCode(code string) string {
	if e, ok := lookup(code); ok {
		return e.Nationality
	}
	return code
}

// CodeForName resolves a country name (or code) to its ISO code. Exact
// case-insensitive matches win; otherwise the first entry whose name contains
// the input, or is contained in it, is used. No match yields "".
func CodeForName(name string) string {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return ""
	}
	for _, e := range entries {
		if strings.ToLower(e.Name) == q || strings.ToLower(e.Code) == q {
			return e.Code
		}
	}
	for _, e := range entries {
		n := strings.ToLower(e.Name)
		if strings.Contains(n, q) || strings.Contains(q, n) {
			return e.Code
		}
	}
	return ""
}

// All returns a copy of the table.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func lookup(code string) (Entry, bool) {
	c := strings.TrimSpace(code)
	if c == "" {
		return Entry{}, false
	}
	for _, e := range entries {
		if strings.EqualFold(e.Code, c) {
			return e, true
		}
	}
	return Entry{}, false
}
