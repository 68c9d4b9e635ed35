package form

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Ref is the ordered list of identifiers under which a template may expose
// one logical field. The first identifier present in the template wins.
type Ref []string

// Name is a Ref with a single identifier.
func Name(id string) Ref {
	return Ref{id}
}

// Names is a Ref with several accepted identifiers.
func Names(ids ...string) Ref {
	return Ref(ids)
}

// Empty reports whether the ref names no field at all.
func (r Ref) Empty() bool {
	return len(r) == 0
}

// Primary returns the first identifier, or "".
func (r Ref) Primary() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Accented builds the Ref for a field whose name contains non-ASCII
// characters. Besides the name itself it accepts the spellings produced by
// template tools that mangled the encoding: UTF-8 bytes read as Windows-1252
// or ISO-8859-1 ("Ã¤"), decomposed umlauts, replacement characters and the
// ASCII transliteration ("ae").
func Accented(id string) Ref {
	variants := []string{
		id,
		norm.NFC.String(id),
		norm.NFD.String(id),
		misdecode(id, charmap.Windows1252),
		misdecode(id, charmap.ISO8859_1),
		replaceNonASCII(id),
		transliterate(id),
	}

	seen := make(map[string]bool, len(variants))
	ref := make(Ref, 0, len(variants))
	for _, v := range variants {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		ref = append(ref, v)
	}
	return ref
}

// misdecode reads the UTF-8 bytes of s as if they were encoded in cm.
func misdecode(s string, cm *charmap.Charmap) string {
	out, err := cm.NewDecoder().String(s)
	if err != nil {
		return ""
	}
	return out
}

func replaceNonASCII(s string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(s) {
		if r > 0x7f {
			b.WriteRune('�')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var transliterations = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss",
)

func transliterate(s string) string {
	return transliterations.Replace(norm.NFC.String(s))
}
