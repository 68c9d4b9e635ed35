package insurer

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
)

// Binding is one field reference of a descriptor with its location, e.g.
// "Columns[1].Kinship.Boxes[stief]".
type Binding struct {
	Path string
	Ref  form.Ref
}

// Bindings lists every field reference of d in declaration order.
func (d *Descriptor) Bindings() []Binding {
	var out []Binding
	collect(reflect.ValueOf(d).Elem(), "", &out)
	return out
}

var refType = reflect.TypeOf(form.Ref(nil))

func collect(v reflect.Value, path string, out *[]Binding) {
	switch v.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			collect(v.Elem(), path, out)
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			collect(v.Field(i), join(path, t.Field(i).Name), out)
		}
	case reflect.Slice:
		if v.Type() == refType {
			if v.Len() > 0 {
				*out = append(*out, Binding{Path: path, Ref: v.Interface().(form.Ref)})
			}
			return
		}
		for i := 0; i < v.Len(); i++ {
			collect(v.Index(i), fmt.Sprintf("%s[%d]", path, i), out)
		}
	case reflect.Map:
		if v.Type().Elem() != refType {
			return
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			ref := v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())).Interface().(form.Ref)
			if len(ref) > 0 {
				*out = append(*out, Binding{Path: fmt.Sprintf("%s[%s]", path, k), Ref: ref})
			}
		}
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Unresolved is a descriptor reference that names no field of a template.
type Unresolved struct {
	Path string `json:"path"`
	Want string `json:"want"`
}

// Check compares d with the fields of a real template and returns every
// reference that resolves to nothing: plain refs, repeated-header prefixes,
// radio groups and radio options.
func Check(d *Descriptor, fields []form.Field) []Unresolved {
	byName := make(map[string]form.Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	var out []Unresolved
	for _, b := range d.Bindings() {
		if !resolves(b.Ref, byName) {
			out = append(out, Unresolved{Path: b.Path, Want: b.Ref.Primary()})
		}
	}

	for path, prefix := range map[string]string{
		"Header.NamePrefix":   d.Header.NamePrefix,
		"Header.NumberPrefix": d.Header.NumberPrefix,
	} {
		if prefix != "" && !hasPrefix(prefix, fields) {
			out = append(out, Unresolved{Path: path, Want: prefix + "*"})
		}
	}

	for _, c := range d.choices() {
		if c.choice.Group == "" {
			continue
		}
		f, ok := byName[c.choice.Group]
		if !ok || f.Kind != form.KindRadio {
			out = append(out, Unresolved{Path: c.path + ".Group", Want: c.choice.Group})
			continue
		}
		for _, key := range sortedKeys(c.choice.Options) {
			option := c.choice.Options[key]
			if len(f.Options) > 0 && !contains(f.Options, option) {
				out = append(out, Unresolved{Path: fmt.Sprintf("%s.Options[%s]", c.path, key), Want: c.choice.Group + "=" + option})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

type namedChoice struct {
	path   string
	choice Choice
}

func (d *Descriptor) choices() []namedChoice {
	out := []namedChoice{{"Header.MaritalStatus", d.Header.MaritalStatus}}
	person := func(path string, p PersonFields) {
		out = append(out,
			namedChoice{path + ".Sex", p.Sex},
			namedChoice{path + ".Kinship", p.Kinship},
			namedChoice{path + ".PriorKind", p.PriorKind},
		)
	}
	person("Member", d.Member)
	for i, c := range d.Columns {
		person(fmt.Sprintf("Columns[%d]", i), c)
	}
	return out
}

func resolves(ref form.Ref, byName map[string]form.Field) bool {
	for _, id := range ref {
		if _, ok := byName[id]; ok {
			return true
		}
	}
	return false
}

func hasPrefix(prefix string, fields []form.Field) bool {
	for _, f := range fields {
		if strings.HasPrefix(f.Name, prefix) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
