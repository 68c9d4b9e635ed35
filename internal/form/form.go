// Package form resolves logical field names against the fields a loaded
// template actually exposes and writes values through a Target.
//
// A missing or mistyped field never aborts an export: every accessor logs a
// warning, records the miss and carries on.
package form

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Kind is the widget type of a template field.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindCheckbox
	KindRadio
	KindChoice
	KindSignature
	KindButton
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindChoice:
		return "choice"
	case KindSignature:
		return "signature"
	case KindButton:
		return "button"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name; unknown names decode to KindUnknown.
func (k *Kind) UnmarshalText(text []byte) error {
	*k = KindUnknown
	for c := KindText; c <= KindButton; c++ {
		if c.String() == string(text) {
			*k = c
			break
		}
	}
	return nil
}

// Field describes one fillable field of a template.
type Field struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Pages   []int    `json:"pages,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Target is a loaded template that can be written to.
type Target interface {
	Fields() []Field
	SetText(name, value string) error
	SetCheckbox(name string, checked bool) error
	SelectRadio(group, option string) error
}

// Miss records a logical field that could not be written.
type Miss struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Form writes logical fields into a Target.
type Form struct {
	target Target
	fields map[string]Field
	names  []string
	logger *zap.Logger
	misses []Miss
}

// New indexes the fields of t.
func New(t Target, logger *zap.Logger) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := t.Fields()
	f := &Form{
		target: t,
		fields: make(map[string]Field, len(fields)),
		names:  make([]string, 0, len(fields)),
		logger: logger,
	}
	for _, fd := range fields {
		if _, dup := f.fields[fd.Name]; dup {
			continue
		}
		f.fields[fd.Name] = fd
		f.names = append(f.names, fd.Name)
	}
	sort.Strings(f.names)
	return f
}

// Has reports whether any identifier of ref exists in the template.
func (f *Form) Has(ref Ref) bool {
	_, ok := f.resolve(ref)
	return ok
}

// SetText writes value into the first identifier of ref present in the
// template. Empty values are never written, so the template default stays.
func (f *Form) SetText(ref Ref, value string) {
	if value == "" || ref.Empty() {
		return
	}
	fd, ok := f.resolve(ref)
	if !ok {
		f.miss(ref.Primary(), "field not found")
		return
	}
	if fd.Kind != KindText && fd.Kind != KindChoice {
		f.miss(fd.Name, "not a text field: "+fd.Kind.String())
		return
	}
	if err := f.target.SetText(fd.Name, value); err != nil {
		f.miss(fd.Name, err.Error())
	}
}

// SetAllMatching writes value into every text field whose name equals prefix
// or starts with it. It returns the number of fields written.
func (f *Form) SetAllMatching(prefix, value string) int {
	if value == "" || prefix == "" {
		return 0
	}
	n := 0
	for _, name := range f.names {
		if name != prefix && !strings.HasPrefix(name, prefix) {
			continue
		}
		fd := f.fields[name]
		if fd.Kind != KindText {
			continue
		}
		if err := f.target.SetText(name, value); err != nil {
			f.miss(name, err.Error())
			continue
		}
		n++
	}
	if n == 0 {
		f.miss(prefix, "no field matches prefix")
	}
	return n
}

// SetCheckbox checks or explicitly unchecks the checkbox behind ref.
func (f *Form) SetCheckbox(ref Ref, checked bool) {
	if ref.Empty() {
		return
	}
	fd, ok := f.resolve(ref)
	if !ok {
		f.miss(ref.Primary(), "field not found")
		return
	}
	if fd.Kind != KindCheckbox {
		f.miss(fd.Name, "not a checkbox: "+fd.Kind.String())
		return
	}
	if err := f.target.SetCheckbox(fd.Name, checked); err != nil {
		f.miss(fd.Name, err.Error())
	}
}

// SelectRadio selects option of a radio group. Templates that model the
// group as independent checkboxes get "group.option" checked instead.
func (f *Form) SelectRadio(group, option string) {
	if group == "" || option == "" {
		return
	}
	if fd, ok := f.fields[group]; ok && fd.Kind == KindRadio {
		if err := f.target.SelectRadio(group, option); err != nil {
			f.miss(group, err.Error())
		}
		return
	}
	f.SetCheckbox(Accented(group+"."+option), true)
}

// Skip records that a logical field was left out on purpose.
func (f *Form) Skip(field, reason string) {
	f.miss(field, reason)
}

// Misses returns the fields that could not be written, in order.
func (f *Form) Misses() []Miss {
	return append([]Miss(nil), f.misses...)
}

// Fields returns the template's field names, sorted.
func (f *Form) Fields() []string {
	return append([]string(nil), f.names...)
}

func (f *Form) resolve(ref Ref) (Field, bool) {
	for _, id := range ref {
		if fd, ok := f.fields[id]; ok {
			return fd, true
		}
	}
	return Field{}, false
}

func (f *Form) miss(field, reason string) {
	f.misses = append(f.misses, Miss{Field: field, Reason: reason})
	f.logger.Warn("form field skipped",
		zap.String("field", field),
		zap.String("reason", reason),
	)
}
