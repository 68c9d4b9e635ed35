package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type call struct {
	op    string
	name  string
	value string
}

type spyTarget struct {
	fields []Field
	calls  []call
	fail   map[string]error
}

func (s *spyTarget) Fields() []Field { return s.fields }

func (s *spyTarget) SetText(name, value string) error {
	s.calls = append(s.calls, call{op: "text", name: name, value: value})
	return s.fail[name]
}

func (s *spyTarget) SetCheckbox(name string, checked bool) error {
	v := "off"
	if checked {
		v = "on"
	}
	s.calls = append(s.calls, call{op: "check", name: name, value: v})
	return s.fail[name]
}

func (s *spyTarget) SelectRadio(group, option string) error {
	s.calls = append(s.calls, call{op: "radio", name: group, value: option})
	return s.fail[group]
}

func newSpy() *spyTarget {
	return &spyTarget{
		fields: []Field{
			{Name: "Name", Kind: KindText},
			{Name: "Geburtsdatum", Kind: KindText},
			{Name: "StaatsangehÃ¶rigkeit", Kind: KindText},
			{Name: "KV-Nummer", Kind: KindText},
			{Name: "KV-Nummer_2", Kind: KindText},
			{Name: "KV-Nummer#3", Kind: KindText},
			{Name: "KV-Nummer-Hinweis", Kind: KindCheckbox},
			{Name: "Kontrollkästchen73", Kind: KindCheckbox},
			{Name: "Geschlecht", Kind: KindRadio, Options: []string{"m", "w"}},
			{Name: "Familienstand.ledig", Kind: KindCheckbox},
		},
	}
}

func TestSetTextSkipsEmptyValues(t *testing.T) {
	spy := newSpy()
	f := New(spy, nil)

	f.SetText(Name("Name"), "")
	f.SetText(Name("Unbekannt"), "")

	assert.Empty(t, spy.calls, "setter must not be invoked for empty values")
	assert.Empty(t, f.Misses())
}

func TestSetTextResolvesFirstPresentAlias(t *testing.T) {
	spy := newSpy()
	f := New(spy, nil)

	f.SetText(Names("Nachname", "Name"), "Meier")

	require.Len(t, spy.calls, 1)
	assert.Equal(t, call{op: "text", name: "Name", value: "Meier"}, spy.calls[0])
}

func TestSetTextResolvesMojibake(t *testing.T) {
	spy := newSpy()
	f := New(spy, nil)

	f.SetText(Accented("Staatsangehörigkeit"), "deutsch")

	require.Len(t, spy.calls, 1)
	assert.Equal(t, "StaatsangehÃ¶rigkeit", spy.calls[0].name)
	assert.Empty(t, f.Misses())
}

func TestSetTextMissIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	spy := newSpy()
	f := New(spy, zap.New(core))

	f.SetText(Name("Fehlt"), "x")
	f.SetText(Name("Kontrollkästchen73"), "x")
	f.SetText(Name("Name"), "Meier")

	assert.Len(t, spy.calls, 1)
	misses := f.Misses()
	require.Len(t, misses, 2)
	assert.Equal(t, "Fehlt", misses[0].Field)
	assert.Contains(t, misses[1].Reason, "not a text field")
	assert.Equal(t, 2, logs.FilterMessage("form field skipped").Len())
}

func TestSetTextTargetErrorIsRecorded(t *testing.T) {
	spy := newSpy()
	spy.fail = map[string]error{"Name": errors.New("locked")}
	f := New(spy, nil)

	f.SetText(Name("Name"), "Meier")

	require.Len(t, f.Misses(), 1)
	assert.Equal(t, "locked", f.Misses()[0].Reason)
}

func TestSetAllMatching(t *testing.T) {
	spy := newSpy()
	f := New(spy, nil)

	n := f.SetAllMatching("KV-Nummer", "A123456789")

	assert.Equal(t, 3, n, "checkbox with the same prefix is not written")
	names := make([]string, 0, len(spy.calls))
	for _, c := range spy.calls {
		assert.Equal(t, "A123456789", c.value)
		names = append(names, c.name)
	}
	assert.ElementsMatch(t, []string{"KV-Nummer", "KV-Nummer_2", "KV-Nummer#3"}, names)

	assert.Equal(t, 0, f.SetAllMatching("KV-Nummer", ""))
	assert.Equal(t, 0, f.SetAllMatching("Telefon", "040"))
	assert.Len(t, f.Misses(), 1)
}

func TestSetCheckbox(t *testing.T) {
	spy := newSpy()
	f := New(spy, nil)

	f.SetCheckbox(Accented("Kontrollkästchen73"), true)
	f.SetCheckbox(Name("Kontrollkästchen73"), false)
	f.SetCheckbox(Name("Name"), true)

	require.Len(t, spy.calls, 2)
	assert.Equal(t, "on", spy.calls[0].value)
	assert.Equal(t, "off", spy.calls[1].value)
	require.Len(t, f.Misses(), 1)
	assert.Contains(t, f.Misses()[0].Reason, "not a checkbox")
}

func TestSelectRadio(t *testing.T) {
	spy := newSpy()
	f := New(spy, nil)

	f.SelectRadio("Geschlecht", "w")
	f.SelectRadio("Familienstand", "ledig")
	f.SelectRadio("Familienstand", "")

	require.Len(t, spy.calls, 2)
	assert.Equal(t, call{op: "radio", name: "Geschlecht", value: "w"}, spy.calls[0])
	assert.Equal(t, call{op: "check", name: "Familienstand.ledig", value: "on"}, spy.calls[1])
}

func TestHasAndFields(t *testing.T) {
	f := New(newSpy(), nil)
	assert.True(t, f.Has(Names("X", "Name")))
	assert.False(t, f.Has(Name("X")))
	assert.Equal(t, "Familienstand.ledig", f.Fields()[0])
}

func TestAccented(t *testing.T) {
	ref := Accented("Staatsangehörigkeit")
	assert.Equal(t, "Staatsangehörigkeit", ref.Primary())
	assert.Contains(t, ref, "StaatsangehÃ¶rigkeit")
	assert.Contains(t, ref, "Staatsangeh�rigkeit")
	assert.Contains(t, ref, "Staatsangehoerigkeit")

	plain := Accented("Name")
	assert.Equal(t, Ref{"Name"}, plain)
}

func TestKindText(t *testing.T) {
	for k := KindUnknown; k <= KindButton; k++ {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var back Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	k := KindText
	require.NoError(t, k.UnmarshalText([]byte("slider")))
	assert.Equal(t, KindUnknown, k)
}
