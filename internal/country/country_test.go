package country

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameForCode(t *testing.T) {
	assert.Equal(t, "Deutschland", NameForCode("DE"))
	assert.Equal(t, "Türkei", NameForCode("tr"))
	assert.Equal(t, "ZZ", NameForCode("ZZ"))
	assert.Equal(t, "", NameForCode(""))
}

func TestNationalityForCode(t *testing.T) {
	assert.Equal(t, "deutsch", NationalityForCode("DE"))
	assert.Equal(t, "österreichisch", NationalityForCode("at"))
	assert.Equal(t, "staatenlos", NationalityForCode("staatenlos"))
}

func TestCodeForName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "exact name", input: "Deutschland", want: "DE"},
		{name: "case insensitive", input: "deutschland", want: "DE"},
		{name: "code", input: "pl", want: "PL"},
		{name: "substring of name", input: "Bosnien", want: "BA"},
		{name: "name contained in input", input: "Republik Polen", want: "PL"},
		{name: "no match", input: "Bundesrepublik", want: ""},
		{name: "empty", input: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeForName(tt.input))
		})
	}
}

func TestTableCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range All() {
		assert.Len(t, e.Code, 2, e.Name)
		assert.Equal(t, strings.ToUpper(e.Code), e.Code)
		assert.False(t, seen[e.Code], "duplicate code %s", e.Code)
		seen[e.Code] = true
		assert.NotEmpty(t, e.Nationality, e.Code)
	}
}
