package applicant

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	rec := New(time.Date(2026, 1, 23, 10, 30, 0, 0, time.UTC))

	assert.Equal(t, "2026-01-23", rec.Date)
	assert.Equal(t, "2026-04-01", rec.MembershipStart)
	assert.Equal(t, ModeFamily, rec.Mode)
	assert.False(t, rec.HasSpouse())
	assert.Empty(t, rec.Children)
}

func TestDerivedDates(t *testing.T) {
	today := time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC)

	rec := New(today)
	d := rec.DerivedDates(today)
	assert.Equal(t, time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), d.MembershipStart)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), d.PriorCoverageEnd)

	rec.MembershipStart = "01.06.2027"
	d = rec.DerivedDates(today)
	assert.Equal(t, time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC), d.MembershipStart)
	assert.Equal(t, time.Date(2027, 5, 31, 0, 0, 0, 0, time.UTC), d.PriorCoverageEnd)

	rec.MembershipStart = "irgendwann"
	d = rec.DerivedDates(today)
	assert.Equal(t, time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), d.MembershipStart)
}

func TestDisplayBirthName(t *testing.T) {
	assert.Equal(t, "Meier", Person{Surname: "Meier"}.DisplayBirthName())
	assert.Equal(t, "Schulz", Person{Surname: "Meier", BirthName: "Schulz"}.DisplayBirthName())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Meier, Anna", Person{Surname: "Meier", GivenName: "Anna"}.FullName())
	assert.Equal(t, "Meier", Person{Surname: "Meier"}.FullName())
	assert.Equal(t, "Anna", Person{GivenName: "Anna"}.FullName())
}

func TestEffectiveInsurer(t *testing.T) {
	tests := []struct {
		name   string
		prior  PriorInsurance
		member string
		want   string
	}{
		{name: "continuing insurer wins", prior: PriorInsurance{ContinuingInsurer: "AOK", Insurer: "IKK"}, member: "TK", want: "AOK"},
		{name: "prior insurer", prior: PriorInsurance{Insurer: "IKK"}, member: "TK", want: "IKK"},
		{name: "member insurer", member: "TK", want: "TK"},
		{name: "fallback", want: "DAK-Gesundheit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Person{PriorInsurance: tt.prior}
			assert.Equal(t, tt.want, p.EffectiveInsurer(tt.member, "DAK-Gesundheit"))
		})
	}
}

func TestEffectiveKind(t *testing.T) {
	assert.Equal(t, PriorUnset, PriorInsurance{}.EffectiveKind())
	assert.Equal(t, PriorFamilyCovered, PriorInsurance{ContinuesInParallel: true}.EffectiveKind())
	assert.Equal(t, PriorOwnMembership, PriorInsurance{Kind: PriorOwnMembership, ContinuesInParallel: true}.EffectiveKind())
}

func TestProductModeIncludes(t *testing.T) {
	assert.True(t, ModeFamily.Includes(ModeFamily))
	assert.False(t, ModeFamily.Includes(ModeSupplemental))
	assert.True(t, ModeComplete.Includes(ModeSupplemental))
	assert.True(t, ProductMode("").Includes(ModeFamily))
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	rec := Applicant{Children: []Person{{GivenName: "Lena"}}}
	c := rec.Clone()
	c.Children[0].GivenName = "Mia"
	assert.Equal(t, "Lena", rec.Children[0].GivenName)
}

func TestMerge(t *testing.T) {
	rec := New(time.Date(2026, 1, 23, 0, 0, 0, 0, time.UTC))
	rec.Member = Person{Surname: "Meier", GivenName: "Anna"}
	rec.Phone = "0401234"
	rec.Spouse = Person{Surname: "Meier", GivenName: "Jan", BirthDate: "1980-02-02"}
	rec.Children = []Person{{Surname: "Meier", GivenName: "Lena", Kinship: KinshipBiological}}
	rec.Package.Bank.IBAN = "DE02120300000000202051"

	payload := []byte(`{
		"email": "anna@example.org",
		"ehegatte": {"geburtsort": "Hamburg"},
		"kinder": [{"geburtsdatum": "2015-03-04"}, {"name": "Meier", "vorname": "Tom"}],
		"paket": {"bank": {"bic": "BYLADEM1001"}, "vermittlerName": "Kurz"}
	}`)

	merged, err := Merge(rec, payload)
	require.NoError(t, err)

	assert.Equal(t, "anna@example.org", merged.Email)
	assert.Equal(t, "0401234", merged.Phone)
	assert.Equal(t, "Jan", merged.Spouse.GivenName)
	assert.Equal(t, "Hamburg", merged.Spouse.BirthPlace)
	assert.Equal(t, "1980-02-02", merged.Spouse.BirthDate)

	require.Len(t, merged.Children, 2)
	assert.Equal(t, "Lena", merged.Children[0].GivenName)
	assert.Equal(t, "2015-03-04", merged.Children[0].BirthDate)
	assert.Equal(t, KinshipBiological, merged.Children[0].Kinship)
	assert.Equal(t, "Tom", merged.Children[1].GivenName)

	assert.Equal(t, "Kurz", merged.Package.BrokerName)
	// Nested merge is one level deep: the bank object is replaced.
	assert.Equal(t, "BYLADEM1001", merged.Package.Bank.BIC)
	assert.Empty(t, merged.Package.Bank.IBAN)

	// The input record is untouched.
	assert.Empty(t, rec.Email)
	assert.Len(t, rec.Children, 1)
	assert.Empty(t, rec.Spouse.BirthPlace)
}

func TestMergeReplacesMemberShallow(t *testing.T) {
	rec := Applicant{Member: Person{Surname: "Meier", GivenName: "Anna"}}
	merged, err := Merge(rec, []byte(`{"mitglied": {"name": "Schulz"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Schulz", merged.Member.Surname)
	assert.Empty(t, merged.Member.GivenName)
}

func TestMergeRejectsInvalidPayloads(t *testing.T) {
	rec := Applicant{Phone: "0401234"}

	tests := []struct {
		name      string
		payload   string
		notObject bool
	}{
		{name: "malformed", payload: `{"telefon": `},
		{name: "array", payload: `[1, 2]`, notObject: true},
		{name: "string", payload: `"hallo"`, notObject: true},
		{name: "empty", payload: ``, notObject: true},
		{name: "wrong shape", payload: `{"kinder": "zwei"}`},
		{name: "wrong field type", payload: `{"mitglied": {"geburtsdatum": 5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Merge(rec, []byte(tt.payload))
			require.Error(t, err)
			if tt.notObject {
				assert.True(t, errors.Is(err, ErrNotObject))
			} else {
				assert.True(t, errors.Is(err, ErrInvalidRecord))
			}
			assert.Equal(t, rec, out)
		})
	}
}

func TestDecodeEncode(t *testing.T) {
	rec := Applicant{Member: Person{Surname: "Meier"}, MaritalStatus: MaritalMarried}
	raw, err := Encode(rec)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"familienstand": "verheiratet"`)

	back, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Meier", back.Member.Surname)

	_, err = Decode([]byte("{"))
	assert.Error(t, err)
}
