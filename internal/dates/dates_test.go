package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToISO(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dotted", input: "15.05.1985", want: "1985-05-15"},
		{name: "single digit parts padded", input: "1.5.1985", want: "1985-05-01"},
		{name: "two digit year passes through", input: "15.05.85", want: "15.05.85"},
		{name: "missing day passes through", input: ".05.1985", want: ".05.1985"},
		{name: "partial input passes through", input: "15.05", want: "15.05"},
		{name: "already iso", input: "1985-05-15", want: "1985-05-15"},
		{name: "no separators", input: "15051985", want: "15051985"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToISO(tt.input))
		})
	}
}

func TestToDotted(t *testing.T) {
	assert.Equal(t, "15.05.1985", ToDotted("1985-05-15"))
	assert.Equal(t, "15.05.1985", ToDotted("15.05.1985"))
	assert.Equal(t, "85-05-15", ToDotted("85-05-15"))
	assert.Equal(t, "", ToDotted(""))
}

func TestRoundTripStability(t *testing.T) {
	inputs := []string{"15.05.1985", "01.01.2000", "29.02.2024", "3.7.1999", "31.12.1970"}
	for _, in := range inputs {
		iso := ToISO(in)
		assert.Equal(t, iso, ToISO(ToDotted(iso)), "input %s", in)
	}
}

func TestToDigitRun(t *testing.T) {
	assert.Equal(t, "15051985", ToDigitRun("15.05.1985"))
	assert.Equal(t, "15051985", ToDigitRun("1985-05-15"))
	assert.Equal(t, "01051985", ToDigitRun("1.5.1985"))
	assert.Equal(t, "15051985", ToDigitRun("15051985"))
	assert.Equal(t, "kein Datum", ToDigitRun("kein Datum"))
}

func TestSplitDigits(t *testing.T) {
	d, ok := SplitDigits("15.05.1985")
	require.True(t, ok)
	assert.Equal(t, Digits{T1: "1", T2: "5", M1: "0", M2: "5", J1: "1", J2: "9", J3: "8", J4: "5"}, d)

	d, ok = SplitDigits("2026-04-01")
	require.True(t, ok)
	assert.Equal(t, []string{"0", "1", "0", "4", "2", "0", "2", "6"}, d.Slice())

	_, ok = SplitDigits("")
	assert.False(t, ok)

	_, ok = SplitDigits("15.05")
	assert.False(t, ok)

	_, ok = SplitDigits("aa.bb.cccc")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	got, ok := Parse("29.02.2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, ok = Parse("31.02.2024")
	assert.False(t, ok)

	_, ok = Parse("2024-13-01")
	assert.False(t, ok)
}

func TestMembershipStart(t *testing.T) {
	start := MembershipStart(time.Date(2026, 1, 23, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "01.04.2026", FormatDotted(start))
	assert.Equal(t, "2026-04-01", FormatISO(start))

	rollover := MembershipStart(time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "01.02.2027", FormatDotted(rollover))
}

func TestPriorCoverageEnd(t *testing.T) {
	end := PriorCoverageEnd(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "31.03.2026", FormatDotted(end))

	end = PriorCoverageEnd(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "31.12.2026", FormatDotted(end))

	end = PriorCoverageEnd(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "29.02.2024", FormatDotted(end))
}
