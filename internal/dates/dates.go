// Package dates converts between the date notations used by the enrollment
// templates and computes the membership dates derived from the export day.
//
// All conversions are permissive: partial or malformed input is returned
// unchanged (or reported through a false ok value) instead of failing, since
// the values end up in optional free-text form fields.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// LayoutISO is the calendar date layout of the applicant record (YYYY-MM-DD).
	LayoutISO = "2006-01-02"
	// LayoutDotted is the German display layout (DD.MM.YYYY).
	LayoutDotted = "02.01.2006"
	// LayoutDigitRun is the separator-free layout used by digit-comb fields (DDMMYYYY).
	LayoutDigitRun = "02012006"
)

// Digits holds one character per printed digit of a date, named after the
// field suffixes the templates use (Tag, Monat, Jahr).
type Digits struct {
	T1, T2 string
	M1, M2 string
	J1, J2 string
	J3, J4 string
}

// Slice returns the digits in print order.
func (d Digits) Slice() []string {
	return []string{d.T1, d.T2, d.M1, d.M2, d.J1, d.J2, d.J3, d.J4}
}

// ToISO converts DD.MM.YYYY into YYYY-MM-DD. Input that is not a complete
// dotted date with a four digit year is returned unchanged.
func ToISO(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return s
	}
	day, month, year := parts[0], parts[1], parts[2]
	if day == "" || month == "" || len(year) != 4 {
		return s
	}
	return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
}

// ToDotted converts YYYY-MM-DD into DD.MM.YYYY. Dotted input and anything that
// is not a complete ISO date is returned unchanged.
func ToDotted(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	year, month, day := parts[0], parts[1], parts[2]
	if day == "" || month == "" || len(year) != 4 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s", pad2(day), pad2(month), year)
}

// ToDigitRun renders a dotted or ISO date as DDMMYYYY. Input without
// separators, or that cannot be split into day, month and year, is returned
// unchanged.
func ToDigitRun(s string) string {
	day, month, year, ok := split(s)
	if !ok {
		return s
	}
	return pad2(day) + pad2(month) + year
}

// SplitDigits decomposes a dotted or ISO date into its eight printed digits.
// ok is false when the input is not a day/month/year triple.
func SplitDigits(s string) (Digits, bool) {
	day, month, year, ok := split(s)
	if !ok {
		return Digits{}, false
	}
	run := pad2(day) + pad2(month) + year
	if len(run) != 8 || !allDigits(run) {
		return Digits{}, false
	}
	c := func(i int) string { return run[i : i+1] }
	return Digits{
		T1: c(0), T2: c(1),
		M1: c(2), M2: c(3),
		J1: c(4), J2: c(5), J3: c(6), J4: c(7),
	}, true
}

// Parse reads a dotted or ISO date.
func Parse(s string) (time.Time, bool) {
	day, month, year, ok := split(s)
	if !ok {
		return time.Time{}, false
	}
	d, errD := strconv.Atoi(day)
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// Reject dates that time.Date normalised into the next month (31.02.).
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// FormatISO renders t as YYYY-MM-DD.
func FormatISO(t time.Time) string { return t.Format(LayoutISO) }

// FormatDotted renders t as DD.MM.YYYY.
func FormatDotted(t time.Time) string { return t.Format(LayoutDotted) }

// FormatDigitRun renders t as DDMMYYYY.
func FormatDigitRun(t time.Time) string { return t.Format(LayoutDigitRun) }

// MembershipStart is the first day of the month three months after today's month.
func MembershipStart(today time.Time) time.Time {
	return time.Date(today.Year(), today.Month()+3, 1, 0, 0, 0, 0, time.UTC)
}

// PriorCoverageEnd is the last day of the month preceding start.
func PriorCoverageEnd(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month(), 0, 0, 0, 0, 0, time.UTC)
}

// split returns the day, month and year parts of a dotted or ISO date.
func split(s string) (day, month, year string, ok bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "."):
		p := strings.Split(s, ".")
		if len(p) != 3 {
			return "", "", "", false
		}
		day, month, year = p[0], p[1], p[2]
	case strings.Contains(s, "-"):
		p := strings.Split(s, "-")
		if len(p) != 3 {
			return "", "", "", false
		}
		year, month, day = p[0], p[1], p[2]
	default:
		return "", "", "", false
	}
	if day == "" || month == "" || len(year) != 4 || len(day) > 2 || len(month) > 2 {
		return "", "", "", false
	}
	return day, month, year, true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
