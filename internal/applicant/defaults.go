package applicant

import (
	"time"

	"github.com/a3tai/mcp-enrollment-pdf/internal/dates"
)

// New creates a record with the session defaults: today's date and a
// membership start on the first of the month three months out.
func New(today time.Time) Applicant {
	return Applicant{
		Mode:            ModeFamily,
		Date:            dates.FormatISO(today),
		MembershipStart: dates.FormatISO(dates.MembershipStart(today)),
	}
}

// Dates holds the membership dates derived from a record.
type Dates struct {
	MembershipStart  time.Time
	PriorCoverageEnd time.Time
}

// DerivedDates resolves the membership start of the record (computing it from
// today when unset or unparsable) and the matching prior-coverage end.
func (a *Applicant) DerivedDates(today time.Time) Dates {
	start, ok := dates.Parse(a.MembershipStart)
	if !ok {
		start = dates.MembershipStart(today)
	}
	return Dates{
		MembershipStart:  start,
		PriorCoverageEnd: dates.PriorCoverageEnd(start),
	}
}
