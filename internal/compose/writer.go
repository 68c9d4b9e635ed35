package compose

import (
	"fmt"
	"sort"
	"time"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/country"
	"github.com/a3tai/mcp-enrollment-pdf/internal/dates"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/insurer"
)

// window is the child index range [lo, hi) of one document.
type window struct {
	lo, hi int
}

// writer fills one document.
type writer struct {
	d      *insurer.Descriptor
	rec    *applicant.Applicant
	form   *form.Form
	dates  applicant.Dates
	today  time.Time
	window window
}

func (w *writer) header() {
	h := w.d.Header
	name := w.rec.Member.FullName()

	w.form.SetAllMatching(h.NamePrefix, name)
	w.form.SetAllMatching(h.NumberPrefix, w.rec.InsuranceNumber)
	w.form.SetText(h.Name, name)
	w.form.SetText(h.Number, w.rec.InsuranceNumber)

	// Enrollment reason is always the start of the member's own membership.
	w.form.SetCheckbox(h.Reason, true)
	w.choose(h.MaritalStatus, string(w.rec.MaritalStatus))

	w.date(h.MembershipStart, w.d.FieldDates.Format(w.dates.MembershipStart))
	w.date(h.CoverageEnd, w.d.FieldDates.Format(w.dates.PriorCoverageEnd))

	w.form.SetText(h.Street, w.rec.StreetLine())
	w.form.SetText(h.PostalCode, w.rec.PostalCode)
	w.form.SetText(h.City, w.rec.City)
	w.form.SetText(h.Phone, w.rec.Phone)
	w.form.SetText(h.Email, w.rec.Email)
	w.form.SetText(h.Employer, w.rec.Employer)

	insurerName := w.rec.Insurer
	if insurerName == "" {
		insurerName = w.d.DefaultInsurer
	}
	w.form.SetText(h.Insurer, insurerName)

	signDate := w.rec.Date
	if _, ok := dates.Parse(signDate); !ok {
		signDate = w.d.FieldDates.Format(w.today)
	}
	w.date(h.SignDate, signDate)
}

func (w *writer) member() {
	w.person(w.d.Member, w.rec.Member, false)
}

// spouse is written into column 0 of every document.
func (w *writer) spouse() {
	if !w.rec.HasSpouse() || len(w.d.Columns) == 0 {
		return
	}
	w.person(w.d.Columns[0], w.rec.Spouse, false)
}

func (w *writer) children() {
	for k := w.window.lo; k < w.window.hi; k++ {
		fields, ok := w.column(k)
		if !ok {
			continue
		}
		w.person(fields, w.rec.Children[k], true)
	}
}

// column returns the fields of the column child k lands in.
func (w *writer) column(k int) (insurer.PersonFields, bool) {
	col := w.d.SlotRule.Column(k-w.window.lo, w.rec.HasSpouse())
	if col < 0 || col >= len(w.d.Columns) {
		return insurer.PersonFields{}, false
	}
	return w.d.Columns[col], true
}

func (w *writer) person(fields insurer.PersonFields, p applicant.Person, child bool) {
	f := w.form

	f.SetText(fields.Surname, p.Surname)
	f.SetText(fields.GivenName, p.GivenName)
	f.SetText(fields.BirthName, p.DisplayBirthName())
	w.choose(fields.Sex, string(p.Sex))
	w.date(fields.BirthDate, p.BirthDate)
	f.SetText(fields.BirthPlace, p.BirthPlace)
	f.SetText(fields.BirthCountry, country.NameForCode(p.BirthCountry))
	f.SetText(fields.Nationality, country.NationalityForCode(p.Nationality))
	f.SetText(fields.Address, p.Address)

	if child {
		if fields.Kinship.Empty() && p.Kinship != "" {
			f.Skip(fields.GivenName.Primary(), fmt.Sprintf("column has no kinship field, %q not written", p.Kinship))
		}
		w.choose(fields.Kinship, string(p.Kinship))
	}

	prior := p.PriorInsurance
	end := prior.EndDate
	if end == "" {
		end = w.d.FieldDates.Format(w.dates.PriorCoverageEnd)
	}
	w.date(fields.PriorEnd, end)
	f.SetText(fields.PriorInsurer, p.EffectiveInsurer(w.rec.Insurer, w.d.DefaultInsurer))

	kind := prior.EffectiveKind()
	w.choose(fields.PriorKind, string(kind))
	if prior.ContinuesInParallel {
		f.SetCheckbox(fields.ContinuesInParallel, true)
	}

	holder := applicant.Person{Surname: prior.HolderSurname, GivenName: prior.HolderGivenName}.FullName()
	if holder == "" && kind == applicant.PriorFamilyCovered {
		holder = w.rec.Member.FullName()
	}
	f.SetText(fields.PriorHolder, holder)

	if prior.SelfInsured {
		f.SetCheckbox(fields.SelfInsured, true)
	}
	f.SetText(fields.PolicyNumber, prior.PolicyNumber)
}

func (w *writer) spousePage() {
	sp := w.d.SpousePage
	if sp == nil || !w.rec.HasSpouse() {
		return
	}

	tied := false
	for pos, k := 0, w.window.lo; k < w.window.hi; pos, k = pos+1, k+1 {
		related := w.rec.Children[k].SpouseRelated
		tied = tied || related
		if pos < len(sp.RelatedToChildren) {
			w.form.SetCheckbox(sp.RelatedToChildren[pos], related)
		}
	}
	w.yesNo(sp.LegallyTied, tied)

	spouse := w.rec.Spouse
	own := spouse.PriorInsurance.EffectiveKind() == applicant.PriorOwnMembership
	w.yesNo(sp.OwnMembership, own)
	if own {
		w.form.SetText(sp.OwnInsurer, spouse.EffectiveInsurer(w.rec.Insurer, w.d.DefaultInsurer))
	}
}

func (w *writer) pkg() {
	p := w.d.Package
	if p == nil {
		return
	}
	pk := w.rec.Package
	f := w.form

	holder := pk.Bank.Holder
	if holder == "" && pk.Bank.IBAN != "" {
		holder = w.rec.Member.FullName()
	}
	f.SetText(p.BankHolder, holder)
	f.SetText(p.IBAN, pk.Bank.IBAN)
	f.SetText(p.BIC, pk.Bank.BIC)
	f.SetText(p.Bank, pk.Bank.Bank)

	start := pk.CoverageStart
	if start == "" {
		start = w.d.FieldDates.Format(w.dates.MembershipStart)
	}
	w.date(p.CoverageStart, start)
	w.date(p.CoverageEnd, pk.CoverageEnd)

	w.physician(p.MemberPhysician, pk.Physicians.Member)
	if w.rec.HasSpouse() && len(p.Physicians) > 0 {
		w.physician(p.Physicians[0], pk.Physicians.Spouse)
	}
	for k := w.window.lo; k < w.window.hi; k++ {
		col := w.d.SlotRule.Column(k-w.window.lo, w.rec.HasSpouse())
		if col < len(p.Physicians) {
			w.physician(p.Physicians[col], pk.Physicians.Child(k))
		}
	}

	codes := make([]string, 0, len(p.Tariffs))
	for code := range p.Tariffs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		f.SetCheckbox(p.Tariffs[code], pk.HasTariff(code))
	}

	f.SetCheckbox(p.Consent.DataProtection, pk.Consent.DataProtection)
	f.SetCheckbox(p.Consent.AdviceWaiver, pk.Consent.AdviceWaiver)
	f.SetCheckbox(p.Consent.Marketing, pk.Consent.Marketing)
	f.SetCheckbox(p.Consent.ElectronicMail, pk.Consent.ElectronicMail)

	f.SetText(p.BrokerName, pk.BrokerName)
	f.SetText(p.BrokerNumber, pk.BrokerNumber)
}

func (w *writer) physician(fields insurer.PhysicianFields, p applicant.Physician) {
	w.form.SetText(fields.Name, p.Name)
	w.form.SetText(fields.Location, p.Location)
}

// choose selects key in c. An empty key leaves every option untouched;
// otherwise the chosen box is checked and its siblings unchecked.
func (w *writer) choose(c insurer.Choice, key string) {
	if key == "" || c.Empty() {
		return
	}
	if c.Group != "" {
		option, ok := c.Options[key]
		if !ok {
			option = key
		}
		w.form.SelectRadio(c.Group, option)
		return
	}

	keys := make([]string, 0, len(c.Boxes))
	for k := range c.Boxes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.form.SetCheckbox(c.Boxes[k], k == key)
	}
}

func (w *writer) yesNo(q insurer.YesNo, answer bool) {
	w.form.SetCheckbox(q.Yes, answer)
	w.form.SetCheckbox(q.No, !answer)
}

// date writes value into a whole-date field in the descriptor's notation
// and into per-digit fields.
func (w *writer) date(field insurer.DateField, value string) {
	if value == "" || field.Empty() {
		return
	}
	w.form.SetText(field.Text, w.d.FieldDates.Convert(value))

	if len(field.Digits) == 0 {
		return
	}
	digits, ok := dates.SplitDigits(value)
	if !ok {
		w.form.Skip(field.Digits[0].Primary(), "not a date: "+value)
		return
	}
	for i, digit := range digits.Slice() {
		if i < len(field.Digits) {
			w.form.SetText(field.Digits[i], digit)
		}
	}
}

func (w *writer) signatureOf(source insurer.SignatureSource) string {
	switch source {
	case insurer.SignFamily:
		return w.rec.FamilySignature
	case insurer.SignBroker:
		return w.rec.Package.BrokerSignature
	default:
		return w.rec.MemberSignature
	}
}
