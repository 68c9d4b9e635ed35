// Package insurer describes the enrollment templates of each insurer and
// product as data: which template field receives which applicant attribute,
// how many children fit on one document, how dependents are assigned to
// columns, where signatures go and how output files are named.
package insurer

import (
	"fmt"
	"strings"
	"time"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/dates"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

// DateStyle selects the notation of a rendered date.
type DateStyle int

const (
	DateDotted DateStyle = iota
	DateISO
	DateDigitRun
)

// Format renders t in the style.
func (s DateStyle) Format(t time.Time) string {
	switch s {
	case DateISO:
		return dates.FormatISO(t)
	case DateDigitRun:
		return dates.FormatDigitRun(t)
	default:
		return dates.FormatDotted(t)
	}
}

// Convert re-notates a date string, passing unparsable input through.
func (s DateStyle) Convert(value string) string {
	switch s {
	case DateISO:
		return dates.ToISO(value)
	case DateDigitRun:
		return dates.ToDigitRun(value)
	default:
		return dates.ToDotted(value)
	}
}

// SlotRule assigns the children of one document to template columns.
// Column 0 is the spouse column.
type SlotRule int

const (
	// SpouseFixed keeps column 0 for the spouse; child n goes to column n+1.
	SpouseFixed SlotRule = iota
	// ShiftIntoSpouse moves child n into column n when there is no spouse.
	ShiftIntoSpouse
)

// Column returns the column of the n-th child (0-based within the document).
func (r SlotRule) Column(n int, hasSpouse bool) int {
	if r == ShiftIntoSpouse && !hasSpouse {
		return n
	}
	return n + 1
}

// String returns the rule name.
func (r SlotRule) String() string {
	if r == ShiftIntoSpouse {
		return "shift-into-spouse"
	}
	return "spouse-fixed"
}

// Choice is a mutually exclusive selection. Templates either expose a real
// radio group (Group with Options mapping keys to export values) or one
// checkbox per option (Boxes).
type Choice struct {
	Group   string
	Options map[string]string
	Boxes   map[string]form.Ref
}

// Empty reports whether the choice maps to no field.
func (c Choice) Empty() bool {
	return c.Group == "" && len(c.Boxes) == 0
}

// YesNo is a pair of checkboxes answering one question.
type YesNo struct {
	Yes form.Ref
	No  form.Ref
}

// DateField is a date printed either into one text field or into one field
// per digit (T1 T2 M1 M2 J1 J2 J3 J4).
type DateField struct {
	Text   form.Ref
	Digits []form.Ref
}

// Empty reports whether the date maps to no field.
func (d DateField) Empty() bool {
	return d.Text.Empty() && len(d.Digits) == 0
}

// PersonFields maps one person column of a template.
type PersonFields struct {
	Surname      form.Ref
	GivenName    form.Ref
	BirthName    form.Ref
	Sex          Choice
	BirthDate    DateField
	BirthPlace   form.Ref
	BirthCountry form.Ref
	Nationality  form.Ref
	Address      form.Ref
	Kinship      Choice

	PriorEnd            DateField
	PriorInsurer        form.Ref
	PriorKind           Choice
	ContinuesInParallel form.Ref
	PriorHolder         form.Ref
	SelfInsured         form.Ref
	PolicyNumber        form.Ref
}

// HeaderFields are written once per document.
type HeaderFields struct {
	// NamePrefix and NumberPrefix are written to every field starting with
	// them, for templates that repeat the header on each page.
	NamePrefix   string
	NumberPrefix string
	Name         form.Ref
	Number       form.Ref

	Reason          form.Ref
	MaritalStatus   Choice
	MembershipStart DateField
	CoverageEnd     DateField
	Street          form.Ref
	PostalCode      form.Ref
	City            form.Ref
	Phone           form.Ref
	Email           form.Ref
	Insurer         form.Ref
	Employer        form.Ref
	SignDate        DateField
}

// SpousePageFields is the spouse-only page of family templates.
type SpousePageFields struct {
	// RelatedToChildren is indexed by the child's position in the document.
	RelatedToChildren []form.Ref
	LegallyTied       YesNo
	OwnMembership     YesNo
	OwnInsurer        form.Ref
}

// PhysicianFields maps an attending physician.
type PhysicianFields struct {
	Name     form.Ref
	Location form.Ref
}

// ConsentFields maps the consent checkboxes of the package section.
type ConsentFields struct {
	DataProtection form.Ref
	AdviceWaiver   form.Ref
	Marketing      form.Ref
	ElectronicMail form.Ref
}

// PackageFields maps the supplemental-insurance section.
type PackageFields struct {
	BankHolder    form.Ref
	IBAN          form.Ref
	BIC           form.Ref
	Bank          form.Ref
	CoverageStart DateField
	CoverageEnd   DateField

	MemberPhysician PhysicianFields
	// Physicians is indexed by person column.
	Physicians []PhysicianFields

	// Tariffs maps tariff codes to their checkbox.
	Tariffs map[string]form.Ref
	Consent ConsentFields

	BrokerName   form.Ref
	BrokerNumber form.Ref
}

// SignatureSource names whose signature is stamped.
type SignatureSource int

const (
	SignMember SignatureSource = iota
	SignFamily
	SignBroker
)

// String returns the source name.
func (s SignatureSource) String() string {
	switch s {
	case SignFamily:
		return "family"
	case SignBroker:
		return "broker"
	default:
		return "member"
	}
}

// SignatureSpot anchors one signature on a template page.
type SignatureSpot struct {
	Source SignatureSource
	Spot   signature.Spot
}

// Descriptor is everything the composer needs to fill one template.
type Descriptor struct {
	ID             string
	Title          string
	InsurerTag     string
	DocType        string
	Template       string
	Mode           applicant.ProductMode
	DefaultInsurer string

	ChildrenPerDocument int
	SlotRule            SlotRule
	FieldDates          DateStyle
	FilenameDates       DateStyle
	Coordinates         signature.CoordinateSystem

	Header     HeaderFields
	Member     PersonFields
	Columns    []PersonFields
	SpousePage *SpousePageFields
	Package    *PackageFields
	Signatures []SignatureSpot
}

// DocumentCount returns how many documents the given number of children needs.
func (d *Descriptor) DocumentCount(children int) int {
	capacity := d.capacity()
	n := (children + capacity - 1) / capacity
	if n < 1 {
		return 1
	}
	return n
}

// Window returns the child index range [lo, hi) of document i.
func (d *Descriptor) Window(i, children int) (int, int) {
	capacity := d.capacity()
	lo := i * capacity
	hi := lo + capacity
	if lo > children {
		lo = children
	}
	if hi > children {
		hi = children
	}
	return lo, hi
}

func (d *Descriptor) capacity() int {
	if d.ChildrenPerDocument < 1 {
		return 1
	}
	return d.ChildrenPerDocument
}

// Filename builds "<Tag>_<Surname>, <Given>_<DocType>_<date>[_Teil<n>].pdf".
// part is 1-based; the suffix is only added when there is more than one part.
func (d *Descriptor) Filename(member applicant.Person, today time.Time, part, parts int) string {
	name := fmt.Sprintf("%s_%s_%s_%s", d.InsurerTag, member.FullName(), d.DocType, d.FilenameDates.Format(today))
	if parts > 1 {
		name += fmt.Sprintf("_Teil%d", part)
	}
	return filenameReplacer.Replace(name) + ".pdf"
}

var filenameReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")

// Validate reports descriptor errors that would make exports misbehave.
func (d *Descriptor) Validate() error {
	switch {
	case d.ID == "":
		return fmt.Errorf("descriptor id cannot be empty")
	case d.Template == "":
		return fmt.Errorf("descriptor %s: template cannot be empty", d.ID)
	case d.InsurerTag == "" || d.DocType == "":
		return fmt.Errorf("descriptor %s: insurer tag and document type are required", d.ID)
	case d.ChildrenPerDocument < 1:
		return fmt.Errorf("descriptor %s: children per document must be positive", d.ID)
	}
	if need := d.ChildrenPerDocument + 1; len(d.Columns) < need {
		return fmt.Errorf("descriptor %s: %d columns for %d children plus spouse", d.ID, len(d.Columns), d.ChildrenPerDocument)
	}
	for _, s := range d.Signatures {
		if s.Spot.Page < 1 {
			return fmt.Errorf("descriptor %s: %s signature page must be 1-based", d.ID, s.Source)
		}
	}
	return nil
}
