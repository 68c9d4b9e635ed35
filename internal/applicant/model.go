// Package applicant holds the in-memory enrollment record consumed by the
// document composers. JSON names follow the German labels used by the form
// and by the extraction service.
package applicant

// Sex is the sex of a person as printed on the templates.
type Sex string

const (
	SexUnset       Sex = ""
	SexMale        Sex = "m"
	SexFemale      Sex = "w"
	SexUnspecified Sex = "x"
	SexDiverse     Sex = "d"
)

// Kinship is the relationship of a child to the member.
type Kinship string

const (
	KinshipUnset      Kinship = ""
	KinshipBiological Kinship = "leiblich"
	KinshipStep       Kinship = "stief"
	KinshipGrandchild Kinship = "enkel"
	KinshipFoster     Kinship = "pflege"
)

// PriorInsuranceKind is the coverage a person had immediately before the enrollment.
type PriorInsuranceKind string

const (
	PriorUnset         PriorInsuranceKind = ""
	PriorOwnMembership PriorInsuranceKind = "mitglied"
	PriorFamilyCovered PriorInsuranceKind = "familienversichert"
	PriorNotStatutory  PriorInsuranceKind = "nicht_gesetzlich"
)

// MaritalStatus of the member.
type MaritalStatus string

const (
	MaritalUnset     MaritalStatus = ""
	MaritalSingle    MaritalStatus = "ledig"
	MaritalMarried   MaritalStatus = "verheiratet"
	MaritalSeparated MaritalStatus = "getrennt"
	MaritalDivorced  MaritalStatus = "geschieden"
	MaritalWidowed   MaritalStatus = "verwitwet"
)

// ProductMode selects which sections of the form apply.
type ProductMode string

const (
	ModeFamily       ProductMode = "familienversicherung"
	ModeSupplemental ProductMode = "zusatz"
	ModeComplete     ProductMode = "komplett"
)

// Includes reports whether mode m covers the sections of product p.
func (m ProductMode) Includes(p ProductMode) bool {
	if m == "" {
		m = ModeFamily
	}
	return m == ModeComplete || m == p
}

// PriorInsurance describes a person's coverage before the enrollment.
type PriorInsurance struct {
	EndDate             string             `json:"endeDatum"`
	Insurer             string             `json:"kasse"`
	Kind                PriorInsuranceKind `json:"art"`
	ContinuesInParallel bool               `json:"bestehtWeiter"`
	ContinuingInsurer   string             `json:"weiterKasse"`
	HolderGivenName     string             `json:"hauptversicherterVorname"`
	HolderSurname       string             `json:"hauptversicherterName"`
	SelfInsured         bool               `json:"selbstVersichert"`
	PolicyNumber        string             `json:"versichertennummer"`
}

// EffectiveKind returns the prior-insurance kind, defaulting to family-covered
// when the kind is unset but the coverage continues in parallel.
func (p PriorInsurance) EffectiveKind() PriorInsuranceKind {
	if p.Kind == PriorUnset && p.ContinuesInParallel {
		return PriorFamilyCovered
	}
	return p.Kind
}

// Person is the member, the spouse or a child.
type Person struct {
	Surname        string         `json:"name"`
	GivenName      string         `json:"vorname"`
	BirthName      string         `json:"geburtsname"`
	Sex            Sex            `json:"geschlecht"`
	BirthDate      string         `json:"geburtsdatum"`
	BirthPlace     string         `json:"geburtsort"`
	BirthCountry   string         `json:"geburtsland"`
	Nationality    string         `json:"staatsangehoerigkeit"`
	Address        string         `json:"abweichendeAnschrift"`
	Kinship        Kinship        `json:"verwandtschaft,omitempty"`
	SpouseRelated  bool           `json:"ehegatteVerwandt,omitempty"`
	PriorInsurance PriorInsurance `json:"vorversicherung"`
}

// Present reports whether the person has been entered at all.
func (p Person) Present() bool {
	return p.Surname != "" || p.GivenName != ""
}

// DisplayBirthName returns the birth name, falling back to the surname.
func (p Person) DisplayBirthName() string {
	if p.BirthName != "" {
		return p.BirthName
	}
	return p.Surname
}

// FullName renders "Surname, GivenName".
func (p Person) FullName() string {
	switch {
	case p.Surname == "":
		return p.GivenName
	case p.GivenName == "":
		return p.Surname
	}
	return p.Surname + ", " + p.GivenName
}

// EffectiveInsurer resolves the insurer printed for the person's prior
// coverage: the continuing insurer, then the prior insurer, then the member's
// current insurer, then fallback.
func (p Person) EffectiveInsurer(memberInsurer, fallback string) string {
	for _, name := range []string{p.PriorInsurance.ContinuingInsurer, p.PriorInsurance.Insurer, memberInsurer} {
		if name != "" {
			return name
		}
	}
	return fallback
}

// BankAccount for premium collection.
type BankAccount struct {
	Holder string `json:"kontoinhaber"`
	IBAN   string `json:"iban"`
	BIC    string `json:"bic"`
	Bank   string `json:"bank"`
}

// Physician is a person's attending doctor.
type Physician struct {
	Name     string `json:"name"`
	Location string `json:"ort"`
}

// Physicians per insured person; Children is aligned with Applicant.Children.
type Physicians struct {
	Member   Physician   `json:"mitglied"`
	Spouse   Physician   `json:"ehegatte"`
	Children []Physician `json:"kinder"`
}

// Child returns the physician of child i, or the zero value.
func (p Physicians) Child(i int) Physician {
	if i < 0 || i >= len(p.Children) {
		return Physician{}
	}
	return p.Children[i]
}

// Consent flags given with the supplemental package.
type Consent struct {
	DataProtection bool `json:"datenschutz"`
	AdviceWaiver   bool `json:"beratungsverzicht"`
	Marketing      bool `json:"werbung"`
	ElectronicMail bool `json:"elektronischePost"`
}

// Package is the supplemental-insurance section.
type Package struct {
	Bank            BankAccount `json:"bank"`
	CoverageStart   string      `json:"versicherungsbeginn"`
	CoverageEnd     string      `json:"versicherungsende"`
	Physicians      Physicians  `json:"aerzte"`
	Tariffs         []string    `json:"tarife"`
	Consent         Consent     `json:"einwilligungen"`
	BrokerName      string      `json:"vermittlerName"`
	BrokerNumber    string      `json:"vermittlerNummer"`
	BrokerSignature string      `json:"unterschriftVermittler"`
}

// HasTariff reports whether tariff code t is selected.
func (p Package) HasTariff(t string) bool {
	for _, s := range p.Tariffs {
		if s == t {
			return true
		}
	}
	return false
}

// Applicant is the root record of one enrollment.
type Applicant struct {
	Member          Person        `json:"mitglied"`
	Street          string        `json:"strasse"`
	HouseNumber     string        `json:"hausnummer"`
	PostalCode      string        `json:"plz"`
	City            string        `json:"ort"`
	Phone           string        `json:"telefon"`
	Email           string        `json:"email"`
	Insurer         string        `json:"krankenkasse"`
	InsuranceNumber string        `json:"versichertennummer"`
	Employer        string        `json:"arbeitgeber"`
	MaritalStatus   MaritalStatus `json:"familienstand"`
	Spouse          Person        `json:"ehegatte"`
	Children        []Person      `json:"kinder"`
	MemberSignature string        `json:"unterschriftMitglied"`
	FamilySignature string        `json:"unterschriftFamilie"`
	Package         Package       `json:"paket"`
	Mode            ProductMode   `json:"modus"`
	Date            string        `json:"datum"`
	MembershipStart string        `json:"mitgliedschaftsbeginn"`
}

// HasSpouse reports whether a spouse has been entered.
func (a *Applicant) HasSpouse() bool {
	return a.Spouse.Present()
}

// StreetLine renders street and house number.
func (a *Applicant) StreetLine() string {
	if a.HouseNumber == "" {
		return a.Street
	}
	return a.Street + " " + a.HouseNumber
}

// Clone returns a deep copy so callers can hand the record to a composer
// without sharing slices.
func (a *Applicant) Clone() Applicant {
	c := *a
	c.Children = append([]Person(nil), a.Children...)
	c.Package.Tariffs = append([]string(nil), a.Package.Tariffs...)
	c.Package.Physicians.Children = append([]Physician(nil), a.Package.Physicians.Children...)
	return c
}
