package insurer

import (
	"fmt"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

// The DAK family form names most of its checkboxes "Kontrollkästchen<n>",
// and several exports of it carry the umlaut double-encoded. Every field with
// an accented name is therefore looked up through form.Accented.

func dakBox(n int) form.Ref {
	return form.Accented(fmt.Sprintf("Kontrollkästchen%d", n))
}

// dakBoxes holds the checkbox numbers of one person column.
type dakBoxes struct {
	sex       [4]int // m w x d
	kinship   [4]int // biological step grandchild foster; zero for the spouse
	prior     [3]int // own family not-statutory
	continues int
}

func dakColumn(label string, b dakBoxes) PersonFields {
	p := PersonFields{
		Surname:      form.Name("Name " + label),
		GivenName:    form.Name("Vorname " + label),
		BirthName:    form.Name("Geburtsname " + label),
		Sex:          sexBoxes(dakBox(b.sex[0]), dakBox(b.sex[1]), dakBox(b.sex[2]), dakBox(b.sex[3])),
		BirthDate:    text("Geburtsdatum " + label),
		BirthPlace:   form.Name("Geburtsort " + label),
		BirthCountry: form.Name("Geburtsland " + label),
		Nationality:  form.Accented("Staatsangehörigkeit " + label),
		Address:      form.Accented("Anschrift " + label + " (falls abweichend)"),

		PriorEnd:            text("Ende Vorversicherung " + label),
		PriorInsurer:        form.Name("Krankenkasse " + label),
		PriorKind:           priorBoxes(dakBox(b.prior[0]), dakBox(b.prior[1]), dakBox(b.prior[2])),
		ContinuesInParallel: dakBox(b.continues),
		PriorHolder:         form.Name("Name Hauptversicherter " + label),
		PolicyNumber:        form.Name("Versichertennummer " + label),
	}
	if b.kinship[0] != 0 {
		p.Kinship = kinshipBoxes(dakBox(b.kinship[0]), dakBox(b.kinship[1]), dakBox(b.kinship[2]), dakBox(b.kinship[3]))
	}
	return p
}

// DAKFamily is the DAK-Gesundheit family insurance form: three children per
// document next to a fixed spouse column, plus a spouse-only page.
func DAKFamily() *Descriptor {
	return &Descriptor{
		ID:             "dak-familie",
		Title:          "DAK-Gesundheit Familienversicherung",
		InsurerTag:     "DAK",
		DocType:        "Familienversicherung",
		Template:       "dak_familienversicherung.pdf",
		Mode:           applicant.ModeFamily,
		DefaultInsurer: "DAK-Gesundheit",

		ChildrenPerDocument: 3,
		SlotRule:            SpouseFixed,
		FieldDates:          DateDotted,
		FilenameDates:       DateDigitRun,
		Coordinates:         signature.BottomUp,

		Header: HeaderFields{
			Name:   form.Names("Name, Vorname Mitglied", "Name Vorname Mitglied"),
			Number: form.Names("Versichertennummer Mitglied", "KV-Nummer"),

			Reason:          dakBox(1),
			MaritalStatus:   maritalBoxes(dakBox(2), dakBox(3), dakBox(4), dakBox(5), dakBox(6)),
			MembershipStart: text("Beginn Familienversicherung"),
			CoverageEnd:     text("Ende bisherige Versicherung"),
			Street:          form.Accented("Straße, Hausnummer"),
			PostalCode:      form.Name("PLZ"),
			City:            form.Name("Wohnort"),
			Phone:           form.Names("Telefon", "Telefonnummer"),
			Email:           form.Names("E-Mail", "EMail"),
			Insurer:         form.Name("Krankenkasse Mitglied"),
			Employer:        form.Name("Arbeitgeber"),
			SignDate:        text("Datum"),
		},

		Member: PersonFields{
			Surname:      form.Name("Name Mitglied"),
			GivenName:    form.Name("Vorname Mitglied"),
			BirthName:    form.Name("Geburtsname Mitglied"),
			Sex:          sexBoxes(dakBox(7), dakBox(8), dakBox(9), dakBox(10)),
			BirthDate:    text("Geburtsdatum Mitglied"),
			BirthPlace:   form.Name("Geburtsort Mitglied"),
			BirthCountry: form.Name("Geburtsland Mitglied"),
			Nationality:  form.Accented("Staatsangehörigkeit Mitglied"),
			PriorKind:    priorBoxes(dakBox(11), dakBox(12), dakBox(13)),
		},

		Columns: []PersonFields{
			dakColumn("Ehegatte", dakBoxes{
				sex:       [4]int{20, 21, 22, 23},
				prior:     [3]int{24, 25, 26},
				continues: 27,
			}),
			dakColumn("Kind 1", dakBoxes{
				sex:       [4]int{40, 41, 42, 43},
				kinship:   [4]int{44, 45, 46, 47},
				prior:     [3]int{48, 49, 50},
				continues: 51,
			}),
			dakColumn("Kind 2", dakBoxes{
				sex:       [4]int{60, 61, 62, 63},
				kinship:   [4]int{70, 71, 72, 73},
				prior:     [3]int{74, 75, 76},
				continues: 77,
			}),
			// The template numbers the third child's kinship boxes from 79;
			// 78 is an unused box left over from an older layout.
			dakColumn("Kind 3", dakBoxes{
				sex:       [4]int{84, 85, 86, 87},
				kinship:   [4]int{79, 80, 81, 82},
				prior:     [3]int{88, 89, 90},
				continues: 91,
			}),
		},

		SpousePage: &SpousePageFields{
			RelatedToChildren: []form.Ref{dakBox(100), dakBox(101), dakBox(102)},
			LegallyTied:       YesNo{Yes: dakBox(103), No: dakBox(104)},
			OwnMembership:     YesNo{Yes: dakBox(105), No: dakBox(106)},
			OwnInsurer:        form.Accented("Krankenkasse Ehegatte (eigene Mitgliedschaft)"),
		},

		Signatures: []SignatureSpot{
			{Source: SignMember, Spot: signature.Spot{Page: 2, X: 60, Y: 92, MaxWidth: 100, MaxHeight: 30}},
			{Source: SignFamily, Spot: signature.Spot{Page: 2, X: 330, Y: 92, MaxWidth: 100, MaxHeight: 30}},
		},
	}
}
