package insurer

import (
	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

// The BKK form uses real radio groups and hierarchical field names
// ("Kind1.Name"). Its header repeats on every page as Name_Vorname_S1,
// Name_Vorname_S2 and so on.

var (
	bkkSexOptions = map[string]string{
		string(applicant.SexMale):        "maennlich",
		string(applicant.SexFemale):      "weiblich",
		string(applicant.SexUnspecified): "unbestimmt",
		string(applicant.SexDiverse):     "divers",
	}
	bkkKinshipOptions = map[string]string{
		string(applicant.KinshipBiological): "leiblich",
		string(applicant.KinshipStep):       "Stiefkind",
		string(applicant.KinshipGrandchild): "Enkel",
		string(applicant.KinshipFoster):     "Pflegekind",
	}
	bkkPriorOptions = map[string]string{
		string(applicant.PriorOwnMembership): "Mitglied",
		string(applicant.PriorFamilyCovered): "Familienversichert",
		string(applicant.PriorNotStatutory):  "nicht_gesetzlich",
	}
	bkkMaritalOptions = map[string]string{
		string(applicant.MaritalSingle):    "ledig",
		string(applicant.MaritalMarried):   "verheiratet",
		string(applicant.MaritalSeparated): "getrennt",
		string(applicant.MaritalDivorced):  "geschieden",
		string(applicant.MaritalWidowed):   "verwitwet",
	}
)

func bkkColumn(prefix string, child bool) PersonFields {
	p := PersonFields{
		Surname:      form.Name(prefix + ".Name"),
		GivenName:    form.Name(prefix + ".Vorname"),
		BirthName:    form.Name(prefix + ".Geburtsname"),
		Sex:          Choice{Group: prefix + ".Geschlecht", Options: bkkSexOptions},
		BirthDate:    text(prefix + ".Geburtsdatum"),
		BirthPlace:   form.Name(prefix + ".Geburtsort"),
		BirthCountry: form.Name(prefix + ".Geburtsland"),
		Nationality:  form.Accented(prefix + ".Staatsangehörigkeit"),
		Address:      form.Name(prefix + ".Anschrift"),

		PriorEnd:            text(prefix + ".Vorversicherung_bis"),
		PriorInsurer:        form.Name(prefix + ".Vorversicherung_Kasse"),
		PriorKind:           Choice{Group: prefix + ".Vorversicherung", Options: bkkPriorOptions},
		ContinuesInParallel: form.Name(prefix + ".besteht_weiter"),
		PriorHolder:         form.Name(prefix + ".Hauptversicherter"),
		SelfInsured:         form.Name(prefix + ".selbst_versichert"),
		PolicyNumber:        form.Name(prefix + ".Versichertennummer"),
	}
	if child {
		p.Kinship = Choice{Group: prefix + ".Verhaeltnis", Options: bkkKinshipOptions}
	}
	return p
}

// BKKFamily is the company health insurance family form with radio groups
// and a page-repeated header.
func BKKFamily() *Descriptor {
	return &Descriptor{
		ID:             "bkk-familie",
		Title:          "BKK Familienversicherung",
		InsurerTag:     "BKK",
		DocType:        "Familienversicherung",
		Template:       "bkk_familienversicherung.pdf",
		Mode:           applicant.ModeFamily,
		DefaultInsurer: "BKK",

		ChildrenPerDocument: 3,
		SlotRule:            SpouseFixed,
		FieldDates:          DateDotted,
		FilenameDates:       DateDigitRun,
		Coordinates:         signature.BottomUp,

		Header: HeaderFields{
			NamePrefix:   "Name_Vorname",
			NumberPrefix: "KVNR",

			Reason:          form.Name("Beginn_Mitgliedschaft"),
			MaritalStatus:   Choice{Group: "Familienstand", Options: bkkMaritalOptions},
			MembershipStart: text("Beginn_Familienversicherung"),
			CoverageEnd:     text("Ende_Vorversicherung"),
			Street:          form.Accented("Straße"),
			PostalCode:      form.Name("PLZ"),
			City:            form.Name("Ort"),
			Phone:           form.Name("Telefon"),
			Email:           form.Name("E-Mail"),
			Insurer:         form.Name("Krankenkasse"),
			Employer:        form.Name("Arbeitgeber"),
			SignDate:        text("Datum_Unterschrift"),
		},

		Member: PersonFields{
			Surname:     form.Name("Mitglied.Name"),
			GivenName:   form.Name("Mitglied.Vorname"),
			Sex:         Choice{Group: "Mitglied.Geschlecht", Options: bkkSexOptions},
			BirthDate:   text("Mitglied.Geburtsdatum"),
			Nationality: form.Accented("Mitglied.Staatsangehörigkeit"),
		},

		Columns: []PersonFields{
			bkkColumn("Ehegatte", false),
			bkkColumn("Kind1", true),
			bkkColumn("Kind2", true),
			bkkColumn("Kind3", true),
		},

		SpousePage: &SpousePageFields{
			RelatedToChildren: []form.Ref{
				form.Name("Ehegatte.verwandt_Kind1"),
				form.Name("Ehegatte.verwandt_Kind2"),
				form.Name("Ehegatte.verwandt_Kind3"),
			},
			LegallyTied: YesNo{
				Yes: form.Name("Ehegatte.Kinder_ja"),
				No:  form.Name("Ehegatte.Kinder_nein"),
			},
			OwnMembership: YesNo{
				Yes: form.Name("Ehegatte.Mitgliedschaft_ja"),
				No:  form.Name("Ehegatte.Mitgliedschaft_nein"),
			},
			OwnInsurer: form.Name("Ehegatte.Mitgliedschaft_Kasse"),
		},

		Signatures: []SignatureSpot{
			{Source: SignMember, Spot: signature.Spot{Page: 2, X: 72, Y: 84, MaxWidth: 110, MaxHeight: 32}},
			{Source: SignFamily, Spot: signature.Spot{Page: 3, X: 72, Y: 120, MaxWidth: 110, MaxHeight: 32}},
		},
	}
}
