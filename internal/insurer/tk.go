package insurer

import (
	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

func tkColumn(prefix string, child bool) PersonFields {
	p := PersonFields{
		Surname:   form.Name(prefix + "_Name"),
		GivenName: form.Name(prefix + "_Vorname"),
		BirthName: form.Name(prefix + "_Geburtsname"),
		Sex: sexBoxes(
			form.Name(prefix+"_Geschlecht_m"),
			form.Name(prefix+"_Geschlecht_w"),
			form.Name(prefix+"_Geschlecht_x"),
			form.Name(prefix+"_Geschlecht_d"),
		),
		BirthDate:    DateField{Digits: digitRefs(prefix + "_Geb_")},
		BirthPlace:   form.Name(prefix + "_Geburtsort"),
		BirthCountry: form.Name(prefix + "_Geburtsland"),
		Nationality:  form.Names(prefix+"_Staatsangehoerigkeit", prefix+"_Staatsangehörigkeit"),
		Address:      form.Name(prefix + "_Anschrift"),

		PriorEnd:     text(prefix + "_Vorvers_Ende"),
		PriorInsurer: form.Name(prefix + "_Vorvers_Kasse"),
		PriorKind: priorBoxes(
			form.Name(prefix+"_Vorvers_Mitglied"),
			form.Name(prefix+"_Vorvers_Familie"),
			form.Name(prefix+"_Vorvers_nicht_gesetzlich"),
		),
		ContinuesInParallel: form.Name(prefix + "_Vorvers_besteht_weiter"),
		PriorHolder:         form.Name(prefix + "_Vorvers_Hauptversicherter"),
		PolicyNumber:        form.Name(prefix + "_KVNR"),
	}
	if child {
		p.Kinship = kinshipBoxes(
			form.Name(prefix+"_leiblich"),
			form.Name(prefix+"_Stiefkind"),
			form.Name(prefix+"_Enkel"),
			form.Name(prefix+"_Pflegekind"),
		)
	}
	return p
}

// TKFamily is the Techniker Krankenkasse family insurance form. It has two
// child columns; without a spouse the first child takes the spouse column.
// Birth dates are printed one digit per box.
func TKFamily() *Descriptor {
	return &Descriptor{
		ID:             "tk-familie",
		Title:          "Techniker Krankenkasse Familienversicherung",
		InsurerTag:     "TK",
		DocType:        "Familienversicherung",
		Template:       "tk_familienversicherung.pdf",
		Mode:           applicant.ModeFamily,
		DefaultInsurer: "Techniker Krankenkasse",

		ChildrenPerDocument: 2,
		SlotRule:            ShiftIntoSpouse,
		FieldDates:          DateDotted,
		FilenameDates:       DateISO,
		Coordinates:         signature.TopDown,

		Header: HeaderFields{
			Name:   form.Name("Mitglied_Name_Vorname"),
			Number: form.Name("Mitglied_KVNR"),

			Reason: form.Name("Grund_Beginn_Mitgliedschaft"),
			MaritalStatus: maritalBoxes(
				form.Name("Familienstand_ledig"),
				form.Name("Familienstand_verheiratet"),
				form.Name("Familienstand_getrennt"),
				form.Name("Familienstand_geschieden"),
				form.Name("Familienstand_verwitwet"),
			),
			MembershipStart: DateField{Digits: digitRefs("Beginn_")},
			CoverageEnd:     text("Ende_Vorversicherung"),
			Street:          form.Names("Mitglied_Strasse", "Mitglied_Straße"),
			PostalCode:      form.Name("Mitglied_PLZ"),
			City:            form.Name("Mitglied_Ort"),
			Phone:           form.Name("Telefon"),
			Email:           form.Name("EMail"),
			Insurer:         form.Name("Mitglied_Kasse"),
			SignDate:        text("Datum"),
		},

		Member: PersonFields{
			Surname:   form.Name("Mitglied_Name"),
			GivenName: form.Name("Mitglied_Vorname"),
			BirthDate: DateField{Digits: digitRefs("Mitglied_Geb_")},
		},

		Columns: []PersonFields{
			tkColumn("Ehegatte", false),
			tkColumn("Kind1", true),
			tkColumn("Kind2", true),
		},

		SpousePage: &SpousePageFields{
			RelatedToChildren: []form.Ref{
				form.Name("Ehegatte_verwandt_Kind1"),
				form.Name("Ehegatte_verwandt_Kind2"),
			},
			LegallyTied: YesNo{
				Yes: form.Name("Ehegatte_Kinder_ja"),
				No:  form.Name("Ehegatte_Kinder_nein"),
			},
			OwnMembership: YesNo{
				Yes: form.Name("Ehegatte_eigene_Mitgliedschaft_ja"),
				No:  form.Name("Ehegatte_eigene_Mitgliedschaft_nein"),
			},
			OwnInsurer: form.Name("Ehegatte_eigene_Kasse"),
		},

		// Anchors are measured from the top edge of the page.
		Signatures: []SignatureSpot{
			{Source: SignMember, Spot: signature.Spot{Page: 2, X: 70, Y: 738, MaxWidth: 100, MaxHeight: 30}},
			{Source: SignFamily, Spot: signature.Spot{Page: 2, X: 320, Y: 738, MaxWidth: 100, MaxHeight: 30}},
		},
	}
}
