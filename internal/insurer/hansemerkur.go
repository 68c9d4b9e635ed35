package insurer

import (
	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

// Tariff codes offered on the supplemental application.
const (
	TariffDental          = "EZ"
	TariffDentalPlus      = "EZE"
	TariffDentalTreatment = "EZT"
	TariffDentalCleaning  = "EZP"
	TariffHospital        = "KHMR"
	TariffOutpatient      = "AM"
)

func hmPerson(prefix string, child bool) PersonFields {
	p := PersonFields{
		Surname:   form.Name(prefix + "_Name"),
		GivenName: form.Name(prefix + "_Vorname"),
		Sex: sexBoxes(
			form.Name(prefix+"_maennlich"),
			form.Name(prefix+"_weiblich"),
			form.Name(prefix+"_ohne_Angabe"),
			form.Name(prefix+"_divers"),
		),
		BirthDate:    text(prefix + "_Geburtsdatum"),
		Nationality:  form.Accented(prefix + "_Staatsangehörigkeit"),
		PriorInsurer: form.Name(prefix + "_gesetzliche_KV"),
		PolicyNumber: form.Name(prefix + "_KVNR"),
		SelfInsured:  form.Name(prefix + "_selbst_versichert"),
	}
	if child {
		p.Kinship = kinshipBoxes(
			form.Name(prefix+"_Kind_leiblich"),
			form.Name(prefix+"_Kind_Stief"),
			form.Name(prefix+"_Kind_Enkel"),
			form.Name(prefix+"_Kind_Pflege"),
		)
	}
	return p
}

func hmPhysician(prefix string) PhysicianFields {
	return PhysicianFields{
		Name:     form.Names(prefix+"_Arzt_Name", prefix+"_Hausarzt"),
		Location: form.Name(prefix + "_Arzt_Ort"),
	}
}

// HanseMerkurSupplemental is the HanseMerkur supplemental insurance
// application. Persons are numbered VP1 (member) to VP4; VP2 is always the
// spouse. It carries the package section with bank details, physicians,
// tariffs, consents and the broker block.
func HanseMerkurSupplemental() *Descriptor {
	return &Descriptor{
		ID:             "hm-zusatz",
		Title:          "HanseMerkur Zusatzversicherung",
		InsurerTag:     "HanseMerkur",
		DocType:        "Zusatzversicherung",
		Template:       "hansemerkur_zusatz.pdf",
		Mode:           applicant.ModeSupplemental,
		DefaultInsurer: "gesetzlich versichert",

		ChildrenPerDocument: 2,
		SlotRule:            SpouseFixed,
		FieldDates:          DateDotted,
		FilenameDates:       DateISO,
		Coordinates:         signature.TopDown,

		Header: HeaderFields{
			Name:       form.Name("VN_Name_Vorname"),
			Number:     form.Name("VN_KVNR"),
			Street:     form.Accented("VN_Straße"),
			PostalCode: form.Name("VN_PLZ"),
			City:       form.Name("VN_Ort"),
			Phone:      form.Name("VN_Telefon"),
			Email:      form.Name("VN_EMail"),
			Insurer:    form.Name("VN_Krankenkasse"),
			SignDate:   text("Datum"),
		},

		Member: hmPerson("VP1", false),

		Columns: []PersonFields{
			hmPerson("VP2", false),
			hmPerson("VP3", true),
			hmPerson("VP4", true),
		},

		Package: &PackageFields{
			BankHolder:    form.Name("Kontoinhaber"),
			IBAN:          form.Name("IBAN"),
			BIC:           form.Name("BIC"),
			Bank:          form.Name("Kreditinstitut"),
			CoverageStart: text("Versicherungsbeginn"),
			CoverageEnd:   text("Versicherungsende"),

			MemberPhysician: hmPhysician("VP1"),
			Physicians: []PhysicianFields{
				hmPhysician("VP2"),
				hmPhysician("VP3"),
				hmPhysician("VP4"),
			},

			Tariffs: map[string]form.Ref{
				TariffDental:          form.Name("Tarif_EZ"),
				TariffDentalPlus:      form.Name("Tarif_EZE"),
				TariffDentalTreatment: form.Name("Tarif_EZT"),
				TariffDentalCleaning:  form.Name("Tarif_EZP"),
				TariffHospital:        form.Name("Tarif_KHMR"),
				TariffOutpatient:      form.Name("Tarif_AM"),
			},
			Consent: ConsentFields{
				DataProtection: form.Name("Einwilligung_Datenschutz"),
				AdviceWaiver:   form.Name("Beratungsverzicht"),
				Marketing:      form.Name("Einwilligung_Werbung"),
				ElectronicMail: form.Name("Einwilligung_elektronische_Post"),
			},

			BrokerName:   form.Name("Vermittler_Name"),
			BrokerNumber: form.Name("Vermittler_Nummer"),
		},

		Signatures: []SignatureSpot{
			{Source: SignMember, Spot: signature.Spot{Page: 3, X: 60, Y: 700, MaxWidth: 120, MaxHeight: 35}},
			{Source: SignFamily, Spot: signature.Spot{Page: 3, X: 320, Y: 700, MaxWidth: 120, MaxHeight: 35}},
			{Source: SignBroker, Spot: signature.Spot{Page: 4, X: 60, Y: 722, MaxWidth: 120, MaxHeight: 35}},
		},
	}
}
