package insurer

import (
	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
)

// Helpers shared by the descriptor tables.

func sexBoxes(male, female, unspecified, diverse form.Ref) Choice {
	return Choice{Boxes: map[string]form.Ref{
		string(applicant.SexMale):        male,
		string(applicant.SexFemale):      female,
		string(applicant.SexUnspecified): unspecified,
		string(applicant.SexDiverse):     diverse,
	}}
}

func kinshipBoxes(biological, step, grandchild, foster form.Ref) Choice {
	return Choice{Boxes: map[string]form.Ref{
		string(applicant.KinshipBiological): biological,
		string(applicant.KinshipStep):       step,
		string(applicant.KinshipGrandchild): grandchild,
		string(applicant.KinshipFoster):     foster,
	}}
}

func priorBoxes(own, family, notStatutory form.Ref) Choice {
	return Choice{Boxes: map[string]form.Ref{
		string(applicant.PriorOwnMembership): own,
		string(applicant.PriorFamilyCovered): family,
		string(applicant.PriorNotStatutory):  notStatutory,
	}}
}

func maritalBoxes(single, married, separated, divorced, widowed form.Ref) Choice {
	return Choice{Boxes: map[string]form.Ref{
		string(applicant.MaritalSingle):    single,
		string(applicant.MaritalMarried):   married,
		string(applicant.MaritalSeparated): separated,
		string(applicant.MaritalDivorced):  divorced,
		string(applicant.MaritalWidowed):   widowed,
	}}
}

// digitRefs names the eight per-digit fields prefix+T1 ... prefix+J4.
func digitRefs(prefix string) []form.Ref {
	suffixes := []string{"T1", "T2", "M1", "M2", "J1", "J2", "J3", "J4"}
	refs := make([]form.Ref, len(suffixes))
	for i, s := range suffixes {
		refs[i] = form.Name(prefix + s)
	}
	return refs
}

func text(id string) DateField {
	return DateField{Text: form.Name(id)}
}
