package pdf

import (
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
)

// fieldInfo is a terminal AcroForm field as seen by the filler.
type fieldInfo struct {
	form.Field
	id string // object number, used by pdfcpu to address the field
}

// inventory walks the AcroForm field tree of ctx and returns every terminal
// field with its fully qualified name.
func inventory(ctx *model.Context) ([]fieldInfo, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	w := &walker{ctx: ctx, pages: widgetPages(ctx)}
	for i, fieldRef := range fieldsArray {
		w.walk(fieldRef, "", inherited{}, i)
	}

	sort.SliceStable(w.fields, func(i, j int) bool { return w.fields[i].Name < w.fields[j].Name })
	return w.fields, nil
}

// inherited carries the attributes a field may take from its ancestors.
type inherited struct {
	fieldType string
	flags     int
}

type walker struct {
	ctx    *model.Context
	pages  map[int]int // widget object number -> page number
	fields []fieldInfo
}

func (w *walker) walk(fieldObj types.Object, parentName string, inh inherited, index int) {
	fieldDict, err := w.ctx.DereferenceDict(fieldObj)
	if err != nil || fieldDict == nil {
		return
	}

	name := parentName
	if nameObj, found := fieldDict.Find("T"); found {
		if partial, err := w.ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && partial != "" {
			if name != "" {
				name += "."
			}
			name += partial
		}
	}
	if name == "" {
		name = fmt.Sprintf("field_%d", index)
	}

	if ftObj, found := fieldDict.Find("FT"); found {
		if ft, err := w.ctx.DereferenceName(ftObj, model.V10, nil); err == nil {
			inh.fieldType = string(ft)
		}
	}
	if flagsObj, found := fieldDict.Find("Ff"); found {
		if flags, err := w.ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
			inh.flags = int(*flags)
		}
	}

	kids := w.kids(fieldDict)
	if len(kids) > 0 && w.hasNamedKid(kids) {
		for i, kid := range kids {
			w.walk(kid, name, inh, i)
		}
		return
	}

	info := fieldInfo{
		Field: form.Field{
			Name: name,
			Kind: kindOf(inh),
		},
		id: objectID(fieldObj),
	}

	widgets := kids
	if len(widgets) == 0 {
		widgets = []types.Object{fieldObj}
	}
	info.Pages = w.widgetPageNumbers(widgets)
	if info.Kind == form.KindRadio || info.Kind == form.KindCheckbox {
		info.Options = w.onStates(widgets)
	}

	w.fields = append(w.fields, info)
}

func (w *walker) kids(fieldDict types.Dict) []types.Object {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return nil
	}
	kidsArray, err := w.ctx.DereferenceArray(kidsObj)
	if err != nil {
		return nil
	}
	return kidsArray
}

// hasNamedKid distinguishes child fields from plain widget annotations.
func (w *walker) hasNamedKid(kids []types.Object) bool {
	for _, kid := range kids {
		d, err := w.ctx.DereferenceDict(kid)
		if err != nil || d == nil {
			continue
		}
		if _, found := d.Find("T"); found {
			return true
		}
	}
	return false
}

func (w *walker) widgetPageNumbers(widgets []types.Object) []int {
	seen := make(map[int]bool)
	var pages []int
	for _, widget := range widgets {
		ir, ok := widget.(types.IndirectRef)
		if !ok {
			continue
		}
		if p, ok := w.pages[ir.ObjectNumber.Value()]; ok && !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	sort.Ints(pages)
	return pages
}

// onStates returns the appearance state names other than Off, which are the
// export values of checkboxes and radio options.
func (w *walker) onStates(widgets []types.Object) []string {
	seen := make(map[string]bool)
	var states []string
	for _, widget := range widgets {
		d, err := w.ctx.DereferenceDict(widget)
		if err != nil || d == nil {
			continue
		}
		apObj, found := d.Find("AP")
		if !found {
			continue
		}
		ap, err := w.ctx.DereferenceDict(apObj)
		if err != nil || ap == nil {
			continue
		}
		nObj, found := ap.Find("N")
		if !found {
			continue
		}
		n, err := w.ctx.DereferenceDict(nObj)
		if err != nil || n == nil {
			continue
		}
		for state := range n {
			if state == "Off" || seen[state] {
				continue
			}
			seen[state] = true
			states = append(states, state)
		}
	}
	sort.Strings(states)
	return states
}

// widgetPages maps every annotation object number to its page.
func widgetPages(ctx *model.Context) map[int]int {
	pages := make(map[int]int)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		if err != nil || pageDict == nil {
			continue
		}
		annotsObj, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		annots, err := ctx.DereferenceArray(annotsObj)
		if err != nil {
			continue
		}
		for _, a := range annots {
			if ir, ok := a.(types.IndirectRef); ok {
				pages[ir.ObjectNumber.Value()] = pageNr
			}
		}
	}
	return pages
}

// kindOf determines the field type from the FT entry and field flags.
func kindOf(inh inherited) form.Kind {
	switch inh.fieldType {
	case "Btn":
		if inh.flags&(1<<15) != 0 { // Bit 16: Radio
			return form.KindRadio
		}
		if inh.flags&(1<<16) != 0 { // Bit 17: Pushbutton
			return form.KindButton
		}
		return form.KindCheckbox
	case "Tx":
		return form.KindText
	case "Ch":
		return form.KindChoice
	case "Sig":
		return form.KindSignature
	default:
		return form.KindUnknown
	}
}

func objectID(obj types.Object) string {
	if ir, ok := obj.(types.IndirectRef); ok {
		return fmt.Sprintf("%d", ir.ObjectNumber.Value())
	}
	return ""
}
