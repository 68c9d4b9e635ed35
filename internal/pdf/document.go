// Package pdf loads AcroForm templates, records field values and signature
// stamps against them, and renders the filled document with pdfcpu.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

// Document is a template opened for filling. Values are collected in memory
// and applied to the template bytes by Write.
type Document struct {
	template []byte
	conf     *model.Configuration
	fields   []fieldInfo
	byName   map[string]int
	dims     []types.Dim

	text   map[string]string
	checks map[string]bool
	radios map[string]string
	stamps []stamp
}

type stamp struct {
	page  int
	img   *signature.Image
	x, y  float64
	scale float64
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Open parses template and inventories its form fields.
func Open(template []byte) (*Document, error) {
	conf := newConfiguration()

	ctx, err := api.ReadContext(bytes.NewReader(template), conf)
	if err != nil {
		return nil, newError(ErrorTypeTemplateUnreadable, "failed to read template", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, newError(ErrorTypeTemplateUnreadable, "failed to get page count", err)
	}

	fields, err := inventory(ctx)
	if err != nil {
		return nil, newError(ErrorTypeTemplateUnreadable, "failed to read form fields", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, newError(ErrorTypeTemplateUnreadable, "failed to read page sizes", err)
	}

	d := newDocument(fields, dims)
	d.template = template
	d.conf = conf
	return d, nil
}

func newDocument(fields []fieldInfo, dims []types.Dim) *Document {
	d := &Document{
		fields: fields,
		byName: make(map[string]int, len(fields)),
		dims:   dims,
		text:   make(map[string]string),
		checks: make(map[string]bool),
		radios: make(map[string]string),
	}
	for i, f := range fields {
		d.byName[f.Name] = i
	}
	return d
}

// Fields returns the template's terminal form fields.
func (d *Document) Fields() []form.Field {
	out := make([]form.Field, len(d.fields))
	for i, f := range d.fields {
		out[i] = f.Field
	}
	return out
}

// PageCount returns the number of pages in the template.
func (d *Document) PageCount() int {
	return len(d.dims)
}

func (d *Document) lookup(name string, kinds ...form.Kind) (fieldInfo, error) {
	i, ok := d.byName[name]
	if !ok {
		return fieldInfo{}, fieldError(ErrorTypeFieldMissing, name, "no such field")
	}
	f := d.fields[i]
	for _, k := range kinds {
		if f.Kind == k {
			return f, nil
		}
	}
	return fieldInfo{}, fieldError(ErrorTypeFieldType, name, "field is a "+f.Kind.String())
}

// SetText records a value for a text or choice field.
func (d *Document) SetText(name, value string) error {
	if _, err := d.lookup(name, form.KindText, form.KindChoice); err != nil {
		return err
	}
	d.text[name] = value
	return nil
}

// SetCheckbox records the state of a checkbox.
func (d *Document) SetCheckbox(name string, checked bool) error {
	if _, err := d.lookup(name, form.KindCheckbox); err != nil {
		return err
	}
	d.checks[name] = checked
	return nil
}

// SelectRadio records the selected option of a radio group.
func (d *Document) SelectRadio(group, option string) error {
	f, err := d.lookup(group, form.KindRadio)
	if err != nil {
		return err
	}
	if len(f.Options) > 0 && !contains(f.Options, option) {
		return fieldError(ErrorTypeFieldMissing, group, fmt.Sprintf("no option %q", option))
	}
	d.radios[group] = option
	return nil
}

// PageSize returns the media box size of a 1-based page in points.
func (d *Document) PageSize(page int) (float64, float64, error) {
	if page < 1 || page > len(d.dims) {
		return 0, 0, &Error{Type: ErrorTypePageOutOfRange, Message: "page out of range", Page: page}
	}
	dim := d.dims[page-1]
	return dim.Width, dim.Height, nil
}

// AddImage queues img to be drawn on page with its lower-left corner at x,y.
func (d *Document) AddImage(page int, img *signature.Image, x, y, scale float64) error {
	if page < 1 || page > len(d.dims) {
		return &Error{Type: ErrorTypePageOutOfRange, Message: "page out of range", Page: page}
	}
	if img == nil || len(img.Data) == 0 || scale <= 0 {
		return &Error{Type: ErrorTypeImageInvalid, Message: "empty image", Page: page}
	}
	d.stamps = append(d.stamps, stamp{page: page, img: img, x: x, y: y, scale: scale})
	return nil
}

// Write renders the filled document to w. Images that cannot be stamped are
// left out; the document is still written and the returned error only
// carries recoverable ImageInvalid errors.
func (d *Document) Write(w io.Writer) error {
	if d.template == nil {
		return newError(ErrorTypeWriteFailed, "document has no template", nil)
	}

	current := d.template

	plan, ok, err := d.fillPlan()
	if err != nil {
		return newError(ErrorTypeWriteFailed, "failed to encode form values", err)
	}
	if ok {
		var out bytes.Buffer
		if err := api.FillForm(bytes.NewReader(current), bytes.NewReader(plan), &out, d.conf); err != nil {
			return newError(ErrorTypeWriteFailed, "failed to fill form", err)
		}
		current = out.Bytes()
	}

	var dropped []error
	for _, s := range d.stamps {
		stamped, err := d.applyStamp(current, s)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		current = stamped
	}

	if _, err := w.Write(current); err != nil {
		return newError(ErrorTypeWriteFailed, "failed to write document", err)
	}
	return errors.Join(dropped...)
}

// applyStamp draws one queued image onto doc. A failure leaves doc untouched.
func (d *Document) applyStamp(doc []byte, s stamp) ([]byte, error) {
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(s.img.Data), stampDescription(s), true, false, types.POINTS)
	if err != nil {
		return nil, &Error{Type: ErrorTypeImageInvalid, Message: "failed to prepare image", Page: s.page, Err: err}
	}
	var out bytes.Buffer
	pages := []string{strconv.Itoa(s.page)}
	if err := api.AddWatermarks(bytes.NewReader(doc), &out, pages, wm, d.conf); err != nil {
		return nil, &Error{Type: ErrorTypeImageInvalid, Message: "failed to stamp image", Page: s.page, Err: err}
	}
	return out.Bytes(), nil
}

// stampDescription positions a stamp by its lower-left corner.
func stampDescription(s stamp) string {
	return fmt.Sprintf("position:bl, offset:%.2f %.2f, scalefactor:%.4f abs, rotation:0, opacity:1", s.x, s.y, s.scale)
}

// The JSON shape pdfcpu's form filler reads.
type (
	fillGroup struct {
		Forms []fillForm `json:"forms"`
	}
	fillForm struct {
		TextFields        []fillText  `json:"textfield,omitempty"`
		ComboBoxes        []fillText  `json:"combobox,omitempty"`
		CheckBoxes        []fillCheck `json:"checkbox,omitempty"`
		RadioButtonGroups []fillText  `json:"radiobuttongroup,omitempty"`
	}
	fillText struct {
		ID    string `json:"id,omitempty"`
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	fillCheck struct {
		ID    string `json:"id,omitempty"`
		Name  string `json:"name"`
		Value bool   `json:"value"`
	}
)

// fillPlan encodes the recorded values. ok is false when nothing was set.
func (d *Document) fillPlan() ([]byte, bool, error) {
	var f fillForm
	for _, name := range sortedKeys(d.text) {
		fi := d.fields[d.byName[name]]
		entry := fillText{ID: fi.id, Name: name, Value: d.text[name]}
		if fi.Kind == form.KindChoice {
			f.ComboBoxes = append(f.ComboBoxes, entry)
		} else {
			f.TextFields = append(f.TextFields, entry)
		}
	}
	for _, name := range sortedKeys(d.checks) {
		fi := d.fields[d.byName[name]]
		f.CheckBoxes = append(f.CheckBoxes, fillCheck{ID: fi.id, Name: name, Value: d.checks[name]})
	}
	for _, name := range sortedKeys(d.radios) {
		fi := d.fields[d.byName[name]]
		f.RadioButtonGroups = append(f.RadioButtonGroups, fillText{ID: fi.id, Name: name, Value: d.radios[name]})
	}

	if len(f.TextFields)+len(f.ComboBoxes)+len(f.CheckBoxes)+len(f.RadioButtonGroups) == 0 {
		return nil, false, nil
	}
	data, err := json.Marshal(fillGroup{Forms: []fillForm{f}})
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
