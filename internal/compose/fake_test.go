package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/insurer"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

type placedImage struct {
	Page  int
	X, Y  float64
	Scale float64
}

// fakeDoc records what the composer writes.
type fakeDoc struct {
	fields   []form.Field
	height   float64
	Text     map[string]string `json:"text"`
	Checks   map[string]bool   `json:"checks"`
	Radios   map[string]string `json:"radios"`
	Images   []placedImage     `json:"images"`
	writeErr error
}

func (d *fakeDoc) Fields() []form.Field { return d.fields }

func (d *fakeDoc) SetText(name, value string) error {
	d.Text[name] = value
	return nil
}

func (d *fakeDoc) SetCheckbox(name string, checked bool) error {
	d.Checks[name] = checked
	return nil
}

func (d *fakeDoc) SelectRadio(group, option string) error {
	d.Radios[group] = option
	return nil
}

func (d *fakeDoc) PageSize(page int) (float64, float64, error) {
	if page < 1 || page > 4 {
		return 0, 0, fmt.Errorf("page %d out of range", page)
	}
	return 595, d.height, nil
}

func (d *fakeDoc) AddImage(page int, img *signature.Image, x, y, scale float64) error {
	d.Images = append(d.Images, placedImage{Page: page, X: x, Y: y, Scale: scale})
	return nil
}

func (d *fakeDoc) Write(w io.Writer) error {
	if d.writeErr != nil {
		return d.writeErr
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// fakeOpener hands out a fresh fakeDoc per call.
type fakeOpener struct {
	fields   []form.Field
	docs     []*fakeDoc
	err      error
	writeErr error
	onOpen   func(n int)
}

func (o *fakeOpener) open(template []byte) (Document, error) {
	if o.err != nil {
		return nil, o.err
	}
	doc := &fakeDoc{
		fields:   o.fields,
		height:   842,
		Text:     map[string]string{},
		Checks:   map[string]bool{},
		Radios:   map[string]string{},
		writeErr: o.writeErr,
	}
	o.docs = append(o.docs, doc)
	if o.onOpen != nil {
		o.onOpen(len(o.docs))
	}
	return doc, nil
}

type fakeTemplates struct {
	err       error
	requested []string
}

func (t *fakeTemplates) Template(ctx context.Context, name string) ([]byte, error) {
	t.requested = append(t.requested, name)
	if t.err != nil {
		return nil, t.err
	}
	return []byte("%PDF-1.7 " + name), nil
}

var errNoTemplate = errors.New("template not found")

// inventory fabricates the fields of a template that matches d exactly.
func inventory(d *insurer.Descriptor) []form.Field {
	var fields []form.Field
	for _, b := range d.Bindings() {
		kind := form.KindText
		if isCheckbox(b.Path) {
			kind = form.KindCheckbox
		}
		fields = append(fields, form.Field{Name: b.Ref.Primary(), Kind: kind})
	}

	groups := []insurer.Choice{d.Header.MaritalStatus, d.Member.Sex, d.Member.PriorKind}
	for _, c := range d.Columns {
		groups = append(groups, c.Sex, c.Kinship, c.PriorKind)
	}
	for _, g := range groups {
		if g.Group != "" {
			fields = append(fields, form.Field{Name: g.Group, Kind: form.KindRadio})
		}
	}

	for _, prefix := range []string{d.Header.NamePrefix, d.Header.NumberPrefix} {
		if prefix == "" {
			continue
		}
		for page := 1; page <= 3; page++ {
			fields = append(fields, form.Field{Name: fmt.Sprintf("%s_S%d", prefix, page), Kind: form.KindText})
		}
	}
	return fields
}

func isCheckbox(path string) bool {
	for _, marker := range []string{
		".Boxes[", "Reason", "ContinuesInParallel", "SelfInsured", "RelatedToChildren",
		".Yes", ".No", "Tariffs[", "Consent.",
	} {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// staticTemplates serves the same template bytes for every name.
type staticTemplates []byte

func (t staticTemplates) Template(ctx context.Context, name string) ([]byte, error) {
	return t, nil
}

// blankTemplate is a real two page PDF without form fields.
func blankTemplate() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 595 842] >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
