// Package compose turns one applicant record into the filled documents of a
// template descriptor.
package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/insurer"
	"github.com/a3tai/mcp-enrollment-pdf/internal/pdf"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

// ErrUnknownTemplate is returned when no descriptor has the requested id.
var ErrUnknownTemplate = errors.New("unknown template")

// Document is an opened template copy.
type Document interface {
	form.Target
	signature.Stamper
	Write(w io.Writer) error
}

// Opener parses template bytes into a fresh Document.
type Opener func(template []byte) (Document, error)

// Templates fetches template bytes by file name.
type Templates interface {
	Template(ctx context.Context, name string) ([]byte, error)
}

// File is one generated document.
type File struct {
	Name    string      `json:"name"`
	Part    int         `json:"part"`
	Data    []byte      `json:"-"`
	Skipped []form.Miss `json:"skipped,omitempty"`
}

// Result is the outcome of one export.
type Result struct {
	ID       string `json:"id"`
	Template string `json:"template"`
	Files    []File `json:"files"`
}

// Composer fills templates. It holds no per-export state and can serve
// concurrent exports; the documents of one export are built sequentially.
type Composer struct {
	templates Templates
	open      Opener
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithOpener replaces the pdfcpu-backed document opener.
func WithOpener(open Opener) Option {
	return func(c *Composer) { c.open = open }
}

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// New creates a Composer reading templates from t.
func New(t Templates, logger *zap.Logger, opts ...Option) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Composer{
		templates: t,
		open:      openPDF,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func openPDF(template []byte) (Document, error) {
	doc, err := pdf.Open(template)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Export fills d with rec. The record is not modified. A template that cannot
// be fetched or parsed aborts the export; missing fields and broken
// signatures only cost the affected value and are reported per file.
// Cancellation is checked between documents.
func (c *Composer) Export(ctx context.Context, d *insurer.Descriptor, rec applicant.Applicant) (*Result, error) {
	rec = rec.Clone()
	today := c.now()
	id := uuid.NewString()
	logger := c.logger.With(
		zap.String("export_id", id),
		zap.String("template", d.ID),
	)

	template, err := c.templates.Template(ctx, d.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", d.Template, err)
	}

	parts := d.DocumentCount(len(rec.Children))
	logger.Info("export started",
		zap.Int("children", len(rec.Children)),
		zap.Bool("spouse", rec.HasSpouse()),
		zap.Int("documents", parts),
	)

	result := &Result{ID: id, Template: d.ID, Files: make([]File, 0, parts)}
	for i := 0; i < parts; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("export cancelled", zap.Int("document", i+1), zap.Error(err))
			return nil, err
		}

		file, err := c.compose(d, &rec, template, i, parts, today, logger.With(zap.Int("document", i+1)))
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, file)

		logger.Info("document written",
			zap.String("file", file.Name),
			zap.Int("bytes", len(file.Data)),
			zap.Int("skipped", len(file.Skipped)),
		)
	}

	logger.Info("export finished", zap.Int("documents", len(result.Files)))
	return result, nil
}

// compose builds document i of parts from a fresh copy of template.
func (c *Composer) compose(d *insurer.Descriptor, rec *applicant.Applicant, template []byte, i, parts int, today time.Time, logger *zap.Logger) (File, error) {
	doc, err := c.open(template)
	if err != nil {
		return File{}, fmt.Errorf("failed to open template %s: %w", d.Template, err)
	}

	lo, hi := d.Window(i, len(rec.Children))
	w := &writer{
		d:      d,
		rec:    rec,
		form:   form.New(doc, logger),
		dates:  rec.DerivedDates(today),
		today:  today,
		window: window{lo: lo, hi: hi},
	}
	w.header()
	w.member()
	w.spouse()
	w.children()
	w.spousePage()
	w.pkg()

	for _, s := range d.Signatures {
		signature.Embed(doc, w.signatureOf(s.Source), s.Spot, d.Coordinates, logger.With(zap.Stringer("signature", s.Source)))
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		if !pdf.IsRecoverable(err) {
			return File{}, fmt.Errorf("failed to write document %d: %w", i+1, err)
		}
		logger.Warn("signature skipped", zap.Error(err))
	}

	return File{
		Name:    d.Filename(rec.Member, today, i+1, parts),
		Part:    i + 1,
		Data:    buf.Bytes(),
		Skipped: w.form.Misses(),
	}, nil
}
