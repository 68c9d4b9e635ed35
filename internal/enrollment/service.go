// Package enrollment wires the template catalog, the composer and the
// collaborators behind the operations offered over MCP and HTTP.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/compose"
	"github.com/a3tai/mcp-enrollment-pdf/internal/extract"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/insurer"
	"github.com/a3tai/mcp-enrollment-pdf/internal/output"
	"github.com/a3tai/mcp-enrollment-pdf/internal/pdf"
	"github.com/a3tai/mcp-enrollment-pdf/internal/templates"
)

// ErrNoOutput is returned when documents should be saved but no output
// directory is configured.
var ErrNoOutput = errors.New("no output directory configured")

// Inventory is what a template offers to be filled.
type Inventory struct {
	Fields []form.Field
	Pages  int
}

// Inspector reads the field inventory of template bytes.
type Inspector func(template []byte) (*Inventory, error)

// Extractor merges extraction results into a record.
type Extractor interface {
	Apply(ctx context.Context, rec applicant.Applicant, req extract.Request) (applicant.Applicant, error)
}

// Sink stores the files of an export.
type Sink interface {
	Write(res *compose.Result) ([]string, error)
}

// Service handles enrollment operations by orchestrating the components
type Service struct {
	catalog   *insurer.Catalog
	templates templates.Source
	composer  *compose.Composer
	inspect   Inspector
	sink      Sink
	extractor Extractor
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSink enables saving exports.
func WithSink(sink Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithExtractor enables the extraction operation.
func WithExtractor(e Extractor) Option {
	return func(s *Service) { s.extractor = e }
}

// WithInspector replaces the pdfcpu-backed field inventory.
func WithInspector(i Inspector) Option {
	return func(s *Service) { s.inspect = i }
}

// WithClock sets the source of "today" for new records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a service. The composer must read from the same
// template source.
func NewService(catalog *insurer.Catalog, source templates.Source, composer *compose.Composer, logger *zap.Logger, opts ...Option) (*Service, error) {
	if catalog == nil || source == nil || composer == nil {
		return nil, fmt.Errorf("catalog, template source and composer are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		catalog:   catalog,
		templates: source,
		composer:  composer,
		inspect:   inspectPDF,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func inspectPDF(template []byte) (*Inventory, error) {
	doc, err := pdf.Open(template)
	if err != nil {
		return nil, err
	}
	return &Inventory{Fields: doc.Fields(), Pages: doc.PageCount()}, nil
}

// ListTemplates returns the descriptors whose sections apply to the mode.
func (s *Service) ListTemplates(req ListTemplatesRequest) *ListTemplatesResult {
	descriptors := s.catalog.ForMode(req.Mode)
	result := &ListTemplatesResult{Templates: make([]TemplateInfo, 0, len(descriptors))}
	for _, d := range descriptors {
		result.Templates = append(result.Templates, info(d))
	}
	return result
}

func info(d *insurer.Descriptor) TemplateInfo {
	return TemplateInfo{
		ID:                  d.ID,
		Title:               d.Title,
		Insurer:             d.InsurerTag,
		DocType:             d.DocType,
		Template:            d.Template,
		Mode:                d.Mode,
		ChildrenPerDocument: d.ChildrenPerDocument,
	}
}

// TemplateFields lists the fields of a template and checks the descriptor
// against them.
func (s *Service) TemplateFields(ctx context.Context, req TemplateFieldsRequest) (*TemplateFieldsResult, error) {
	d, err := s.descriptor(req.ID)
	if err != nil {
		return nil, err
	}

	data, err := s.templates.Template(ctx, d.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", d.Template, err)
	}
	inv, err := s.inspect(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", d.Template, err)
	}

	unresolved := insurer.Check(d, inv.Fields)
	if len(unresolved) > 0 {
		s.logger.Warn("descriptor references missing fields",
			zap.String("template", d.ID),
			zap.Int("unresolved", len(unresolved)),
		)
	}

	return &TemplateFieldsResult{
		ID:         d.ID,
		Template:   d.Template,
		Pages:      inv.Pages,
		Fields:     inv.Fields,
		Unresolved: unresolved,
	}, nil
}

// Export fills the template with the record and optionally saves the files.
func (s *Service) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	d, err := s.descriptor(req.ID)
	if err != nil {
		return nil, err
	}
	if req.Save && s.sink == nil {
		return nil, ErrNoOutput
	}

	res, err := s.composer.Export(ctx, d, req.Record)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{Result: res}
	if req.Save {
		paths, err := s.sink.Write(res)
		if err != nil {
			return nil, fmt.Errorf("failed to save export: %w", err)
		}
		result.Paths = paths
	}
	return result, nil
}

// Bundle exports and packs the files for a single download.
func (s *Service) Bundle(ctx context.Context, req ExportRequest) (*output.Bundle, *ExportResult, error) {
	result, err := s.Export(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	bundle, err := output.Pack(result.Result, s.now())
	if err != nil {
		return nil, nil, err
	}
	return bundle, result, nil
}

// NewRecord returns an empty record with today's defaults.
func (s *Service) NewRecord() applicant.Applicant {
	return applicant.New(s.now())
}

// MergeRecord applies a partial record. Without a base record a new one is
// started.
func (s *Service) MergeRecord(req MergeRequest) (*RecordResult, error) {
	rec := s.base(req.Record)
	merged, err := applicant.Merge(rec, req.Payload)
	if err != nil {
		return nil, err
	}
	return &RecordResult{Record: merged}, nil
}

// Extract sends text or an image to the extraction service and merges the
// answer into the record.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*RecordResult, error) {
	if s.extractor == nil {
		return nil, extract.ErrNotConfigured
	}
	rec := s.base(req.Record)
	merged, err := s.extractor.Apply(ctx, rec, extract.Request{Text: req.Text, Image: req.Image})
	if err != nil {
		return nil, err
	}
	return &RecordResult{Record: merged}, nil
}

func (s *Service) base(rec *applicant.Applicant) applicant.Applicant {
	if rec == nil {
		return s.NewRecord()
	}
	return rec.Clone()
}

func (s *Service) descriptor(id string) (*insurer.Descriptor, error) {
	if id == "" {
		return nil, fmt.Errorf("template id cannot be empty")
	}
	d, ok := s.catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", compose.ErrUnknownTemplate, id)
	}
	return d, nil
}
