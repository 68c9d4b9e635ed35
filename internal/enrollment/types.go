package enrollment

import (
	"github.com/goccy/go-json"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/compose"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/insurer"
)

// TemplateInfo summarizes one template descriptor
type TemplateInfo struct {
	ID                  string                `json:"id"`
	Title               string                `json:"title"`
	Insurer             string                `json:"insurer"`
	DocType             string                `json:"doc_type"`
	Template            string                `json:"template"`
	Mode                applicant.ProductMode `json:"mode"`
	ChildrenPerDocument int                   `json:"children_per_document"`
}

// Request Types

// ListTemplatesRequest lists the templates for a product mode; an empty
// mode means family insurance.
type ListTemplatesRequest struct {
	Mode applicant.ProductMode `json:"mode"`
}

// TemplateFieldsRequest asks for the field inventory of a template
type TemplateFieldsRequest struct {
	ID string `json:"id"`
}

// ExportRequest fills a template with a record
type ExportRequest struct {
	ID     string              `json:"id"`
	Record applicant.Applicant `json:"record"`
	Save   bool                `json:"save"`
}

// MergeRequest applies a partial record on top of a record
type MergeRequest struct {
	Record  *applicant.Applicant `json:"record,omitempty"`
	Payload json.RawMessage      `json:"payload"`
}

// ExtractRequest runs the extraction service and merges its answer
type ExtractRequest struct {
	Record *applicant.Applicant `json:"record,omitempty"`
	Text   string               `json:"text,omitempty"`
	Image  string               `json:"image,omitempty"`
}

// Response Types

// ListTemplatesResult lists template descriptors
type ListTemplatesResult struct {
	Templates []TemplateInfo `json:"templates"`
}

// TemplateFieldsResult is the inventory of a template and the descriptor
// references that resolve to none of its fields.
type TemplateFieldsResult struct {
	ID         string               `json:"id"`
	Template   string               `json:"template"`
	Pages      int                  `json:"pages"`
	Fields     []form.Field         `json:"fields"`
	Unresolved []insurer.Unresolved `json:"unresolved"`
}

// ExportResult is the outcome of an export, with the saved paths when the
// documents were written to the output directory.
type ExportResult struct {
	*compose.Result
	Paths []string `json:"paths,omitempty"`
}

// RecordResult carries a record after a merge or extraction
type RecordResult struct {
	Record applicant.Applicant `json:"record"`
}
