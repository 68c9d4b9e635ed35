package mcp

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/compose"
	"github.com/a3tai/mcp-enrollment-pdf/internal/config"
	"github.com/a3tai/mcp-enrollment-pdf/internal/enrollment"
	"github.com/a3tai/mcp-enrollment-pdf/internal/extract"
	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/insurer"
	"github.com/a3tai/mcp-enrollment-pdf/internal/output"
	"github.com/a3tai/mcp-enrollment-pdf/internal/signature"
)

var today = time.Date(2026, time.January, 23, 9, 0, 0, 0, time.UTC)

type blankDoc struct{}

func (blankDoc) Fields() []form.Field { return nil }
func (blankDoc) SetText(string, string) error { return nil }
func (blankDoc) SetCheckbox(string, bool) error { return nil }
func (blankDoc) SelectRadio(string, string) error { return nil }
func (blankDoc) PageSize(int) (float64, float64, error) { return 595, 842, nil }
func (blankDoc) AddImage(int, *signature.Image, float64, float64, float64) error {
	return nil
}
func (blankDoc) Write(w io.Writer) error {
	_, err := w.Write([]byte("%PDF-blank"))
	return err
}

type memorySource map[string][]byte

func (m memorySource) Template(_ context.Context, name string) ([]byte, error) {
	if data, ok := m[name]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("no template %s", name)
}

type cityExtractor struct{}

func (cityExtractor) Apply(_ context.Context, rec applicant.Applicant, req extract.Request) (applicant.Applicant, error) {
	rec.City = req.Text
	return rec, nil
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	source := memorySource{}
	for _, d := range insurer.Default().All() {
		source[d.Template] = []byte("%PDF-" + d.ID)
	}
	composer := compose.New(source, nil,
		compose.WithOpener(func([]byte) (compose.Document, error) { return blankDoc{}, nil }),
		compose.WithClock(func() time.Time { return today }),
	)

	outDir := t.TempDir()
	sink, err := output.NewDirSink(outDir, nil)
	require.NoError(t, err)

	service, err := enrollment.NewService(insurer.Default(), source, composer, nil,
		enrollment.WithSink(sink),
		enrollment.WithExtractor(cityExtractor{}),
		enrollment.WithInspector(func([]byte) (*enrollment.Inventory, error) {
			return &enrollment.Inventory{
				Fields: []form.Field{{Name: "Telefon", Kind: form.KindText, Pages: []int{1}}},
				Pages:  2,
			}, nil
		}),
		enrollment.WithClock(func() time.Time { return today }),
	)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.ServerName = "test-server"
	s, err := NewServer(cfg, service, zap.NewNop())
	require.NoError(t, err)
	return s, outDir
}

func call(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// Helper function to extract text from a CallToolResult
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}
	return ""
}

func TestNewServer(t *testing.T) {
	_, err := NewServer(config.DefaultConfig(), nil, nil)
	assert.Error(t, err)

	s, _ := newTestServer(t)
	assert.NotNil(t, s.mcpServer)
	assert.NotNil(t, s.service)
}

func TestHandleListTemplates(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleListTemplates(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	text := extractTextFromResult(result)
	assert.Contains(t, text, "Available templates (3)")
	assert.Contains(t, text, "dak-familie")
	assert.NotContains(t, text, "hm-zusatz")

	result, err = s.handleListTemplates(context.Background(), call(map[string]any{"mode": "zusatz"}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "hm-zusatz")
}

func TestHandleTemplateFields(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleTemplateFields(context.Background(), call(map[string]any{"id": "dak-familie"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	text := extractTextFromResult(result)
	assert.Contains(t, text, "2 pages, 1 fields")
	assert.Contains(t, text, "Telefon")
	assert.Contains(t, text, "Unresolved mapping references")

	result, err = s.handleTemplateFields(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleTemplateFields(context.Background(), call(map[string]any{"id": "nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "unknown template")
}

func TestHandleNewRecord(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleNewRecord(context.Background(), call(nil))
	require.NoError(t, err)

	rec, err := applicant.Decode([]byte(extractTextFromResult(result)))
	require.NoError(t, err)
	assert.Equal(t, applicant.New(today), rec)
}

func TestHandleExport(t *testing.T) {
	s, outDir := newTestServer(t)
	record := `{"mitglied":{"name":"Muster","vorname":"Max"},"kinder":[{"vorname":"A"},{"vorname":"B"},{"vorname":"C"}]}`

	result, err := s.handleExport(context.Background(), call(map[string]any{"id": "tk-familie", "record": record}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	text := extractTextFromResult(result)
	assert.Contains(t, text, "2 document(s)")
	assert.Contains(t, text, "_Teil2.pdf")
	assert.Contains(t, text, outDir)
	assert.Contains(t, text, "skipped")
}

func TestHandleExportAcceptsObjectRecord(t *testing.T) {
	s, outDir := newTestServer(t)

	result, err := s.handleExport(context.Background(), call(map[string]any{
		"id":     "dak-familie",
		"record": map[string]any{"mitglied": map[string]any{"name": "Muster"}},
		"save":   false,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))
	assert.Contains(t, extractTextFromResult(result), "1 document(s)")
	assert.NotContains(t, extractTextFromResult(result), outDir)
}

func TestHandleExportErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []map[string]any{
		{"record": "{}"},
		{"id": "dak-familie"},
		{"id": "dak-familie", "record": "{not json"},
		{"id": "nope", "record": "{}"},
	}
	for _, args := range tests {
		result, err := s.handleExport(context.Background(), call(args))
		require.NoError(t, err)
		assert.True(t, result.IsError, "%v", args)
	}
}

func TestHandleMergeRecord(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleMergeRecord(context.Background(), call(map[string]any{
		"record":  `{"ort":"Berlin","plz":"10115"}`,
		"payload": `{"ort":"Hamburg"}`,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var rec applicant.Applicant
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &rec))
	assert.Equal(t, "Hamburg", rec.City)
	assert.Equal(t, "10115", rec.PostalCode)

	result, err = s.handleMergeRecord(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleMergeRecord(context.Background(), call(map[string]any{"payload": "[1,2]"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleExtract(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleExtract(context.Background(), call(map[string]any{"text": "Kiel"}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var rec applicant.Applicant
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &rec))
	assert.Equal(t, "Kiel", rec.City)
	assert.Equal(t, applicant.New(today).Date, rec.Date)
}
