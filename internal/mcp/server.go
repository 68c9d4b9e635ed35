package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/config"
	"github.com/a3tai/mcp-enrollment-pdf/internal/descriptions"
	"github.com/a3tai/mcp-enrollment-pdf/internal/enrollment"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *enrollment.Service
	mcpServer *server.MCPServer
	logger    *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *enrollment.Service, logger *zap.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("enrollment service cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	listTemplatesTool := mcp.NewTool(
		descriptions.ListTemplates,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ListTemplates)),
		mcp.WithString("mode",
			mcp.Description("Product mode: familienversicherung (default), zusatz or komplett"),
		),
	)
	s.mcpServer.AddTool(listTemplatesTool, s.handleListTemplates)

	templateFieldsTool := mcp.NewTool(
		descriptions.TemplateFields,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.TemplateFields)),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Template id, e.g. dak-familie"),
		),
	)
	s.mcpServer.AddTool(templateFieldsTool, s.handleTemplateFields)

	newRecordTool := mcp.NewTool(
		descriptions.NewRecord,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.NewRecord)),
	)
	s.mcpServer.AddTool(newRecordTool, s.handleNewRecord)

	exportTool := mcp.NewTool(
		descriptions.Export,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.Export)),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Template id, e.g. dak-familie"),
		),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("Applicant record as JSON"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Write the documents to the output directory (default true)"),
		),
	)
	s.mcpServer.AddTool(exportTool, s.handleExport)

	mergeTool := mcp.NewTool(
		descriptions.MergeRecord,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.MergeRecord)),
		mcp.WithString("payload",
			mcp.Required(),
			mcp.Description("Partial record as a JSON object"),
		),
		mcp.WithString("record",
			mcp.Description("Current record as JSON (a new record is started when empty)"),
		),
	)
	s.mcpServer.AddTool(mergeTool, s.handleMergeRecord)

	extractTool := mcp.NewTool(
		descriptions.Extract,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.Extract)),
		mcp.WithString("text",
			mcp.Description("Free text describing the applicant and family"),
		),
		mcp.WithString("image",
			mcp.Description("Image of a filled paper form as a data URL"),
		),
		mcp.WithString("record",
			mcp.Description("Current record as JSON (a new record is started when empty)"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtract)
}

// Handler functions
func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := applicant.ProductMode(request.GetString("mode", ""))
	result := s.service.ListTemplates(enrollment.ListTemplatesRequest{Mode: mode})
	return mcp.NewToolResultText(s.formatListTemplatesResult(result)), nil
}

func (s *Server) handleTemplateFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.TemplateFields(ctx, enrollment.TemplateFieldsRequest{ID: id})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatTemplateFieldsResult(result)), nil
}

func (s *Server) handleNewRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.service.NewRecord())
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := recordArgument(request, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Export(ctx, enrollment.ExportRequest{
		ID:     id,
		Record: *rec,
		Save:   request.GetBool("save", true),
	})
	if err != nil {
		s.logger.Error("export failed", zap.String("template", id), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatExportResult(result)), nil
}

func (s *Server) handleMergeRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := rawArgument(request, "payload")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if payload == nil {
		return mcp.NewToolResultError(`required argument "payload" not found`), nil
	}
	rec, err := recordArgument(request, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.MergeRecord(enrollment.MergeRequest{Record: rec, Payload: payload})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result.Record)
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := recordArgument(request, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Extract(ctx, enrollment.ExtractRequest{
		Record: rec,
		Text:   request.GetString("text", ""),
		Image:  request.GetString("image", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result.Record)
}

// rawArgument returns an argument as JSON bytes. Clients send records
// either as a JSON string or as an object; both are accepted.
func rawArgument(request mcp.CallToolRequest, key string) ([]byte, error) {
	value, ok := request.GetArguments()[key]
	if !ok || value == nil {
		return nil, nil
	}
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return []byte(s), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s argument: %w", key, err)
	}
	return data, nil
}

func recordArgument(request mcp.CallToolRequest, required bool) (*applicant.Applicant, error) {
	data, err := rawArgument(request, "record")
	if err != nil {
		return nil, err
	}
	if data == nil {
		if required {
			return nil, fmt.Errorf(`required argument "record" not found`)
		}
		return nil, nil
	}
	rec, err := applicant.Decode(data)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Formatting functions
func (s *Server) formatListTemplatesResult(result *enrollment.ListTemplatesResult) string {
	if len(result.Templates) == 0 {
		return "No templates available for this mode\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available templates (%d):\n", len(result.Templates))
	for i, t := range result.Templates {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, t.ID, t.Title)
		fmt.Fprintf(&b, "   Template: %s, Mode: %s, Children per document: %d\n", t.Template, t.Mode, t.ChildrenPerDocument)
	}
	return b.String()
}

func (s *Server) formatTemplateFieldsResult(result *enrollment.TemplateFieldsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Template %s (%s): %d pages, %d fields\n", result.ID, result.Template, result.Pages, len(result.Fields))
	for _, f := range result.Fields {
		fmt.Fprintf(&b, "  %-40s %-9s pages %v", f.Name, f.Kind, f.Pages)
		if len(f.Options) > 0 {
			fmt.Fprintf(&b, " options %s", strings.Join(f.Options, "|"))
		}
		b.WriteString("\n")
	}

	if len(result.Unresolved) == 0 {
		b.WriteString("\nAll mapping references resolve.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\nUnresolved mapping references (%d):\n", len(result.Unresolved))
	for _, u := range result.Unresolved {
		fmt.Fprintf(&b, "  %s -> %s\n", u.Path, u.Want)
	}
	return b.String()
}

func (s *Server) formatExportResult(result *enrollment.ExportResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Export %s of %s: %d document(s)\n", result.ID, result.Template, len(result.Files))
	for i, f := range result.Files {
		fmt.Fprintf(&b, "%d. %s (%d bytes)", f.Part, f.Name, len(f.Data))
		if i < len(result.Paths) {
			fmt.Fprintf(&b, " -> %s", result.Paths[i])
		}
		b.WriteString("\n")
		for _, m := range f.Skipped {
			fmt.Fprintf(&b, "   skipped %s: %s\n", m.Field, m.Reason)
		}
	}
	return b.String()
}

// Run serves MCP over standard I/O until the client disconnects
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting enrollment MCP server in stdio mode",
		zap.String("templates", s.config.TemplateDirectory),
		zap.String("output", s.config.OutputDirectory),
	)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
