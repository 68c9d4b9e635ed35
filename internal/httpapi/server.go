// Package httpapi serves the enrollment operations over HTTP with fasthttp.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
	"github.com/a3tai/mcp-enrollment-pdf/internal/compose"
	"github.com/a3tai/mcp-enrollment-pdf/internal/enrollment"
	"github.com/a3tai/mcp-enrollment-pdf/internal/extract"
)

const (
	// MaxRequestBodySize bounds uploads; extraction requests carry images.
	MaxRequestBodySize = 20 * 1024 * 1024
	// RequestTimeout bounds one export or extraction.
	RequestTimeout = 2 * time.Minute
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Server routes HTTP requests to the enrollment service.
type Server struct {
	service *enrollment.Service
	logger  *zap.Logger
	base    context.Context
}

// NewServer creates an HTTP front end for service.
func NewServer(service *enrollment.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{service: service, logger: logger, base: context.Background()}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.base = ctx
	srv := &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "enrollment-pdf",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       RequestTimeout,
		MaxRequestBodySize: MaxRequestBodySize,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("HTTP server shutting down")
		return srv.Shutdown()
	}
}

// Handler is the request router.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	method := string(ctx.Method())
	parts := strings.Split(strings.Trim(string(ctx.Path()), "/"), "/")

	switch {
	case method == fasthttp.MethodGet && len(parts) == 1 && parts[0] == "health":
		s.writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case method == fasthttp.MethodGet && len(parts) == 1 && parts[0] == "templates":
		s.handleListTemplates(ctx)
	case method == fasthttp.MethodGet && len(parts) == 3 && parts[0] == "templates" && parts[2] == "fields":
		s.handleTemplateFields(ctx, parts[1])
	case method == fasthttp.MethodPost && len(parts) == 2 && parts[0] == "export":
		s.handleExport(ctx, parts[1])
	case method == fasthttp.MethodGet && len(parts) == 2 && parts[0] == "records" && parts[1] == "new":
		s.writeJSON(ctx, fasthttp.StatusOK, s.service.NewRecord())
	case method == fasthttp.MethodPost && len(parts) == 2 && parts[0] == "records" && parts[1] == "merge":
		s.handleMerge(ctx)
	case method == fasthttp.MethodPost && len(parts) == 2 && parts[0] == "records" && parts[1] == "extract":
		s.handleExtract(ctx)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "not found")
	}

	s.logger.Debug("request handled",
		zap.String("method", method),
		zap.ByteString("path", ctx.Path()),
		zap.Int("status", ctx.Response.StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)
}

func (s *Server) handleListTemplates(ctx *fasthttp.RequestCtx) {
	mode := applicant.ProductMode(ctx.QueryArgs().Peek("mode"))
	s.writeJSON(ctx, fasthttp.StatusOK, s.service.ListTemplates(enrollment.ListTemplatesRequest{Mode: mode}))
}

func (s *Server) handleTemplateFields(ctx *fasthttp.RequestCtx, id string) {
	reqCtx, cancel := context.WithTimeout(s.base, RequestTimeout)
	defer cancel()

	result, err := s.service.TemplateFields(reqCtx, enrollment.TemplateFieldsRequest{ID: id})
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, result)
}

// handleExport answers with the PDF itself, or a zip when the export needed
// several documents. ?save=true also writes the files to the output
// directory.
func (s *Server) handleExport(ctx *fasthttp.RequestCtx, id string) {
	rec, err := applicant.Decode(ctx.PostBody())
	if err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	reqCtx, cancel := context.WithTimeout(s.base, RequestTimeout)
	defer cancel()

	bundle, result, err := s.service.Bundle(reqCtx, enrollment.ExportRequest{
		ID:     id,
		Record: rec,
		Save:   ctx.QueryArgs().GetBool("save"),
	})
	if err != nil {
		s.fail(ctx, err)
		return
	}

	skipped := 0
	for _, f := range result.Files {
		skipped += len(f.Skipped)
	}

	ctx.Response.Header.Set("X-Export-Id", result.ID)
	ctx.Response.Header.Set("X-Documents", strconv.Itoa(len(result.Files)))
	ctx.Response.Header.Set("X-Skipped-Fields", strconv.Itoa(skipped))
	ctx.Response.Header.Set("Content-Disposition", contentDisposition(bundle.Name))
	ctx.SetContentType(bundle.ContentType)
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(bundle.Data)
}

func (s *Server) handleMerge(ctx *fasthttp.RequestCtx) {
	var req enrollment.MergeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	result, err := s.service.MergeRecord(req)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, result)
}

func (s *Server) handleExtract(ctx *fasthttp.RequestCtx) {
	var req enrollment.ExtractRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	reqCtx, cancel := context.WithTimeout(s.base, RequestTimeout)
	defer cancel()

	result, err := s.service.Extract(reqCtx, req)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, result)
}

// fail maps service errors to status codes.
func (s *Server) fail(ctx *fasthttp.RequestCtx, err error) {
	status := fasthttp.StatusInternalServerError
	switch {
	case errors.Is(err, compose.ErrUnknownTemplate):
		status = fasthttp.StatusNotFound
	case errors.Is(err, applicant.ErrNotObject), errors.Is(err, applicant.ErrInvalidRecord),
		errors.Is(err, enrollment.ErrNoOutput), errors.Is(err, extract.ErrNoInput):
		status = fasthttp.StatusBadRequest
	case errors.Is(err, extract.ErrNotConfigured):
		status = fasthttp.StatusNotImplemented
	}
	if status == fasthttp.StatusInternalServerError {
		s.logger.Error("request failed", zap.ByteString("path", ctx.Path()), zap.Error(err))
	}
	s.writeError(ctx, status, err.Error())
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func contentDisposition(name string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > 0x7e || r < 0x20 || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, url.PathEscape(name))
}
