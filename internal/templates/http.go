package templates

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/pdf"
)

// HTTPSource fetches templates from a static asset server. Fetches are
// idempotent GETs and are retried a bounded number of times.
type HTTPSource struct {
	httpClient *resty.Client
	validator  *pdf.Validator
	logger     *zap.Logger
}

// NewHTTPSource creates a source below baseURL. Responses larger than
// maxFileSize are refused while they are read.
func NewHTTPSource(baseURL string, maxFileSize int64, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	validator := pdf.NewValidator(maxFileSize)
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetResponseBodyLimit(int(validator.MaxFileSize())).
		SetHeader("Accept", "application/pdf").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, resty.ErrResponseBodyTooLarge)
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	return &HTTPSource{
		httpClient: client,
		validator:  validator,
		logger:     logger,
	}
}

// Template downloads and validates the named template.
func (s *HTTPSource) Template(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("template name cannot be empty")
	}

	resp, err := s.httpClient.R().
		SetContext(ctx).
		Get("/" + url.PathEscape(name))
	if err != nil {
		s.logger.Error("Template download failed",
			zap.String("template", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download template %s: %w", name, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.IsError():
		s.logger.Error("Template server returned error",
			zap.String("template", name),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("template server returned %d for %s", resp.StatusCode(), name)
	}

	data := resp.Body()
	if err := s.validator.Validate(data); err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	s.logger.Debug("Template downloaded",
		zap.String("template", name),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}
