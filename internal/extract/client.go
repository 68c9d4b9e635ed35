// Package extract talks to the document extraction service, which reads
// free text or a photographed form and answers with a partial applicant
// record.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/applicant"
)

var (
	// ErrNotConfigured is returned when no extraction service URL is set.
	ErrNotConfigured = errors.New("extraction service not configured")
	// ErrNoInput is returned when a request carries neither text nor an image.
	ErrNoInput = errors.New("extraction needs text or an image")
)

// Request is the input handed to the extraction service. At least one of
// Text and Image must be set; Image is a data URL.
type Request struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// Client is the extraction service client.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{httpClient: client, logger: logger}
}

// Extract sends req and returns the partial record as raw JSON. The payload
// is checked to be a JSON object but not interpreted further.
func (c *Client) Extract(ctx context.Context, req Request) (json.RawMessage, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	if req.Text == "" && req.Image == "" {
		return nil, ErrNoInput
	}

	c.logger.Info("Calling extraction service",
		zap.Int("text_length", len(req.Text)),
		zap.Bool("image", req.Image != ""),
	)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post("/extract")
	if err != nil {
		c.logger.Error("Extraction request failed", zap.Error(err))
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Extraction service returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 200)),
		)
		return nil, fmt.Errorf("extraction service returned %d", resp.StatusCode())
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		return nil, fmt.Errorf("extraction service response: %w", applicant.ErrNotObject)
	}
	return json.RawMessage(body), nil
}

// Apply extracts from req and merges the result into rec. rec is not
// modified; on any failure it is returned unchanged together with the error.
func (c *Client) Apply(ctx context.Context, rec applicant.Applicant, req Request) (applicant.Applicant, error) {
	payload, err := c.Extract(ctx, req)
	if err != nil {
		return rec, err
	}
	merged, err := applicant.Merge(rec, payload)
	if err != nil {
		return rec, fmt.Errorf("failed to merge extracted record: %w", err)
	}
	return merged, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
