package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/redlinehq/redline/internal/core/workflow"
)

const defaultTimeout = 30 * time.Second

// Client is the HTTP implementation of ContentSource and FeedbackSink.
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ ContentSource = (*Client)(nil)
	_ FeedbackSink  = (*Client)(nil)
)

// NewClient creates a backend client for the given base URL. A zero timeout
// falls back to the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the backend answers at all. Any HTTP response counts;
// only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "redline")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reach backend: %w", err)
	}
	return resp.Body.Close()
}

type extractRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Extract uploads the source document and returns the derived artifacts.
func (c *Client) Extract(ctx context.Context, filename string, content []byte) (Artifacts, error) {
	var artifacts Artifacts
	err := c.post(ctx, "/v1/extract", extractRequest{
		Filename: filename,
		Content:  string(content),
	}, &artifacts)
	if err != nil {
		return Artifacts{}, fmt.Errorf("extract document: %w", err)
	}
	return artifacts, nil
}

type feedbackRequest struct {
	View string `json:"view"`
	workflow.FeedbackPayload
}

// SubmitFeedback posts the review payload for one view.
func (c *Client) SubmitFeedback(ctx context.Context, view string, payload workflow.FeedbackPayload) (Revision, error) {
	var revision Revision
	err := c.post(ctx, "/v1/feedback", feedbackRequest{View: view, FeedbackPayload: payload}, &revision)
	if err != nil {
		return Revision{}, fmt.Errorf("submit feedback: %w", err)
	}
	return revision, nil
}

type analyzeRequest struct {
	Content string `json:"content"`
}

type analyzeResponse struct {
	Report string `json:"report"`
}

// Analyze runs the final analysis over the approved content.
func (c *Client) Analyze(ctx context.Context, content string) (string, error) {
	var resp analyzeResponse
	err := c.post(ctx, "/v1/analyze", analyzeRequest{Content: content}, &resp)
	if err != nil {
		return "", fmt.Errorf("analyze content: %w", err)
	}
	return resp.Report, nil
}

// post issues one JSON request and decodes a single response. There is no
// automatic retry; failed calls are retried manually by the user.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "redline")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("backend: close response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body when the
// backend sends one.
func errorMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return strings.TrimSpace(string(body))
}
