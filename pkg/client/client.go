package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
)

// Client is the HTTP client for the doceo API. It submits regeneration
// requests, exposes the enrollment status read the poller consumes, and
// carries the transport resolver for explicit job re-triggering.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	Resolver   *TransportResolver
	logger     arbor.ILogger
}

// Options configures a Client. ProxyURL defaults to BaseURL when empty so
// the resolver ladder always has at least one endpoint pair.
type Options struct {
	BaseURL        string
	ProxyURL       string
	Tokens         TokenSource
	RequestTimeout time.Duration
}

func New(opts Options, logger arbor.ILogger) *Client {
	if opts.Tokens == nil {
		opts.Tokens = &StaticTokenSource{}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	proxyURL := opts.ProxyURL
	if proxyURL == "" {
		proxyURL = opts.BaseURL
	}

	return &Client{
		baseURL:    opts.BaseURL,
		tokens:     opts.Tokens,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		Resolver:   NewTransportResolver(proxyURL, opts.BaseURL, opts.Tokens, opts.RequestTimeout, logger),
		logger:     logger,
	}
}

// RegenerateResponse is the server's reply to a regeneration request
type RegenerateResponse struct {
	Success      bool   `json:"success"`
	JobID        string `json:"job_id"`
	Deduplicated bool   `json:"deduplicated"`
}

// Regenerate submits a content generation request for a course/employee
// pair. force deletes prior content rows before the new run.
func (c *Client) Regenerate(ctx context.Context, courseID, employeeID string, force bool) (*RegenerateResponse, error) {
	body, err := json.Marshal(map[string]interface{}{
		"course_id":        courseID,
		"employee_id":      employeeID,
		"force_regenerate": force,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/regenerate-content", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("regenerate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("regenerate request returned status %d", resp.StatusCode)
	}

	var out RegenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode regenerate response: %w", err)
	}
	return &out, nil
}

// enrollmentStatusResponse mirrors the enrollment read the server exposes
type enrollmentStatusResponse struct {
	Enrollment struct {
		EmployeeID string `json:"employee_id"`
		Status     string `json:"personalized_content_generation_status"`
	} `json:"enrollment"`
}

// Status reads the generation status for an enrollment. Implements the
// StatusSource contract the poller consumes.
func (c *Client) Status(ctx context.Context, courseID, employeeID string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/courses/%s/enrollment?%s",
		c.baseURL, url.PathEscape(courseID), url.Values{"user_id": {employeeID}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if err := c.authorize(ctx, req); err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("status read failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("status read returned status %d", resp.StatusCode)
	}

	var out enrollmentStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode status response: %w", err)
	}
	return out.Enrollment.Status, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}
