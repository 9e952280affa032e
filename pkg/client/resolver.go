package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
)

// ErrTransportExhausted indicates every transport tier failed. The job row
// is untouched; resubmission retries the whole ladder.
var ErrTransportExhausted = errors.New("client: all transport tiers exhausted")

// TokenSource supplies the bearer token for processing calls. Refresh is
// invoked once per trigger after a 401, and the rejected tier is retried
// with the fresh token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token forever; Refresh is a no-op
// re-read. Suitable for service tokens that do not expire.
type StaticTokenSource struct {
	Value string
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error)   { return s.Value, nil }
func (s *StaticTokenSource) Refresh(ctx context.Context) (string, error) { return s.Value, nil }

// ProcessingAck is the server's acknowledgement of a processing request
type ProcessingAck struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id,omitempty"`
}

// transportTier is one (endpoint, method) strategy in the fallback ladder
type transportTier struct {
	Name   string
	URL    string
	Method string
}

// TransportResolver triggers server-side processing of a job by walking an
// ordered list of transport tiers until one succeeds. The ladder compensates
// for reachability differences between proxy and direct routes across
// deployments, not for generation errors.
type TransportResolver struct {
	tiers      []transportTier
	tokens     TokenSource
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewTransportResolver builds the standard four-tier ladder: proxy POST,
// proxy GET, direct POST, direct GET. Tiers whose base URL is empty are
// omitted.
func NewTransportResolver(proxyURL, directURL string, tokens TokenSource, timeout time.Duration, logger arbor.ILogger) *TransportResolver {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var tiers []transportTier
	if proxyURL != "" {
		endpoint := proxyURL + "/api/proxy-process-job"
		tiers = append(tiers,
			transportTier{Name: "proxy-post", URL: endpoint, Method: http.MethodPost},
			transportTier{Name: "proxy-get", URL: endpoint, Method: http.MethodGet},
		)
	}
	if directURL != "" {
		endpoint := directURL + "/api/personalize-content/process"
		tiers = append(tiers,
			transportTier{Name: "direct-post", URL: endpoint, Method: http.MethodPost},
			transportTier{Name: "direct-get", URL: endpoint, Method: http.MethodGet},
		)
	}

	return &TransportResolver{
		tiers:      tiers,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Resolve walks the tiers in order and returns the first successful
// acknowledgement. A 401 triggers one token refresh and a retry of the same
// tier; any other failure logs and falls through to the next tier.
func (r *TransportResolver) Resolve(ctx context.Context, jobID string) (*ProcessingAck, error) {
	if len(r.tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers configured", ErrTransportExhausted)
	}

	refreshed := false
	for _, tier := range r.tiers {
		ack, status, err := r.attempt(ctx, tier, jobID)
		if err == nil {
			r.logger.Debug().
				Str("tier", tier.Name).
				Str("job_id", jobID).
				Msg("Processing triggered")
			return ack, nil
		}

		if status == http.StatusUnauthorized && !refreshed {
			refreshed = true
			if _, rerr := r.tokens.Refresh(ctx); rerr != nil {
				r.logger.Warn().
					Err(rerr).
					Str("tier", tier.Name).
					Msg("Token refresh failed")
			} else {
				r.logger.Debug().
					Str("tier", tier.Name).
					Str("job_id", jobID).
					Msg("Retrying tier with refreshed token")
				if ack, _, err = r.attempt(ctx, tier, jobID); err == nil {
					return ack, nil
				}
			}
		}

		r.logger.Warn().
			Err(err).
			Str("tier", tier.Name).
			Str("job_id", jobID).
			Msg("Transport tier failed, trying next")
	}

	return nil, fmt.Errorf("%w: job %s", ErrTransportExhausted, jobID)
}

// Trigger satisfies the job-trigger contract the gateway fires
func (r *TransportResolver) Trigger(ctx context.Context, jobID string) error {
	_, err := r.Resolve(ctx, jobID)
	return err
}

// attempt issues one request for a tier. POST carries a JSON body with a
// cache-busting timestamp; GET carries query parameters and no-cache
// headers.
func (r *TransportResolver) attempt(ctx context.Context, tier transportTier, jobID string) (*ProcessingAck, int, error) {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)

	var req *http.Request
	var err error
	if tier.Method == http.MethodPost {
		body, merr := json.Marshal(map[string]string{"job_id": jobID, "ts": ts})
		if merr != nil {
			return nil, 0, merr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, tier.URL, bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		query := url.Values{"job_id": {jobID}, "ts": {ts}}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, tier.URL+"?"+query.Encode(), nil)
		if err == nil {
			req.Header.Set("Cache-Control", "no-cache")
			req.Header.Set("Pragma", "no-cache")
		}
	}
	if err != nil {
		return nil, 0, err
	}

	token, err := r.tokens.Token(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var ack ProcessingAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode acknowledgement: %w", err)
	}
	return &ack, resp.StatusCode, nil
}
