// Package upstream is the HTTP client for the remote clinic API. It owns the
// base-URL selection, the bearer-injection transport, and the translation of
// upstream error envelopes into domain errors.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaduart/fono-inova-gateway/internal/api/metrics"
	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

const defaultTimeout = 15 * time.Second

// Config captures the settings for talking to the clinic API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// New builds a Client against cfg.BaseURL. The returned client is safe for
// concurrent use.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("upstream base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{next: http.DefaultTransport},
		},
		log: log,
	}, nil
}

// Ping reports whether the upstream API is reachable at all. Any HTTP answer
// counts; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String()+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream ping: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// metricPath collapses record IDs out of a path so metric labels stay at a
// fixed cardinality: "/doctors/42" → "/doctors/:id".
func metricPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "doctors" && parts[1] != "all":
		return "/doctors/:id"
	case len(parts) == 2 && parts[0] == "leads":
		return "/leads/:id"
	default:
		return path
	}
}

// errorEnvelope covers both shapes the API uses: {"error": "..."} on auth and
// lead endpoints, {"message": "..."} on the password flows.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorEnvelope) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// do issues one request and decodes the 2xx body into out (when non-nil).
// Non-2xx answers become *domain.UpstreamError, except a 401 on a call that
// carried a token, which means the session token itself is dead.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(withToken(ctx, token), method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metricPath(path), "transport_error").Inc()
		return fmt.Errorf("upstream %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(metricPath(path)).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.WithLabelValues(metricPath(path), strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		_ = json.Unmarshal(raw, &envelope)

		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			return domain.ErrTokenRejected
		}

		c.log.Debug().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("upstream error response")

		return &domain.UpstreamError{StatusCode: resp.StatusCode, Message: envelope.text()}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
