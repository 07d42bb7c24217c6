// Package upstream implements the HTTP client for the bearer-token upstream
// API, the canonical upstream schema, and the translation of upstream
// failures into the local error vocabulary.
package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	foyer "github.com/eugener/foyer/internal"
	"github.com/eugener/foyer/internal/telemetry"
)

const defaultCallTimeout = 180 * time.Second

// Client issues single requests against the upstream base URL. It performs
// no retries; retry policy belongs to callers. All failures come back as
// *foyer.Envelope values.
type Client struct {
	baseURL     string
	http        *http.Client
	callTimeout time.Duration
	tracer      trace.Tracer
	metrics     *telemetry.Metrics
}

// New creates a Client for the given base URL (including the API prefix,
// e.g. "http://api.internal:8000/api/v1"). A nil httpClient falls back to a
// plain &http.Client{}; production wiring passes one built on NewTransport.
// callTimeout of 0 selects the 180s default, sized for long-running AI
// analysis calls; cheap calls should override per Call.
func New(baseURL string, httpClient *http.Client, callTimeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        httpClient,
		callTimeout: callTimeout,
		tracer:      telemetry.Tracer("upstream"),
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// WithMetrics enables per-call duration observation. Nil disables it.
func (c *Client) WithMetrics(m *telemetry.Metrics) *Client {
	c.metrics = m
	return c
}

// Do issues the call and decodes a 2xx JSON response into out. A nil out
// discards the response body (void calls such as delete); upstream failures
// still surface through the translator. The call's timeout (or the client
// default) bounds the whole exchange including body decode.
func (c *Client) Do(ctx context.Context, call Call, out any) error {
	timeout := call.Timeout
	if timeout <= 0 {
		timeout = c.callTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "upstream.call", trace.WithAttributes(
		attribute.String("http.method", call.Method),
		attribute.String("http.path", call.Path),
	))
	defer span.End()

	if c.metrics != nil {
		start := time.Now()
		defer func() {
			c.metrics.UpstreamDuration.WithLabelValues(call.Method).Observe(time.Since(start).Seconds())
		}()
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, call.URL(c.baseURL), call.body)
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		return foyer.Ef(foyer.KindUnavailable, "build request: %v", err)
	}
	if call.contentType != "" {
		req.Header.Set("Content-Type", call.contentType)
	}
	if call.Token != "" {
		req.Header.Set("Authorization", "Bearer "+call.Token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport")
		return TranslateTransport(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBody(resp.Body)
		span.SetStatus(codes.Error, "upstream status")
		return Translate(resp.StatusCode, body)
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyCapture)) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.SetStatus(codes.Error, "decode")
		return &foyer.Envelope{
			Kind:    foyer.KindDecode,
			Message: "unexpected upstream response shape",
			Status:  resp.StatusCode,
			Body:    err.Error(),
		}
	}
	return nil
}

// maxBodyCapture bounds how much of an upstream error body is retained.
const maxBodyCapture = 64 << 10

// readBody reads up to maxBodyCapture bytes of an upstream response body.
func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxBodyCapture))
	return string(b)
}
