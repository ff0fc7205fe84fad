package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"studio/internal/metrics"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of a failed POST response is kept.
const maxErrorBody = 64 << 10

// Client is the only component issuing HTTP calls to the backend. Each call is
// a single attempt: no retries, no timeouts, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

// NewClient constructs a client for an already normalized base URL.
func NewClient(baseURL string) *Client {
	nop := zerolog.Nop()
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     &nop,
	}
}

// UseLogger attaches a logger for request tracing.
func (c *Client) UseLogger(logger *zerolog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// UseRateLimit throttles outbound calls. rps <= 0 removes the limiter.
func (c *Client) UseRateLimit(rps float64, burst int) {
	if rps <= 0 {
		c.limiter = nil
		return
	}
	if burst <= 0 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// BaseURL returns the backend root the client resolves paths against.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET and decodes the JSON response into out (nil discards it).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "build GET %s", redactPath(path))
	}
	return c.do(req, path, out, false)
}

// GetRaw issues a GET and returns the response document verbatim.
func (c *Client) GetRaw(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Post issues a POST with a JSON body. A failed response keeps its body text.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "encode POST %s", redactPath(path))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return errors.Wrapf(err, "build POST %s", redactPath(path))
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out, true)
}

func (c *Client) do(req *http.Request, path string, out any, keepErrorBody bool) error {
	safePath := redactPath(path)
	method := req.Method
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With().Str("method", method).Str("path", safePath).Str("request_id", requestID).Logger()

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return errors.Mark(errors.Wrapf(err, "%s %s", method, safePath), ErrTransport)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(method, safePath, "transport", time.Since(start))
		log.Debug().Err(unwrapURLError(err)).Msg("backend unreachable")
		return errors.Mark(errors.Wrapf(unwrapURLError(err), "%s %s", method, safePath), ErrTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveRequest(method, safePath, "failed", time.Since(start))
		failed := &RequestFailedError{
			Method:     method,
			Path:       safePath,
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
		}
		if keepErrorBody {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			failed.Body = string(body)
		}
		log.Debug().Int("status", resp.StatusCode).Msg("backend returned failure")
		return errors.Mark(failed, ErrRequestFailed)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.ObserveRequest(method, safePath, "ok", time.Since(start))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ObserveRequest(method, safePath, "malformed", time.Since(start))
		return errors.Mark(errors.Wrapf(err, "decode %s %s", method, safePath), ErrMalformedResponse)
	}

	metrics.ObserveRequest(method, safePath, "ok", time.Since(start))
	log.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("backend call done")
	return nil
}

// AdminPath appends the shared secret as the password query parameter.
func AdminPath(path, password string) string {
	return path + "?password=" + url.QueryEscape(password)
}

// redactPath drops the query string so credentials stay out of logs, metrics
// and error text.
func redactPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// unwrapURLError strips *url.Error, whose message repeats the full URL.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text == "" || text == resp.Status {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
