// Package gateway is the HTTP client for the rental REST backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/qlpt/rental-portal/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 1 << 20

	HeaderRequestID = "X-Request-ID"
)

// Client calls the backend. Auth endpoints always go through a plain HTTP
// client; resource endpoints use the transport given by WithTransport, which
// is where bearer attachment and silent refresh plug in.
type Client struct {
	baseURL  string
	http     *http.Client
	authHTTP *http.Client
	log      zerolog.Logger
}

type Option func(*Client)

// WithTransport sets the round tripper used for resource calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
			c.authHTTP.Timeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		authHTTP: &http.Client{Timeout: defaultTimeout},
		log:      log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// request is one API call.
type request struct {
	method string
	path   string
	query  url.Values
	in     any
	out    any
	auth   bool // use the plain auth client
}

func (c *Client) do(ctx context.Context, r request) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.in != nil {
		data, err := json.Marshal(r.in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if r.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.http
	if r.auth {
		hc = c.authHTTP
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("took", time.Since(start)).
		Msg("api call")

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, data, requestID)
	}
	if r.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// classifyTransportError keeps session and context errors as they are and
// reports everything else as a network failure.
func classifyTransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrSessionExpired),
		errors.Is(err, apperrors.ErrNotAuthenticated),
		errors.Is(err, apperrors.ErrRefreshFailure):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %w", apperrors.ErrNetwork, err)
	}
}

func idPath(prefix string, id int) string {
	return fmt.Sprintf("%s%d/", prefix, id)
}
