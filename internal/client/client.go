// Package client sends replayed requests over HTTP.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/curlgen/internal/jsonx"
)

// DefaultTimeout bounds one replay call when the config sets none.
const DefaultTimeout = 30 * time.Second

// ErrInvalidURL is returned when a request URL cannot be used.
var ErrInvalidURL = errors.New("client: invalid URL")

// Config configures a Client.
type Config struct {
	Timeout       time.Duration
	TLSSkipVerify bool
	UserAgent     string
}

// Client sends one HTTP request per call, without retries or redirects.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "curlgen/1.0"
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.TLSSkipVerify,
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: cfg.UserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request is one request to send.
type Request struct {
	Method string
	URL    string

	// Headers are sent in order. Nil sends none.
	Headers *jsonx.Map[string]

	// Query fields are appended to the URL query string in order.
	Query *jsonx.Object

	// Body is encoded as JSON when non-nil. A Content-Type header is added
	// unless Headers carries one.
	Body any
}

// Do sends req. Transport failures are returned as errors and also stored
// in Response.Error; a non-2xx status is not an error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target, err := BuildURL(req.URL, req.Query)
	if err != nil {
		return &Response{Error: err}, err
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			err = fmt.Errorf("marshaling request body: %w", err)
			return &Response{Error: err}, err
		}
		body = bytes.NewReader(data)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		err = fmt.Errorf("creating HTTP request: %w", err)
		return &Response{Error: err}, err
	}
	c.setHeaders(httpReq, req)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	resp := &Response{Duration: time.Since(start)}
	if err != nil {
		resp.Error = err
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err))
		return resp, err
	}
	defer httpResp.Body.Close()

	resp.StatusCode = httpResp.StatusCode
	resp.Headers = httpResp.Header
	resp.Body, err = io.ReadAll(httpResp.Body)
	resp.Duration = time.Since(start)
	if err != nil {
		resp.Error = fmt.Errorf("reading response body: %w", err)
		return resp, resp.Error
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", resp.Duration))
	return resp, nil
}

func (c *Client) setHeaders(httpReq *http.Request, req Request) {
	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, v := range req.Headers.All() {
		httpReq.Header.Set(k, v)
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
}

// BuildURL appends the query fields to raw in order. Values are rendered
// with jsonx.Stringify and form-encoded.
func BuildURL(raw string, query *jsonx.Object) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if query.Len() == 0 {
		return u.String(), nil
	}

	var b strings.Builder
	b.WriteString(u.RawQuery)
	for k, v := range query.All() {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(jsonx.Stringify(v)))
	}
	u.RawQuery = b.String()
	return u.String(), nil
}
