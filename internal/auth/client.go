package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/atomicstack/teacher-workspace/internal/logging/events"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// APIError is the JSON error body returned by the workspace server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("auth: status %d", e.Status)
	}
	return fmt.Sprintf("auth: status %d: %s", e.Status, e.Code)
}

// RetryConfig bounds retries of transient failures.
type RetryConfig struct {
	MaxRetries   uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryConfig retries twice, starting at 250ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   2,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     2 * time.Second,
	}
}

func (rc RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = rc.InitialDelay
	b.MaxInterval = rc.MaxDelay
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, rc.MaxRetries), ctx)
}

// Client is an Authenticator backed by the workspace server's OTP API. The
// server ties the issued code to a session cookie, so a Client keeps its own
// cookie jar and must be used for one sign-in at a time.
type Client struct {
	base  *url.URL
	http  *http.Client
	retry RetryConfig
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is added
// when the client has none.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetry replaces DefaultRetryConfig.
func WithRetry(rc RetryConfig) ClientOption {
	return func(c *Client) { c.retry = rc }
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse auth url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse auth url: unsupported scheme %q", base.Scheme)
	}
	c := &Client{
		base:  base,
		http:  &http.Client{Timeout: timeout},
		retry: DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// RequestCode asks the server to send a code to email.
func (c *Client) RequestCode(ctx context.Context, email string) error {
	return c.post(ctx, "/api/otp/request", map[string]string{"email": email})
}

// VerifyCode submits code for the session started by RequestCode.
func (c *Client) VerifyCode(ctx context.Context, email, code string) error {
	err := c.post(ctx, "/api/otp/verify", map[string]string{"pin": code})
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		return fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}
	return err
}

// Ping checks that the server answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/"), nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", path, err)
	}

	op := func() error {
		return c.do(ctx, path, body)
	}
	notify := func(err error, next time.Duration) {
		events.Auth.Retry(path, err, next)
	}
	err = backoff.RetryNotify(op, c.retry.backOff(ctx), notify)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}

// do performs a single attempt. Client errors are wrapped as permanent so
// the retry loop stops on them.
func (c *Client) do(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build %s request: %w", path, err))
	}
	id := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, id)

	events.Auth.Request(id, path)
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err()))
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer res.Body.Close()
	events.Auth.Response(id, path, res.StatusCode, time.Since(start))

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	apiErr := &APIError{Status: res.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	_ = json.Unmarshal(data, apiErr)

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return backoff.Permanent(fmt.Errorf("%w: %w", ErrUnauthorized, apiErr))
	case res.StatusCode == http.StatusBadRequest:
		return backoff.Permanent(fmt.Errorf("%w: %w", ErrInvalidForm, apiErr))
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500:
		return fmt.Errorf("%w: %w", ErrUnavailable, apiErr)
	default:
		return backoff.Permanent(apiErr)
	}
}
