package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"internhub/auth/session"
)

// Client performs portal API calls with credential attachment and bounded
// recovery policies layered over a basic send primitive.
type Client struct {
	log      *slog.Logger
	cfg      Config
	http     *http.Client
	sessions *session.Manager
	metrics  *clientMetrics
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if c == nil || h == nil {
			return
		}
		c.http = h
	}
}

// WithRegisterer attaches the client's metrics to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) {
		if c == nil || reg == nil {
			return
		}
		c.metrics = newClientMetrics(reg)
	}
}

// New constructs a Client over the given session manager.
func New(log *slog.Logger, cfg Config, sessions *session.Manager, opts ...Option) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	if sessions == nil {
		return nil, errors.New("apiclient: nil session manager")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	c := &Client{
		log:      log,
		cfg:      cfg,
		http:     &http.Client{},
		sessions: sessions,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newClientMetrics(nil)
	}
	return c, nil
}

// Get performs a GET request against path.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, "", false, opts)
}

// Post performs a POST request with a JSON-encoded body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	payload, contentType, err := encodeJSON(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, payload, contentType, false, opts)
}

// Put performs a PUT request with a JSON-encoded body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	payload, contentType, err := encodeJSON(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, payload, contentType, false, opts)
}

// Delete performs a DELETE request against path.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "", false, opts)
}

// do runs one logical request through both recovery policies. The
// credential is resolved at dispatch time of each attempt; a role switch
// during an in-flight attempt never rewrites an already-attached header.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, upload bool, opts []RequestOption) (*Response, error) {
	var ro requestOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&ro)
		}
	}

	target := c.cfg.BaseURL + path
	att := &attempt{}

	for {
		token := att.retryToken
		if token == "" {
			token, _ = c.sessions.BearerToken(ro.role)
		}

		status, header, respBody, err := c.send(ctx, method, target, body, contentType, token, c.attemptTimeout(upload, att))
		if err != nil {
			if errors.Is(err, ErrResponseTooLarge) {
				c.metrics.requests.WithLabelValues(method, outcomeHTTPError).Inc()
				return nil, err
			}
			if att.network == 0 {
				att.network++
				c.metrics.retries.WithLabelValues(retryReasonNetwork).Inc()
				c.log.Warn("api.network_retry", "method", method, "url", target, "error", err)
				continue
			}
			c.metrics.requests.WithLabelValues(method, outcomeNetworkFailure).Inc()
			return nil, &NetworkError{Method: method, URL: target, Attempts: att.network + 1, Err: err}
		}

		switch {
		case status >= 200 && status < 300:
			c.metrics.requests.WithLabelValues(method, outcomeSuccess).Inc()
			return &Response{StatusCode: status, Header: header, Body: respBody}, nil

		case status == http.StatusUnauthorized:
			if att.auth == 0 {
				newToken, rerr := c.refreshAccessToken(ctx)
				if rerr == nil {
					att.auth++
					att.retryToken = newToken
					c.metrics.retries.WithLabelValues(retryReasonAuth).Inc()
					c.log.Info("api.auth_retry", "method", method, "url", target)
					continue
				}
				c.log.Warn("api.refresh_failed", "method", method, "url", target, "error", rerr)
				c.invalidate(ro.role)
			}
			c.metrics.requests.WithLabelValues(method, outcomeAuthFailure).Inc()
			return nil, &AuthError{StatusCode: status, Body: respBody}

		case status == http.StatusForbidden:
			// Authorization failure, not authentication: the stored session
			// does not fit this resource. Drop only that session, never
			// attempt a refresh.
			if role, ok := c.resolvedRole(ro.role); ok {
				c.log.Warn("api.role_mismatch", "method", method, "url", target, "role", string(role))
				_ = c.sessions.Logout(role)
			}
			c.metrics.requests.WithLabelValues(method, outcomeAuthFailure).Inc()
			return nil, &AuthError{StatusCode: status, Body: respBody}

		default:
			c.metrics.requests.WithLabelValues(method, outcomeHTTPError).Inc()
			return nil, &StatusError{StatusCode: status, Body: respBody}
		}
	}
}

// attemptTimeout returns the envelope for one attempt. Uploads start with
// the wider upload timeout; a retried upload doubles it again.
func (c *Client) attemptTimeout(upload bool, att *attempt) time.Duration {
	if !upload {
		return c.cfg.Timeout
	}
	to := c.cfg.UploadTimeout
	if att.network > 0 {
		to *= 2
	}
	return to
}

// send performs one HTTP attempt. A nil error means an HTTP response was
// received, whatever its status; any error is a transport-level failure,
// except ErrResponseTooLarge where a response arrived but its body blew the
// cap.
func (c *Client) send(ctx context.Context, method, target string, body []byte, contentType, token string, timeout time.Duration) (int, http.Header, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return 0, nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes+1))
	if err != nil {
		return 0, nil, nil, err
	}
	if int64(len(data)) > c.cfg.MaxBodyBytes {
		return 0, nil, nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.cfg.MaxBodyBytes)
	}
	return resp.StatusCode, resp.Header, data, nil
}

// resolvedRole reports which role's session a call would be charged to:
// the override when given, else the active role, and only when a stored
// session actually exists for it.
func (c *Client) resolvedRole(override session.Role) (session.Role, bool) {
	role := override
	if role == session.RoleNone {
		role = c.sessions.ActiveRole()
	}
	if role == session.RoleNone {
		return session.RoleNone, false
	}
	if _, ok := c.sessions.CurrentRecord(role); !ok {
		return session.RoleNone, false
	}
	return role, true
}

// invalidate clears local auth state after an unrecoverable 401. The logout
// event reaches observers before the failure reaches the caller.
func (c *Client) invalidate(override session.Role) {
	c.sessions.ClearTokens()
	if role, ok := c.resolvedRole(override); ok {
		_ = c.sessions.Logout(role)
	}
}
