// Package apiclient talks to the PassGuardian scoring service.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/passguardian/passguardian-go/internal/middleware"
	"github.com/passguardian/passguardian-go/internal/model"
)

// ErrBackendUnavailable wraps transport failures: the service could not be reached.
var ErrBackendUnavailable = errors.New("backend unreachable")

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20 // 1MB

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *slog.Logger
	// Transport is the innermost round tripper; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Client wraps the service's HTTP API. Every request carries the session
// cookies the service has set, so server-side history follows the session.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("apiclient: cookie jar: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	mws := []func(http.RoundTripper) http.RoundTripper{middleware.Logger(log)}
	if opts.RateLimitRPS > 0 {
		burst := max(opts.RateLimitBurst, 1)
		mws = append(mws, middleware.RateLimit(opts.RateLimitRPS, burst))
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Jar:       jar,
			Timeout:   opts.Timeout,
			Transport: middleware.Chain(opts.Transport, mws...),
		},
	}, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckPassword handles POST /check_password.
func (c *Client) CheckPassword(ctx context.Context, password string) (model.StrengthResult, error) {
	var out model.StrengthResult
	if err := c.do(ctx, http.MethodPost, "/check_password", model.CheckRequest{Password: password}, &out); err != nil {
		return model.StrengthResult{}, fmt.Errorf("check password: %w", err)
	}
	return out, nil
}

// GeneratePassword handles POST /generate_password.
func (c *Client) GeneratePassword(ctx context.Context, settings model.GeneratorSettings) (model.GenerateResponse, error) {
	var out model.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/generate_password", settings, &out); err != nil {
		return model.GenerateResponse{}, fmt.Errorf("generate password: %w", err)
	}
	return out, nil
}

// GetHistory handles GET /get_history.
func (c *Client) GetHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	var out model.HistoryResponse
	if err := c.do(ctx, http.MethodGet, "/get_history", nil, &out); err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	if out.History == nil {
		return []model.HistoryEntry{}, nil
	}
	return out.History, nil
}

// ClearHistory handles POST /clear_history. Only the status is inspected.
func (c *Client) ClearHistory(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/clear_history", nil, nil); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// SessionInfo handles GET /session_info.
func (c *Client) SessionInfo(ctx context.Context) (model.SessionInfo, error) {
	out := model.SessionInfo{}
	if err := c.do(ctx, http.MethodGet, "/session_info", nil, &out); err != nil {
		return nil, fmt.Errorf("session info: %w", err)
	}
	return out, nil
}

// Health handles GET /health.
func (c *Client) Health(ctx context.Context) (model.HealthResponse, error) {
	var out model.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return model.HealthResponse{}, fmt.Errorf("health: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage extracts the "error" (or "message") field of a JSON error
// body, falling back to the trimmed raw text.
func errorMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// IsUnavailable reports whether err means the service could not be reached
// or answered with a failure status.
func IsUnavailable(err error) bool {
	var se *StatusError
	return errors.Is(err, ErrBackendUnavailable) || errors.As(err, &se)
}
