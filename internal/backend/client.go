package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	coreconfig "github.com/sporttich/sportbot/core/config"
	"github.com/sporttich/sportbot/core/logger"

	"log/slog"
)

// Client is a typed HTTP client for the events API. Every operation is a
// single method returning domain values or *Error; callers never see raw
// transport failures. Idempotent reads are retried, mutations are not.
type Client struct {
	http    *http.Client
	baseURL string
	retries int
	backoff time.Duration
	timeout time.Duration
}

// New builds a client from core configuration.
func New(cfg *coreconfig.Config) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.APITimeout()},
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		retries: cfg.API.ReadRetries,
		backoff: cfg.APIRetryBackoff(),
		timeout: cfg.APITimeout(),
	}
}

// call describes a single backend request.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// read marks the request idempotent and safe to retry.
	read bool
}

type apiDetail struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, req call) error {
	var payload []byte
	if req.body != nil {
		var err error
		payload, err = json.Marshal(req.body)
		if err != nil {
			return &Error{Kind: KindUnavailable, Op: req.op, Err: fmt.Errorf("encode request: %w", err)}
		}
	}

	attempts := 1
	if req.read && c.retries > 0 {
		attempts += c.retries
	}

	start := time.Now()
	var lastErr *Error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = &Error{Kind: KindUnavailable, Op: req.op, Err: err}
			break
		}

		lastErr = c.attempt(ctx, req, payload)
		if lastErr == nil {
			if attempt > 1 {
				logger.Info(ctx, "api", "request.retry.success",
					slog.String("op", req.op),
					slog.Int("attempts", attempt),
					slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
				)
			}
			return nil
		}

		// Rejections are definitive, only availability faults retry.
		if lastErr.Kind != KindUnavailable || attempt == attempts {
			break
		}

		delay := c.backoff * time.Duration(1<<(attempt-1))
		logger.Debug(ctx, "api", "request.retry.backoff",
			slog.String("op", req.op),
			slog.Int("attempts", attempt),
			slog.Int64("backoff_ms", delay.Milliseconds()),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			lastErr = &Error{Kind: KindUnavailable, Op: req.op, Err: ctx.Err()}
		case <-timer.C:
			continue
		}
		break
	}

	level := slog.LevelWarn
	if lastErr.Kind == KindUnavailable {
		level = slog.LevelError
	}
	logger.LogEvent(ctx, logger.API, level, "request.fail",
		slog.String("op", req.op),
		slog.String("status", "fail"),
		slog.String("err", logger.SanitizeLimit(lastErr.Error(), 256)),
		slog.String("err_code", lastErr.Code()),
		slog.Bool("retryable", lastErr.Kind == KindUnavailable),
		slog.Int("http_code", lastErr.Status),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return lastErr
}

// attempt performs one round trip and maps the outcome.
func (c *Client) attempt(ctx context.Context, req call, payload []byte) *Error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(reqCtx, req.method, u, body)
	if err != nil {
		return &Error{Kind: KindUnavailable, Op: req.op, Err: err}
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &Error{Kind: KindUnavailable, Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &Error{Kind: KindUnavailable, Op: req.op, Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if req.out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, req.out); err != nil {
				return &Error{Kind: KindUnavailable, Op: req.op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
			}
		}
		return nil
	case resp.StatusCode >= 500:
		return &Error{Kind: KindUnavailable, Op: req.op, Status: resp.StatusCode, Err: fmt.Errorf("server error: %s", resp.Status)}
	default:
		return rejection(req.op, resp.StatusCode, raw)
	}
}

// rejection maps a 4xx answer to a domain rejection.
func rejection(op string, status int, raw []byte) *Error {
	var d apiDetail
	_ = json.Unmarshal(raw, &d)
	detail := strings.TrimSpace(d.Detail)

	reason := ReasonRejected
	lower := strings.ToLower(detail)
	switch {
	case status == http.StatusNotFound:
		reason = ReasonNotFound
	case status == http.StatusUnprocessableEntity:
		reason = ReasonValidation
	case strings.Contains(lower, "уже участвует"):
		reason = ReasonAlreadyJoined
	case strings.Contains(lower, "лимит") || strings.Contains(lower, "заполнено"):
		reason = ReasonEventFull
	}

	return &Error{Kind: KindRejected, Op: op, Status: status, Reason: reason, Detail: detail}
}

// Health probes GET /health. Used by bootstrap; never retried.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, call{op: "health", method: http.MethodGet, path: "/health"})
}
