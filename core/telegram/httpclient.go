package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/sporttich/sportbot/core/telegram/netutil"
)

const (
	dialTimeout     = 5 * time.Second
	tlsTimeout      = 5 * time.Second
	idleConnTimeout = 30 * time.Second
	headerTimeout   = 5 * time.Second
	clientTimeout   = 30 * time.Second
	keepAlive       = 30 * time.Second
	clientRetries   = 3
	clientBackoff   = 2 * time.Second
)

// BuildHTTPClient returns the client used for Bot API calls: tight connect
// timeouts and transparent retries of transient transport failures.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: keepAlive,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsTimeout,
		ResponseHeaderTimeout: headerTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Timeout: clientTimeout,
		Transport: &retryTransport{
			base:       transport,
			maxRetries: clientRetries,
			backoff:    clientBackoff,
		},
	}
}

// retryTransport re-sends a request on retryable transport errors. A request
// whose body cannot be rebuilt via GetBody is never replayed.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	var lastErr error
	attempts := t.maxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		attemptReq, err := t.prepare(req, attempt)
		if err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}

		resp, err := base.RoundTrip(attemptReq)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !netutil.ShouldRetry(err) || attempt == attempts {
			break
		}
		if !t.wait(req, attempt) {
			return nil, req.Context().Err()
		}
	}
	return nil, lastErr
}

func (t *retryTransport) prepare(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 1 {
		return req, nil
	}
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
		return clone, nil
	}
	if req.Body != nil {
		return nil, http.ErrBodyReadAfterClose
	}
	return clone, nil
}

func (t *retryTransport) wait(req *http.Request, attempt int) bool {
	delay := t.backoff * time.Duration(attempt)
	if delay <= 0 {
		return true
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return false
	case <-timer.C:
		return true
	}
}
