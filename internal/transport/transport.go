package transport

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrDisallowed is returned when robots.txt forbids the request path.
var ErrDisallowed = errors.New("blocked by robots.txt")

// Transport is an http.RoundTripper that applies the client pipeline:
// RequestID → UserAgent → Auth → RobotsCheck → RateLimiter → Send
type Transport struct {
	Base        http.RoundTripper
	UserAgent   string
	Token       func() string // bearer token source; "" sends no Authorization
	Robots      *RobotsChecker
	RateLimiter *rate.Limiter
	Log         zerolog.Logger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	// 1. Correlate the call in logs on both sides
	reqID := req.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.NewString()
		req.Header.Set("X-Request-ID", reqID)
	}

	// 2. Identify the client
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	// 3. Attach the session token when one is stored
	if t.Token != nil && req.Header.Get("Authorization") == "" {
		if tok := t.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	// 4. Check robots.txt
	if t.Robots != nil {
		allowed, err := t.Robots.IsAllowed(req.Context(), t.UserAgent, req.URL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, req.URL.Path)
		}
	}

	// 5. Wait for rate limiter token
	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	ev := t.Log.Debug().
		Str("request_id", reqID).
		Str("method", req.Method).
		Str("path", req.URL.RequestURI()).
		Dur("took", time.Since(start))
	if err != nil {
		ev.Err(err).Msg("catalog request failed")
		return nil, err
	}
	ev.Int("status", resp.StatusCode).Msg("catalog request")
	return resp, nil
}
