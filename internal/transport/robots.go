package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

type robotsEntry struct {
	data    *robotstxt.RobotsData
	expires time.Time
}

// RobotsChecker caches robots.txt rules per origin.
type RobotsChecker struct {
	client   *http.Client
	cacheTTL time.Duration
	enabled  bool

	mu      sync.Mutex
	entries map[string]robotsEntry
}

// NewRobotsChecker creates a checker. A disabled checker allows everything
// without fetching.
func NewRobotsChecker(client *http.Client, enabled bool) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsChecker{
		client:   client,
		cacheTTL: time.Hour,
		enabled:  enabled,
		entries:  make(map[string]robotsEntry),
	}
}

// IsAllowed reports whether userAgent may fetch u. An unreachable or broken
// robots.txt allows the request.
func (r *RobotsChecker) IsAllowed(ctx context.Context, userAgent string, u *url.URL) (bool, error) {
	if r == nil || !r.enabled {
		return true, nil
	}

	data, err := r.rules(ctx, u.Scheme+"://"+u.Host)
	if err != nil {
		return true, nil
	}
	return data.FindGroup(userAgent).Test(u.Path), nil
}

func (r *RobotsChecker) rules(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[origin]; ok && time.Now().Before(e.expires) {
		return e.data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.entries[origin] = robotsEntry{data: data, expires: time.Now().Add(r.cacheTTL)}
	return data, nil
}
