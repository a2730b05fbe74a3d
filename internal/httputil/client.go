package httputil

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
)

// NewHTTPClient creates an HTTP client with sensible defaults.
// An optional RoundTripper (e.g. transport.Transport) can be injected.
func NewHTTPClient(transport http.RoundTripper, timeout time.Duration) *http.Client {
	if transport == nil {
		transport = NewBaseTransport()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// NewBaseTransport is the pooled transport every pipeline ends in.
func NewBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// Do performs an HTTP request, retrying transport errors and 5xx responses up
// to maxRetries extra times. maxRetries of 0 sends exactly once.
// On retry, the request body is reset via req.GetBody if available.
func Do(client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		return client.Do(req)
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("reset request body for retry: %w", err)
				}
				req.Body = body
			}
			select {
			case <-time.After(time.Duration(i) * 500 * time.Millisecond):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 && i < maxRetries {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// ReadBody reads and decompresses an HTTP response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		var err error
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer reader.Close()
	case "br":
		reader = io.NopCloser(brotli.NewReader(resp.Body))
	default:
		reader = resp.Body
	}
	return io.ReadAll(reader)
}
