package transport

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestTransport_SetsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	client := &http.Client{Transport: &Transport{
		UserAgent:   "storefront-test",
		Token:       func() string { return "abc" },
		RateLimiter: rate.NewLimiter(rate.Inf, 1),
		Log:         zerolog.Nop(),
	}}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/products", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "storefront-test", got.Get("User-Agent"))
	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
	assert.Empty(t, req.Header.Get("X-Request-ID"), "caller's request is not mutated")
}

func TestTransport_NoTokenNoAuthorization(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := &http.Client{Transport: &Transport{Token: func() string { return "" }, Log: zerolog.Nop()}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, auth)
}

func TestTransport_RobotsDisallow(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /auth/\n"))
			return
		}
		hits.Add(1)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &Transport{
		UserAgent: "storefront-test",
		Robots:    NewRobotsChecker(srv.Client(), true),
		Log:       zerolog.Nop(),
	}}

	_, err := client.Get(srv.URL + "/auth/login")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDisallowed))

	resp, err := client.Get(srv.URL + "/products")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(1), hits.Load())
}

func TestRobotsChecker_DisabledAllowsWithoutFetching(t *testing.T) {
	var robotsHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			w.Write([]byte("User-agent: *\nDisallow: /\n"))
		}
	}))
	defer srv.Close()

	client := &http.Client{Transport: &Transport{
		Robots: NewRobotsChecker(srv.Client(), false),
		Log:    zerolog.Nop(),
	}}
	resp, err := client.Get(srv.URL + "/products")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int32(0), robotsHits.Load())
}
