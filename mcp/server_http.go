package mcp

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
)

// ServeHTTP serves the MCP endpoint on addr until ctx is cancelled. A
// non-empty apiKey requires "Authorization: Bearer <apiKey>" on /mcp.
func ServeHTTP(ctx context.Context, addr, apiKey string, d Deps) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewHandler(apiKey, d),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.Log.Info().Str("addr", addr).Bool("auth", apiKey != "").Msg("storefront MCP HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	d.Log.Info().Msg("storefront MCP HTTP server stopped")
	return nil
}

// NewHandler routes /healthz and /mcp.
func NewHandler(apiKey string, d Deps) http.Handler {
	httpServer := server.NewStreamableHTTPServer(newServer(d), server.WithStateLess(true))

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	var mcpHandler http.Handler = httpServer
	if apiKey != "" {
		mcpHandler = bearerAuth(apiKey, httpServer)
	}
	mux.Handle("/mcp", mcpHandler)
	return mux
}

func bearerAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp"`)
			http.Error(w, `{"error":"missing Authorization header"}`, http.StatusUnauthorized)
			return
		}
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp", error="invalid_token"`)
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
