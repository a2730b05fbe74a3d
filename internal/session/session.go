// Package session persists the login token as a cookie between CLI runs.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the storefront has always kept its token in.
const CookieName = "token"

// ErrNoSession means there is no unexpired token.
var ErrNoSession = errors.New("not logged in")

// Store keeps one cookie in a file. A cookie past its expiry counts as absent.
type Store struct {
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Path() string { return s.path }

// Save writes token with the given lifetime, replacing any earlier session.
func (s *Store) Save(token string, ttl time.Duration) (*http.Cookie, error) {
	if token == "" {
		return nil, fmt.Errorf("save session: empty token")
	}
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(ttl).UTC().Truncate(time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	if err := cookie.Valid(); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(cookie.String()+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return cookie, nil
}

// Load returns the stored cookie, or ErrNoSession when it is missing or expired.
func (s *Store) Load() (*http.Cookie, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	cookie, err := http.ParseSetCookie(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if cookie.Name != CookieName || cookie.Value == "" {
		return nil, ErrNoSession
	}
	if !cookie.Expires.IsZero() && !s.now().Before(cookie.Expires) {
		return nil, ErrNoSession
	}
	return cookie, nil
}

// Token returns the current token and whether one is present. It is the
// only authentication signal the client has.
func (s *Store) Token() (string, bool) {
	cookie, err := s.Load()
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// Clear removes the session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Claims are the fields the catalog puts in its access tokens.
type Claims struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a token's claims without checking its signature; the
// signing key belongs to the catalog. Use it for display only.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}
	return claims, nil
}
