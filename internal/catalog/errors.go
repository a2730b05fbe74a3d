package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lukman83/storefront/internal/httputil"
)

// ErrNotFound matches any APIError with status 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the catalog.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// newAPIError picks the most readable message the body offers: the JSON
// "message" field, then an HTML page title, then the status text.
func newAPIError(op string, status int, body []byte) *APIError {
	msg := ""
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = strings.TrimSpace(payload.Message)
	}
	if msg == "" {
		msg = httputil.HTMLTitle(body)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Op: op, StatusCode: status, Message: msg}
}
