package httputil

import "net/http"

// JSONHeaders returns the headers every catalog call sends.
// Accept-Encoding is set explicitly, so ReadBody decodes the body itself.
func JSONHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Accept-Encoding", "gzip, br")
	return h
}

// JSONBodyHeaders adds Content-Type for requests that carry a JSON body.
func JSONBodyHeaders() http.Header {
	h := JSONHeaders()
	h.Set("Content-Type", "application/json")
	return h
}

// SetHeaders copies h onto req, replacing existing values.
func SetHeaders(req *http.Request, h http.Header) {
	for k, v := range h {
		req.Header[k] = v
	}
}
