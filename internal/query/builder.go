package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Kind names the catalog endpoint a request goes to.
type Kind int

const (
	KindList Kind = iota
	KindSearch
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindSearch:
		return "search"
	case KindCategory:
		return "category"
	}
	return "unknown"
}

type Param struct {
	Key   string
	Value string
}

// Request describes one catalog call. Params keep their insertion order so the
// encoded query string is stable.
type Request struct {
	Kind   Kind
	Slug   string // KindCategory only
	Params []Param
}

// Path returns the endpoint path relative to the catalog origin.
func (r Request) Path() string {
	switch r.Kind {
	case KindSearch:
		return "/products/search"
	case KindCategory:
		return "/products/category/" + url.PathEscape(r.Slug)
	default:
		return "/products"
	}
}

// Query encodes Params in order.
func (r Request) Query() string {
	var b strings.Builder
	for i, p := range r.Params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// PathAndQuery is the request target, e.g. "/products?limit=20&skip=0".
func (r Request) PathAndQuery() string {
	q := r.Query()
	if q == "" {
		return r.Path()
	}
	return r.Path() + "?" + q
}

// Param returns the value of the first param named key.
func (r Request) Param(key string) (string, bool) {
	for _, p := range r.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Build turns a state into the requests that answer it, in precedence order:
// a non-empty search wins over categories; otherwise each selected category
// gets its own full-collection request; otherwise the plain listing is paged.
// Sort parameters ride on the search and list requests only.
func Build(s State) []Request {
	switch {
	case s.search != "":
		req := Request{Kind: KindSearch, Params: []Param{{"q", s.search}}}
		req.Params = append(req.Params, pageParams(s)...)
		req.Params = append(req.Params, sortParams(s)...)
		return []Request{req}

	case len(s.categories) > 0:
		reqs := make([]Request, 0, len(s.categories))
		for _, slug := range s.categories {
			reqs = append(reqs, Request{
				Kind: KindCategory,
				Slug: slug,
				// limit=0 asks the catalog for the whole collection
				Params: []Param{{"limit", "0"}},
			})
		}
		return reqs

	default:
		req := Request{Kind: KindList, Params: pageParams(s)}
		req.Params = append(req.Params, sortParams(s)...)
		return []Request{req}
	}
}

func pageParams(s State) []Param {
	return []Param{
		{"limit", strconv.Itoa(s.perPage)},
		{"skip", strconv.Itoa(s.Offset())},
	}
}

func sortParams(s State) []Param {
	if s.sortField == SortNone {
		return nil
	}
	return []Param{
		{"sortBy", string(s.sortField)},
		{"order", string(s.sortOrder)},
	}
}
