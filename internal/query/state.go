// Package query holds the listing filter state and turns it into catalog requests.
package query

import (
	"fmt"
	"strings"
)

// DefaultItemsPerPage matches the page size the storefront has always shown.
const DefaultItemsPerPage = 20

type SortField string

const (
	SortNone   SortField = ""
	SortTitle  SortField = "title"
	SortPrice  SortField = "price"
	SortRating SortField = "rating"
)

// ParseSortField accepts the sort names users type; "none" and "default" clear sorting.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "default":
		return SortNone, nil
	case "title", "name":
		return SortTitle, nil
	case "price":
		return SortPrice, nil
	case "rating":
		return SortRating, nil
	}
	return SortNone, fmt.Errorf("unknown sort field %q (want title, price, rating or none)", s)
}

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort order %q (want asc or desc)", s)
}

// State is the listing filter state. Any change to the search text, sort field,
// sort order or category selection moves the listing back to page 1.
//
// State is a value type; setters never mutate a slice another copy can see.
type State struct {
	search     string
	sortField  SortField
	sortOrder  SortOrder
	categories []string
	page       int
	perPage    int
}

// NewState returns the initial state: no search, no sort, no filter, page 1.
func NewState(perPage int) State {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	return State{sortOrder: Ascending, page: 1, perPage: perPage}
}

func (s State) Search() string       { return s.search }
func (s State) SortField() SortField { return s.sortField }
func (s State) SortOrder() SortOrder { return s.sortOrder }
func (s State) Page() int            { return s.page }
func (s State) PerPage() int         { return s.perPage }

// Categories returns the selected slugs in selection order.
func (s State) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// HasCategory reports whether slug is part of the selection.
func (s State) HasCategory(slug string) bool {
	for _, c := range s.categories {
		if c == slug {
			return true
		}
	}
	return false
}

// Equal reports whether two states would produce the same listing.
func (s State) Equal(o State) bool {
	return s.search == o.search &&
		s.sortField == o.sortField &&
		s.sortOrder == o.sortOrder &&
		s.page == o.page &&
		s.perPage == o.perPage &&
		equalSlugs(s.categories, o.categories)
}

// Offset is the number of items before the current page.
func (s State) Offset() int {
	return (s.page - 1) * s.perPage
}

// SetSearch replaces the search text. Surrounding whitespace is not significant.
func (s *State) SetSearch(text string) bool {
	text = strings.TrimSpace(text)
	if text == s.search {
		return false
	}
	s.search = text
	s.page = 1
	return true
}

func (s *State) SetSortField(f SortField) bool {
	if f == s.sortField {
		return false
	}
	s.sortField = f
	s.page = 1
	return true
}

func (s *State) SetSortOrder(o SortOrder) bool {
	if o == s.sortOrder {
		return false
	}
	s.sortOrder = o
	s.page = 1
	return true
}

// SetCategories replaces the selection. Blank and repeated slugs are dropped;
// the first occurrence keeps its position.
func (s *State) SetCategories(slugs []string) bool {
	next := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		next = append(next, slug)
	}
	if equalSlugs(next, s.categories) {
		return false
	}
	s.categories = next
	s.page = 1
	return true
}

// ToggleCategory adds slug at the end of the selection or removes it.
func (s *State) ToggleCategory(slug string) bool {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return false
	}
	next := make([]string, 0, len(s.categories)+1)
	removed := false
	for _, c := range s.categories {
		if c == slug {
			removed = true
			continue
		}
		next = append(next, c)
	}
	if !removed {
		next = append(next, slug)
	}
	s.categories = next
	s.page = 1
	return true
}

func (s *State) ClearCategories() bool {
	return s.SetCategories(nil)
}

// SetPage moves to page n without touching the filters.
func (s *State) SetPage(n int) error {
	if n < 1 {
		return fmt.Errorf("page must be at least 1, got %d", n)
	}
	s.page = n
	return nil
}

// TotalPages is ceil(total/perPage), never less than 1.
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	if total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

func equalSlugs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
