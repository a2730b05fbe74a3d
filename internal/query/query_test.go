package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ListAll(t *testing.T) {
	s := NewState(20)

	reqs := Build(s)

	require.Len(t, reqs, 1)
	assert.Equal(t, KindList, reqs[0].Kind)
	assert.Equal(t, "/products?limit=20&skip=0", reqs[0].PathAndQuery())
}

func TestBuild_ListAllOffsetFollowsPage(t *testing.T) {
	for page := 1; page <= 5; page++ {
		t.Run(fmt.Sprintf("page %d", page), func(t *testing.T) {
			s := NewState(20)
			require.NoError(t, s.SetPage(page))

			reqs := Build(s)

			require.Len(t, reqs, 1)
			assert.Equal(t, KindList, reqs[0].Kind)
			skip, _ := reqs[0].Param("skip")
			assert.Equal(t, fmt.Sprint((page-1)*20), skip)
		})
	}
}

func TestBuild_Search(t *testing.T) {
	s := NewState(20)
	s.SetSearch("phone")
	require.NoError(t, s.SetPage(2))

	reqs := Build(s)

	require.Len(t, reqs, 1)
	assert.Equal(t, KindSearch, reqs[0].Kind)
	assert.Equal(t, "/products/search?q=phone&limit=20&skip=20", reqs[0].PathAndQuery())
}

func TestBuild_SearchIgnoresCategories(t *testing.T) {
	s := NewState(20)
	s.SetCategories([]string{"smartphones", "laptops"})
	s.SetSearch("phone")

	reqs := Build(s)

	require.Len(t, reqs, 1)
	assert.Equal(t, KindSearch, reqs[0].Kind)
	assert.Empty(t, reqs[0].Slug)
}

func TestBuild_CategoriesOnePerSlug(t *testing.T) {
	s := NewState(20)
	s.SetCategories([]string{"smartphones", "laptops"})
	s.SetSortField(SortPrice)
	require.NoError(t, s.SetPage(3))

	reqs := Build(s)

	require.Len(t, reqs, 2)
	assert.Equal(t, "smartphones", reqs[0].Slug)
	assert.Equal(t, "laptops", reqs[1].Slug)
	for _, r := range reqs {
		assert.Equal(t, KindCategory, r.Kind)
		_, sorted := r.Param("sortBy")
		assert.False(t, sorted, "category requests carry no sort params")
		_, skipped := r.Param("skip")
		assert.False(t, skipped, "category requests are not paged")
	}
	assert.Equal(t, "/products/category/laptops?limit=0", reqs[1].PathAndQuery())
}

func TestBuild_SortParams(t *testing.T) {
	s := NewState(20)
	s.SetSortField(SortRating)
	s.SetSortOrder(Descending)

	reqs := Build(s)
	assert.Equal(t, "/products?limit=20&skip=0&sortBy=rating&order=desc", reqs[0].PathAndQuery())

	s.SetSearch("red lipstick")
	reqs = Build(s)
	assert.Equal(t, "/products/search?q=red+lipstick&limit=20&skip=0&sortBy=rating&order=desc", reqs[0].PathAndQuery())
}

func TestBuild_BlankSearchFallsThrough(t *testing.T) {
	s := NewState(20)
	s.SetSearch("   ")

	reqs := Build(s)

	require.Len(t, reqs, 1)
	assert.Equal(t, KindList, reqs[0].Kind)
}

func TestState_FilterChangesResetPage(t *testing.T) {
	changes := map[string]func(*State) bool{
		"search":     func(s *State) bool { return s.SetSearch("laptop") },
		"sort field": func(s *State) bool { return s.SetSortField(SortTitle) },
		"sort order": func(s *State) bool { return s.SetSortOrder(Descending) },
		"categories": func(s *State) bool { return s.SetCategories([]string{"beauty"}) },
		"toggle":     func(s *State) bool { return s.ToggleCategory("beauty") },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := NewState(20)
			require.NoError(t, s.SetPage(4))

			assert.True(t, change(&s))
			assert.Equal(t, 1, s.Page())
		})
	}
}

func TestState_NoOpChangeKeepsPage(t *testing.T) {
	s := NewState(20)
	s.SetSearch("laptop")
	require.NoError(t, s.SetPage(3))

	assert.False(t, s.SetSearch("laptop"))
	assert.False(t, s.SetSortOrder(Ascending))
	assert.Equal(t, 3, s.Page())
}

func TestState_SetPageRejectsZero(t *testing.T) {
	s := NewState(20)
	assert.Error(t, s.SetPage(0))
	assert.Equal(t, 1, s.Page())
}

func TestState_CategorySelectionOrder(t *testing.T) {
	s := NewState(20)
	s.SetCategories([]string{"laptops", " ", "beauty", "laptops"})
	assert.Equal(t, []string{"laptops", "beauty"}, s.Categories())

	s.ToggleCategory("groceries")
	s.ToggleCategory("laptops")
	assert.Equal(t, []string{"beauty", "groceries"}, s.Categories())
	assert.True(t, s.HasCategory("groceries"))
	assert.False(t, s.HasCategory("laptops"))
}

func TestState_CopiesDoNotShareSelection(t *testing.T) {
	a := NewState(20)
	a.SetCategories([]string{"beauty"})
	b := a
	b.ToggleCategory("laptops")

	assert.Equal(t, []string{"beauty"}, a.Categories())
	assert.Equal(t, []string{"beauty", "laptops"}, b.Categories())
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{25, 20, 2},
		{194, 20, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.perPage), "total=%d", tt.total)
	}
}

func TestParseSort(t *testing.T) {
	f, err := ParseSortField("Name")
	require.NoError(t, err)
	assert.Equal(t, SortTitle, f)

	f, err = ParseSortField("default")
	require.NoError(t, err)
	assert.Equal(t, SortNone, f)

	_, err = ParseSortField("stock")
	assert.Error(t, err)

	o, err := ParseSortOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, o)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}

func TestRequest_PathEscapesSlug(t *testing.T) {
	r := Request{Kind: KindCategory, Slug: "mens shirts"}
	assert.Equal(t, "/products/category/mens%20shirts", r.Path())
	assert.Equal(t, "category", r.Kind.String())
}

func TestState_Equal(t *testing.T) {
	a := NewState(20)
	b := NewState(20)
	assert.True(t, a.Equal(b))

	b.ToggleCategory("beauty")
	assert.False(t, a.Equal(b))

	a.SetCategories([]string{"beauty"})
	assert.True(t, a.Equal(b))

	require.NoError(t, a.SetPage(2))
	assert.False(t, a.Equal(b))
}
