package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukman83/storefront/internal/catalog"
	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/query"
)

type fakeCatalog struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeCatalog) Fetch(_ context.Context, req query.Request) (*models.ProductPage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req.PathAndQuery())
	f.mu.Unlock()
	if req.Slug == "broken" {
		return nil, errors.New("boom")
	}
	return &models.ProductPage{Products: []models.Product{{ID: 1, Title: req.Slug}}, Total: 41}, nil
}

func (f *fakeCatalog) Categories(context.Context) ([]models.Category, error) {
	return []models.Category{{Slug: "beauty", Name: "Beauty"}}, nil
}

func (f *fakeCatalog) Product(_ context.Context, id int) (*models.Product, error) {
	if id != 1 {
		return nil, &catalog.APIError{Op: "get product", StatusCode: 404, Message: "not found"}
	}
	return &models.Product{ID: 1, Title: "Mascara"}, nil
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func newTools(f *fakeCatalog) *tools {
	return &tools{deps: Deps{Catalog: f, PerPage: 20, MaxConcurrent: 2, Log: zerolog.Nop()}}
}

func TestListProducts_Search(t *testing.T) {
	f := &fakeCatalog{}
	res, text := call(t, newTools(f).handleListProducts, map[string]any{
		"search":     "phone",
		"categories": "laptops",
		"sort_by":    "price",
		"order":      "desc",
		"page":       float64(2),
	})

	require.False(t, res.IsError, text)
	assert.Equal(t, []string{"/products/search?q=phone&limit=20&skip=20&sortBy=price&order=desc"}, f.requests)

	var out productList
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 3, out.TotalPages)
}

func TestListProducts_Categories(t *testing.T) {
	f := &fakeCatalog{}
	_, text := call(t, newTools(f).handleListProducts, map[string]any{"categories": "laptops, beauty"})

	var out productList
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.Len(t, out.Products, 2)
	assert.Equal(t, "laptops", out.Products[0].Title)
	assert.Equal(t, "beauty", out.Products[1].Title)
	assert.Equal(t, 2, out.Total)
}

func TestListProducts_Errors(t *testing.T) {
	tl := newTools(&fakeCatalog{})

	res, text := call(t, tl.handleListProducts, map[string]any{"sort_by": "stock"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "unknown sort field")

	res, text = call(t, tl.handleListProducts, map[string]any{"categories": "beauty,broken"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "listing error")
}

func TestProductDetail(t *testing.T) {
	tl := newTools(&fakeCatalog{})

	res, text := call(t, tl.handleProductDetail, map[string]any{"id": float64(1)})
	assert.False(t, res.IsError)
	assert.Contains(t, text, "Mascara")

	res, _ = call(t, tl.handleProductDetail, map[string]any{})
	assert.True(t, res.IsError)

	res, text = call(t, tl.handleProductDetail, map[string]any{"id": float64(9)})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "not found")
}

func TestListCategories(t *testing.T) {
	_, text := call(t, newTools(&fakeCatalog{}).handleListCategories, nil)
	assert.Contains(t, text, `"slug": "beauty"`)
}

func TestHandler_HealthAndAuth(t *testing.T) {
	srv := httptest.NewServer(NewHandler("secret", Deps{Catalog: &fakeCatalog{}, PerPage: 20, Log: zerolog.Nop()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/mcp", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/mcp", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "invalid_token")
}
