package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lukman83/storefront/internal/listing"
	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/query"
)

type tools struct {
	deps Deps
}

func registerTools(s *server.MCPServer, t *tools) {
	// list_products
	listTool := mcp.NewTool("list_products",
		mcp.WithDescription("List catalog products. A search ignores categories; several categories are merged in the given order."),
		mcp.WithString("search",
			mcp.Description("Free-text search"),
		),
		mcp.WithString("categories",
			mcp.Description("Comma-separated category slugs"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Sort field: title, price, rating (default: none)"),
		),
		mcp.WithString("order",
			mcp.Description("Sort order: asc or desc (default: asc)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (default: 1)"),
		),
	)
	s.AddTool(listTool, t.handleListProducts)

	// list_categories
	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List the catalog's product categories"),
	)
	s.AddTool(categoriesTool, t.handleListCategories)

	// product_detail
	detailTool := mcp.NewTool("product_detail",
		mcp.WithDescription("Get one product with its reviews"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Product id"),
		),
	)
	s.AddTool(detailTool, t.handleProductDetail)
}

type productList struct {
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
	Products   []models.Product `json:"products"`
}

func (t *tools) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := query.NewState(t.deps.PerPage)
	st.SetSearch(request.GetString("search", ""))
	st.SetCategories(splitCSV(request.GetString("categories", "")))

	field, err := query.ParseSortField(request.GetString("sort_by", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st.SetSortField(field)
	order, err := query.ParseSortOrder(request.GetString("order", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st.SetSortOrder(order)
	if err := st.SetPage(request.GetInt("page", 1)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := listing.Execute(ctx, t.deps.Catalog, st, t.deps.MaxConcurrent)
	if err != nil {
		t.deps.Log.Warn().Err(err).Msg("list_products failed")
		return mcp.NewToolResultError(fmt.Sprintf("listing error: %v", err)), nil
	}

	return jsonResult(productList{
		Page:       st.Page(),
		TotalPages: res.TotalPages,
		Total:      res.Total,
		Products:   res.Items,
	})
}

func (t *tools) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := t.deps.Catalog.Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("categories error: %v", err)), nil
	}
	return jsonResult(cats)
}

func (t *tools) handleProductDetail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id < 1 {
		return mcp.NewToolResultError("id is required"), nil
	}

	product, err := t.deps.Catalog.Product(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detail error: %v", err)), nil
	}
	return jsonResult(product)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
