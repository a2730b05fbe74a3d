// Package mcp exposes the catalog as MCP tools over stdio or HTTP.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/lukman83/storefront/internal/listing"
	"github.com/lukman83/storefront/internal/models"
)

const (
	serverName    = "storefront"
	serverVersion = "1.0.0"
)

// Catalog is what the tools read from.
type Catalog interface {
	listing.Fetcher
	listing.CategorySource
	Product(ctx context.Context, id int) (*models.Product, error)
}

// Deps are the tools' collaborators.
type Deps struct {
	Catalog       Catalog
	PerPage       int
	MaxConcurrent int
	Log           zerolog.Logger
}

func newServer(d Deps) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	registerTools(s, &tools{deps: d})
	return s
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(d Deps) error {
	d.Log.Info().Msg("storefront MCP server ready on stdio")
	return server.ServeStdio(newServer(d))
}
