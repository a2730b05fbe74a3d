package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/lukman83/storefront/mcp"
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Start MCP HTTP server",
	Long:  "Start the MCP server over HTTP for remote access.",
	RunE:  runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, args []string) error {
	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	addr := fmt.Sprintf(":%s", port)
	return mcpserver.ServeHTTP(cmd.Context(), addr, cfg.APIKey, mcpDeps())
}
