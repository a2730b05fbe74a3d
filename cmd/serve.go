package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/lukman83/storefront/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func mcpDeps() mcpserver.Deps {
	return mcpserver.Deps{
		Catalog:       newApp().client,
		PerPage:       cfg.ItemsPerPage,
		MaxConcurrent: cfg.MaxConcurrent,
		Log:           log,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "Starting storefront MCP server on stdio...")

	if err := mcpserver.Serve(mcpDeps()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
