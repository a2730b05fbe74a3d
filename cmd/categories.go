package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lukman83/storefront/internal/catalog"
	"github.com/lukman83/storefront/internal/ui"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	a := newApp()

	spin := ui.NewSpinner()
	spin.Start("Loading categories...")
	ctx := catalog.WithProgress(cmd.Context(), spin.Update)
	cats, err := a.client.Categories(ctx)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("categories failed: %w", err)
	}

	if format == "json" {
		return ui.PrintJSON(os.Stdout, cats)
	}
	if len(cats) == 0 {
		fmt.Println("No categories found.")
		return nil
	}
	ui.PrintCategories(os.Stdout, cats, nil)
	return nil
}
