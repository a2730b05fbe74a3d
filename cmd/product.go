package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lukman83/storefront/internal/catalog"
	"github.com/lukman83/storefront/internal/products"
	"github.com/lukman83/storefront/internal/ui"
	"github.com/lukman83/storefront/internal/validate"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Show, add, update or delete a product",
}

var productGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a product with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductGet,
}

var productAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	Args:  cobra.NoArgs,
	RunE:  runProductAdd,
}

var productUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update the given fields of a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductUpdate,
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductDelete,
}

func init() {
	productGetCmd.Flags().String("format", "table", "Output format: json, table")

	for _, c := range []*cobra.Command{productAddCmd, productUpdateCmd} {
		c.Flags().String("title", "", "Product title")
		c.Flags().String("description", "", "Product description")
		c.Flags().String("price", "", "Price, e.g. 12.50")
		c.Flags().String("category", "", "Category slug")
	}

	productCmd.AddCommand(productGetCmd, productAddCmd, productUpdateCmd, productDeleteCmd)
	rootCmd.AddCommand(productCmd)
}

func runProductGet(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	a := newApp()

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Loading product %d...", id))
	p, err := a.client.Product(catalog.WithProgress(cmd.Context(), spin.Update), id)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("product failed: %w", err)
	}

	if format == "json" {
		return ui.PrintJSON(os.Stdout, p)
	}
	ui.PrintProduct(os.Stdout, *p)
	return nil
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	form := validate.ProductForm{}
	form.Title, _ = cmd.Flags().GetString("title")
	form.Description, _ = cmd.Flags().GetString("description")
	form.Price, _ = cmd.Flags().GetString("price")
	form.Category, _ = cmd.Flags().GetString("category")

	svc := products.NewService(newApp().client, products.WithLogger(log))
	p, err := svc.Create(cmd.Context(), form)
	if err != nil {
		return err
	}
	fmt.Printf("Created product %d (%s).\n", p.ID, p.Title)
	return nil
}

func runProductUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}

	// Only flags the user set become part of the patch.
	var form validate.PatchForm
	for name, dst := range map[string]**string{
		"title":       &form.Title,
		"description": &form.Description,
		"price":       &form.Price,
		"category":    &form.Category,
	} {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetString(name)
			*dst = &v
		}
	}

	svc := products.NewService(newApp().client, products.WithLogger(log))
	p, err := svc.Update(cmd.Context(), id, form)
	if err != nil {
		return err
	}
	fmt.Printf("Updated product %d (%s).\n", p.ID, p.Title)
	return nil
}

func runProductDelete(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}

	svc := products.NewService(newApp().client, products.WithLogger(log))
	p, err := svc.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted product %d (%s).\n", p.ID, p.Title)
	return nil
}

func parseProductID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}
