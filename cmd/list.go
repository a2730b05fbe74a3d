package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lukman83/storefront/internal/catalog"
	"github.com/lukman83/storefront/internal/listing"
	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/query"
	"github.com/lukman83/storefront/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List products with search, category filter, sort and paging",
	Long: `List products. A search takes precedence over categories; with several
categories their full collections are merged in the order given.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "Search text")
	listCmd.Flags().StringSliceP("category", "c", nil, "Category slug (repeatable or comma-separated)")
	listCmd.Flags().String("sort", "", "Sort field: title, price, rating")
	listCmd.Flags().String("order", "asc", "Sort order: asc, desc")
	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(listCmd)
}

type listOutput struct {
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
	Products   []models.Product `json:"products"`
}

func runList(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")
	categories, _ := cmd.Flags().GetStringSlice("category")
	sortName, _ := cmd.Flags().GetString("sort")
	orderName, _ := cmd.Flags().GetString("order")
	page, _ := cmd.Flags().GetInt("page")
	format, _ := cmd.Flags().GetString("format")

	st := query.NewState(cfg.ItemsPerPage)
	st.SetSearch(search)
	st.SetCategories(categories)
	field, err := query.ParseSortField(sortName)
	if err != nil {
		return err
	}
	st.SetSortField(field)
	order, err := query.ParseSortOrder(orderName)
	if err != nil {
		return err
	}
	st.SetSortOrder(order)
	if err := st.SetPage(page); err != nil {
		return err
	}

	a := newApp()

	spin := ui.NewSpinner()
	spin.Start("Loading products...")
	ctx := catalog.WithProgress(cmd.Context(), spin.Update)

	if st.Search() == "" && len(st.Categories()) > 0 {
		warnUnknownCategories(cmd, a, st.Categories())
	}

	res, err := listing.Execute(ctx, a.client, st, cfg.MaxConcurrent)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	switch format {
	case "json":
		return ui.PrintJSON(os.Stdout, listOutput{
			Page:       st.Page(),
			TotalPages: res.TotalPages,
			Total:      res.Total,
			Products:   res.Items,
		})
	default:
		offset := st.Offset()
		if st.Search() == "" && len(st.Categories()) > 0 {
			offset = 0
		}
		ui.PrintProducts(os.Stdout, res.Items, offset)
		fmt.Fprintln(os.Stdout)
		ui.PrintPagination(os.Stdout, st.Page(), res.TotalPages, res.Total)
	}
	return nil
}

// warnUnknownCategories checks slugs against the taxonomy. A failed category
// load only logs; the listing goes ahead.
func warnUnknownCategories(cmd *cobra.Command, a *app, slugs []string) {
	cats := listing.NewCategories(a.client, log)
	if _, err := cats.Load(cmd.Context()); err != nil {
		return
	}
	for _, slug := range slugs {
		if _, ok := cats.Lookup(slug); !ok {
			log.Warn().Str("category", slug).Msg("unknown category")
		}
	}
}
