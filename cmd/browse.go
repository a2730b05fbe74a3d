package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lukman83/storefront/internal/browse"
	"github.com/lukman83/storefront/internal/listing"
	"github.com/lukman83/storefront/internal/products"
	"github.com/lukman83/storefront/internal/sidebar"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a := newApp()

	coord := listing.New(a.client, cfg.ItemsPerPage,
		listing.WithMaxConcurrent(cfg.MaxConcurrent),
		listing.WithLogger(log),
	)
	menu := sidebar.New()
	menu.Subscribe(func(open bool) {
		log.Debug().Bool("open", open).Msg("category menu toggled")
	})

	shell := &browse.Shell{
		Listing:    coord,
		Categories: listing.NewCategories(a.client, log),
		Menu:       menu,
		Products:   products.NewService(a.client, products.WithListing(coord), products.WithLogger(log)),
		Detail:     a.client,
		Log:        log,
	}

	log.Debug().Str("base_url", cfg.BaseURL).Msg("browse session started")
	return shell.Run(cmd.Context(), os.Stdin, os.Stdout)
}
