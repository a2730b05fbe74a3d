// Package listing keeps the product listing in sync with the filter state.
package listing

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/query"
)

// Fetcher executes one catalog request.
type Fetcher interface {
	Fetch(ctx context.Context, req query.Request) (*models.ProductPage, error)
}

// Result is one state's answer, normalized across query branches.
type Result struct {
	Items      []models.Product
	Total      int
	TotalPages int
}

// Execute runs the requests for s and reconciles them.
//
// Search and list requests are paged by the catalog, so Total is the server's
// count. Category requests fetch whole collections concurrently and are joined
// in selection order; Total is the joined length and the current page is not
// sliced out of it. Any failed category request fails the whole batch.
func Execute(ctx context.Context, f Fetcher, s query.State, maxConcurrent int) (Result, error) {
	reqs := query.Build(s)

	if len(reqs) == 1 && reqs[0].Kind != query.KindCategory {
		page, err := f.Fetch(ctx, reqs[0])
		if err != nil {
			return Result{}, err
		}
		return Result{
			Items:      page.Products,
			Total:      page.Total,
			TotalPages: query.TotalPages(page.Total, s.PerPage()),
		}, nil
	}

	if maxConcurrent <= 0 {
		maxConcurrent = len(reqs)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	results := make([][]models.Product, len(reqs))
	for i, req := range reqs {
		g.Go(func() error {
			page, err := f.Fetch(gctx, req)
			if err != nil {
				return fmt.Errorf("category %q: %w", req.Slug, err)
			}
			results[i] = page.Products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	items := flatten(results)
	return Result{
		Items:      items,
		Total:      len(items),
		TotalPages: query.TotalPages(len(items), s.PerPage()),
	}, nil
}

func flatten(results [][]models.Product) []models.Product {
	n := 0
	for _, r := range results {
		n += len(r)
	}
	out := make([]models.Product, 0, n)
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}
