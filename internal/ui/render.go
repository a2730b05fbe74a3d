// Package ui renders catalog data for the terminal.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lukman83/storefront/internal/models"
)

// MaxGalleryImages is how many product images the detail view lists.
const MaxGalleryImages = 4

// PrintProducts prints products in a card layout numbered from offset+1.
func PrintProducts(w io.Writer, products []models.Product, offset int) {
	if len(products) == 0 {
		fmt.Fprintln(w, " No products found.")
		return
	}
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, " %d. %s  [#%d]\n", offset+i+1, p.Title, p.ID)

		priceLine := "    Price: " + FormatPrice(p.Price)
		if p.DiscountPercentage > 0 {
			priceLine += fmt.Sprintf("  (-%.0f%%)", p.DiscountPercentage)
		}
		priceLine += fmt.Sprintf("  |  Rating: %.1f %s", p.Rating, Stars(p.Rating))
		fmt.Fprintln(w, priceLine)

		if p.Category != "" {
			fmt.Fprintf(w, "    Category: %s\n", p.Category)
		}
		if p.Description != "" {
			fmt.Fprintf(w, "    %s\n", Truncate(p.Description, 80))
		}
	}
}

// PrintProduct prints the detail view of one product with its reviews.
func PrintProduct(w io.Writer, p models.Product) {
	fmt.Fprintf(w, "%s  [#%d]\n", p.Title, p.ID)
	tags := []string{p.Category}
	if p.Brand != "" {
		tags = append(tags, p.Brand)
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(tags, " | "))
	fmt.Fprintf(w, "  %s + tax\n", FormatPrice(p.Price))
	fmt.Fprintf(w, "  %s (%.1f)\n", Stars(p.Rating), p.Rating)
	if p.Stock > 0 {
		fmt.Fprintf(w, "  %d in stock\n", p.Stock)
	} else {
		fmt.Fprintln(w, "  Out of Stock")
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n  %s\n", p.Description)
	}

	images := p.Images
	if len(images) > MaxGalleryImages {
		images = images[:MaxGalleryImages]
	}
	if len(images) > 0 {
		fmt.Fprintln(w, "\nImages:")
		for _, img := range images {
			fmt.Fprintf(w, "  %s\n", img)
		}
	}

	fmt.Fprintln(w, "\nReviews:")
	if len(p.Reviews) == 0 {
		fmt.Fprintln(w, "  No reviews yet.")
		return
	}
	for _, r := range p.Reviews {
		fmt.Fprintf(w, "  %s  %s\n", r.ReviewerName, Stars(r.Rating))
		fmt.Fprintf(w, "    %s\n", r.Comment)
	}
}

// PrintCategories lists categories, marking the selected ones.
func PrintCategories(w io.Writer, cats []models.Category, selected func(slug string) bool) {
	for _, c := range cats {
		mark := "[ ]"
		if selected != nil && selected(c.Slug) {
			mark = "[x]"
		}
		fmt.Fprintf(w, " %s %-22s %s\n", mark, c.Slug, c.Name)
	}
}

// PrintPagination prints "Page 2 of 10 (194 products)".
func PrintPagination(w io.Writer, page, totalPages, total int) {
	fmt.Fprintf(w, "Page %d of %d (%d products)\n", page, totalPages, total)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatPrice formats a price as "$1234.50".
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Stars draws a five-star bar with round(rating) filled stars.
func Stars(rating float64) string {
	n := int(math.Round(rating))
	n = max(0, min(5, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
