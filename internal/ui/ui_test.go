package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lukman83/storefront/internal/models"
)

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★★☆", Stars(4.49))
	assert.Equal(t, "★★★★★", Stars(4.5))
	assert.Equal(t, "★★★★★", Stars(7))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$9.99", FormatPrice(decimal.RequireFromString("9.99")))
	assert.Equal(t, "$1899.00", FormatPrice(decimal.NewFromInt(1899)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
}

func TestPrintProducts(t *testing.T) {
	var buf bytes.Buffer
	PrintProducts(&buf, []models.Product{
		{ID: 1, Title: "Mascara", Price: decimal.RequireFromString("9.99"), Rating: 4.2, Category: "beauty", DiscountPercentage: 7.17},
		{ID: 2, Title: "Eyeshadow", Price: decimal.RequireFromString("19.99"), Rating: 2.8},
	}, 20)

	out := buf.String()
	assert.Contains(t, out, " 21. Mascara  [#1]")
	assert.Contains(t, out, "Price: $9.99  (-7%)  |  Rating: 4.2 ★★★★☆")
	assert.Contains(t, out, " 22. Eyeshadow")
	assert.Contains(t, out, "Category: beauty")
}

func TestPrintProducts_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintProducts(&buf, nil, 0)
	assert.Contains(t, buf.String(), "No products found.")
}

func TestPrintProduct(t *testing.T) {
	var buf bytes.Buffer
	PrintProduct(&buf, models.Product{
		ID:     5,
		Title:  "Lamp",
		Price:  decimal.NewFromInt(12),
		Rating: 3.6,
		Images: []string{"a.png", "b.png", "c.png", "d.png", "e.png"},
		Reviews: []models.Review{
			{Rating: 5, Comment: "Bright!", ReviewerName: "Ann", Date: time.Now()},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "$12.00 + tax")
	assert.Contains(t, out, "★★★★☆ (3.6)")
	assert.Contains(t, out, "Out of Stock")
	assert.Contains(t, out, "d.png")
	assert.NotContains(t, out, "e.png")
	assert.Contains(t, out, "Ann  ★★★★★")
}

func TestPrintCategories(t *testing.T) {
	var buf bytes.Buffer
	PrintCategories(&buf, []models.Category{
		{Slug: "beauty", Name: "Beauty"},
		{Slug: "laptops", Name: "Laptops"},
	}, func(slug string) bool { return slug == "laptops" })

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "[ ] beauty"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "[x] laptops"))
}

func TestSpinner_StopClearsLine(t *testing.T) {
	var buf syncBuffer
	s := NewSpinnerTo(&buf)
	s.Start("Loading...")
	s.Update("Still loading...")
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"))
}
