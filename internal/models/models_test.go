package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productJSON = `{
	"id": 1,
	"title": "Essence Mascara Lash Princess",
	"description": "Popular mascara",
	"category": "beauty",
	"price": 9.99,
	"rating": 4.94,
	"stock": 5,
	"brand": "Essence",
	"thumbnail": "https://cdn.example/1/thumbnail.png",
	"images": ["https://cdn.example/1/1.png"],
	"reviews": [
		{"rating": 2, "comment": "Very unhappy with my purchase!", "date": "2024-05-23T08:56:21.618Z",
		 "reviewerName": "John Doe", "reviewerEmail": "john.doe@x.dummyjson.com"}
	]
}`

func TestProduct_DecodesCatalogPayload(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(productJSON), &p))

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "beauty", p.Category)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	require.Len(t, p.Reviews, 1)
	assert.Equal(t, "John Doe", p.Reviews[0].ReviewerName)
	assert.Equal(t, 2024, p.Reviews[0].Date.Year())
}

func TestProductInput_PriceIsJSONNumber(t *testing.T) {
	in := ProductInput{Title: "Lamp", Price: decimal.RequireFromString("12.5"), Category: "lighting"}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":12.5`)
}

func TestProductPatch(t *testing.T) {
	title := "New title"
	patch := ProductPatch{Title: &title}

	assert.False(t, patch.Empty())
	assert.True(t, ProductPatch{}.Empty())

	data, err := json.Marshal(patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"New title"}`, string(data))

	got := patch.Apply(Product{ID: 3, Title: "Old", Category: "beauty"})
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "beauty", got.Category)
}

func TestLoginResult_SessionToken(t *testing.T) {
	assert.Equal(t, "access", LoginResult{Token: "legacy", AccessToken: "access"}.SessionToken())
	assert.Equal(t, "legacy", LoginResult{Token: "legacy"}.SessionToken())
}

func TestPriceMarshalsAsNumberWithoutGlobalFlag(t *testing.T) {
	require.False(t, decimal.MarshalJSONWithoutQuotes)
	price := decimal.RequireFromString("19.99")

	data, err := json.Marshal(Product{ID: 2, Title: "Eyeshadow", Price: price})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":19.99`)
	assert.NotContains(t, string(data), `"price":"19.99"`)

	data, err = json.Marshal(ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":19.99}`, string(data))

	var back Product
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, price.Equal(back.Price))
}
