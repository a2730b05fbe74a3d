package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Review struct {
	Rating        float64   `json:"rating"`
	Comment       string    `json:"comment"`
	Date          time.Time `json:"date"`
	ReviewerName  string    `json:"reviewerName"`
	ReviewerEmail string    `json:"reviewerEmail"`
}

type Product struct {
	ID                 int             `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage float64         `json:"discountPercentage,omitempty"`
	Category           string          `json:"category"`
	Brand              string          `json:"brand,omitempty"`
	Rating             float64         `json:"rating"`
	Stock              int             `json:"stock"`
	Thumbnail          string          `json:"thumbnail,omitempty"`
	Images             []string        `json:"images,omitempty"`
	Reviews            []Review        `json:"reviews,omitempty"`
	IsDeleted          bool            `json:"isDeleted,omitempty"`
	DeletedOn          *time.Time      `json:"deletedOn,omitempty"`
}

// number renders a price the way the catalog expects it: a bare JSON number.
// decimal.Decimal alone marshals as a quoted string.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price json.Number `json:"price"`
	}{product(p), number(p.Price)})
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ProductPage is the envelope every product list endpoint returns.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// ProductInput is the body of a create request.
type ProductInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

func (in ProductInput) MarshalJSON() ([]byte, error) {
	type input ProductInput
	return json.Marshal(struct {
		input
		Price json.Number `json:"price"`
	}{input(in), number(in.Price)})
}

// ProductPatch carries only the fields an update changes.
type ProductPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Category == nil
}

func (p ProductPatch) MarshalJSON() ([]byte, error) {
	type patch ProductPatch
	out := struct {
		patch
		Price *json.Number `json:"price,omitempty"`
	}{patch: patch(p)}
	if p.Price != nil {
		n := number(*p.Price)
		out.Price = &n
	}
	return json.Marshal(out)
}

// Apply copies the patched fields onto a local product copy.
func (p ProductPatch) Apply(prod Product) Product {
	if p.Title != nil {
		prod.Title = *p.Title
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	return prod
}

type Credentials struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins,omitempty"`
}

type LoginResult struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Token        string `json:"token,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// SessionToken returns whichever token field the service filled in.
func (r LoginResult) SessionToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}
