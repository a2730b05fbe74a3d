package validate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lukman83/storefront/internal/models"
)

// ProductForm is the create form as typed by the user.
type ProductForm struct {
	Title       string `label:"Title" validate:"required"`
	Description string `label:"Description" validate:"required"`
	Price       string `label:"Price" validate:"required,price"`
	Category    string `label:"Category" validate:"required"`
}

func (f ProductForm) trimmed() ProductForm {
	return ProductForm{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Price:       strings.TrimSpace(f.Price),
		Category:    strings.TrimSpace(f.Category),
	}
}

func ValidateProduct(f ProductForm) Result {
	return check(f.trimmed())
}

// Input converts a form that passed ValidateProduct.
func (f ProductForm) Input() (models.ProductInput, error) {
	f = f.trimmed()
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return models.ProductInput{}, err
	}
	return models.ProductInput{
		Title:       f.Title,
		Description: f.Description,
		Price:       price,
		Category:    f.Category,
	}, nil
}

// PatchForm is the edit form. Nil fields are left unchanged; a given field
// obeys the same rule as on create.
type PatchForm struct {
	Title       *string
	Description *string
	Price       *string
	Category    *string
}

func ValidatePatch(f PatchForm) Result {
	var res Result
	if f.Title == nil && f.Description == nil && f.Price == nil && f.Category == nil {
		res.Errors = append(res.Errors, FieldError{Message: "nothing to update"})
		return res
	}
	if f.Title != nil {
		res.Errors = append(res.Errors, checkVar("Title", strings.TrimSpace(*f.Title), "required")...)
	}
	if f.Description != nil {
		res.Errors = append(res.Errors, checkVar("Description", strings.TrimSpace(*f.Description), "required")...)
	}
	if f.Price != nil {
		res.Errors = append(res.Errors, checkVar("Price", strings.TrimSpace(*f.Price), "required,price")...)
	}
	if f.Category != nil {
		res.Errors = append(res.Errors, checkVar("Category", strings.TrimSpace(*f.Category), "required")...)
	}
	return res
}

// Patch converts a form that passed ValidatePatch.
func (f PatchForm) Patch() (models.ProductPatch, error) {
	var p models.ProductPatch
	if f.Title != nil {
		s := strings.TrimSpace(*f.Title)
		p.Title = &s
	}
	if f.Description != nil {
		s := strings.TrimSpace(*f.Description)
		p.Description = &s
	}
	if f.Price != nil {
		d, err := decimal.NewFromString(strings.TrimSpace(*f.Price))
		if err != nil {
			return models.ProductPatch{}, err
		}
		p.Price = &d
	}
	if f.Category != nil {
		s := strings.TrimSpace(*f.Category)
		p.Category = &s
	}
	return p, nil
}

type LoginForm struct {
	Username string `label:"Username" validate:"required"`
	Password string `label:"Password" validate:"required,min=4"`
}

func ValidateLogin(f LoginForm) Result {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}
