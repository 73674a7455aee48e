package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// the remote API exchanges prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	OptionTypePatch   = "patch"
	OptionTypeFlocage = "flocage"
)

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// Option is a priced add-on offered by a product and picked into a cart line.
type Option struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Type  string          `json:"type,omitempty"`
}

type Product struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Slug                 string          `json:"slug,omitempty"`
	Brand                string          `json:"brand,omitempty"`
	Description          string          `json:"description,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Images               []string        `json:"images,omitempty"`
	Sizes                []string        `json:"sizes,omitempty"`
	Colors               []string        `json:"colors,omitempty"`
	CustomizationOptions []Option        `json:"customization_options,omitempty"`
	CategoryID           string          `json:"category_id,omitempty"`
	Stock                int             `json:"stock"`
	Featured             bool            `json:"featured"`
	Active               bool            `json:"active"`
}

// FindOption returns the product's add-on called name.
func (p *Product) FindOption(name string) (Option, bool) {
	for _, opt := range p.CustomizationOptions {
		if opt.Name == name {
			return opt, true
		}
	}

	return Option{}, false
}

// ProductFilter narrows a product listing. Zero values are not sent.
type ProductFilter struct {
	Featured bool   `json:"featured,omitempty"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=200"`
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
}

type CreateProductRequest struct {
	Name                 string          `json:"name" validate:"required,min=2,max=200"`
	Slug                 string          `json:"slug" validate:"required"`
	Description          string          `json:"description,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Images               []string        `json:"images,omitempty" validate:"omitempty,dive,url"`
	CategoryID           string          `json:"category_id" validate:"required"`
	Sizes                []string        `json:"sizes,omitempty"`
	Colors               []string        `json:"colors,omitempty"`
	CustomizationOptions []Option        `json:"customization_options,omitempty" validate:"omitempty,dive"`
	Brand                string          `json:"brand,omitempty"`
	Stock                int             `json:"stock" validate:"gte=0"`
	Featured             bool            `json:"featured"`
	Active               bool            `json:"active"`
}

type UpdateProductRequest struct {
	Name                 *string          `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Slug                 *string          `json:"slug,omitempty"`
	Description          *string          `json:"description,omitempty"`
	Price                *decimal.Decimal `json:"price,omitempty"`
	Images               []string         `json:"images,omitempty" validate:"omitempty,dive,url"`
	CategoryID           *string          `json:"category_id,omitempty"`
	Sizes                []string         `json:"sizes,omitempty"`
	Colors               []string         `json:"colors,omitempty"`
	CustomizationOptions []Option         `json:"customization_options,omitempty" validate:"omitempty,dive"`
	Brand                *string          `json:"brand,omitempty"`
	Stock                *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Featured             *bool            `json:"featured,omitempty"`
	Active               *bool            `json:"active,omitempty"`
}
