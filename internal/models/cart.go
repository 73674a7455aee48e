package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one entry of the shopping cart. Product is a snapshot taken
// when the line was created and is never refreshed.
type CartLine struct {
	ID              uuid.UUID `json:"id"`
	ProductID       string    `json:"product_id"`
	Product         Product   `json:"product"`
	Size            string    `json:"size,omitempty"`
	Color           string    `json:"color,omitempty"`
	SelectedOptions []Option  `json:"selected_options"`
	CustomText      string    `json:"custom_text,omitempty"`
	Quantity        int       `json:"quantity"`
}

// CartLineView is a line as rendered, with its derived prices.
type CartLineView struct {
	CartLine
	Index     int             `json:"index"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Lines []CartLineView  `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type AddItemRequest struct {
	ProductID  string   `json:"product_id" validate:"required"`
	Size       string   `json:"size,omitempty"`
	Color      string   `json:"color,omitempty"`
	Quantity   int      `json:"quantity" validate:"omitempty,gte=1,lte=999"`
	Options    []string `json:"options,omitempty" validate:"omitempty,dive,required"`
	CustomText string   `json:"custom_text,omitempty" validate:"omitempty,max=100"`
}

// UpdateQuantityRequest carries the new quantity. Values below 1 are
// accepted on the wire and ignored by the cart.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
