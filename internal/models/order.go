package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

type PaymentStatus string

type PaymentMethod string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

// OrderItemRequest is a cart line as the order endpoint expects it.
type OrderItemRequest struct {
	ProductID       string   `json:"product_id"`
	Quantity        int      `json:"quantity"`
	Size            string   `json:"size,omitempty"`
	Color           string   `json:"color,omitempty"`
	SelectedOptions []Option `json:"selected_options"`
	FlocageText     string   `json:"flocage_text"`
}

// CheckoutForm is what the shopper fills in; items come from the cart.
type CheckoutForm struct {
	CustomerName    string        `json:"customer_name" validate:"required,min=2,max=120"`
	CustomerEmail   string        `json:"customer_email" validate:"required,email"`
	CustomerPhone   string        `json:"customer_phone" validate:"required,min=6,max=30"`
	ShippingAddress string        `json:"shipping_address" validate:"required"`
	ShippingCity    string        `json:"shipping_city" validate:"required"`
	ShippingPostal  string        `json:"shipping_postal" validate:"required,max=12"`
	PaymentMethod   PaymentMethod `json:"payment_method" validate:"required,oneof=card bank paypal"`
	Notes           string        `json:"notes,omitempty" validate:"max=1000"`
}

type CreateOrderRequest struct {
	CheckoutForm
	Items []OrderItemRequest `json:"items"`
}

// CheckoutResult holds either a hosted payment page to redirect to or the
// id of an order awaiting manual payment.
type CheckoutResult struct {
	CheckoutURL string `json:"checkout_url,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
}

func (r *CheckoutResult) NeedsRedirect() bool {
	return r.CheckoutURL != ""
}

type OrderItem struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Size            string          `json:"size,omitempty"`
	Color           string          `json:"color,omitempty"`
	SelectedOptions []Option        `json:"selected_options,omitempty"`
	FlocageText     string          `json:"flocage_text,omitempty"`
}

type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingCity    string          `json:"shipping_city"`
	ShippingPostal  string          `json:"shipping_postal"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Notes           string          `json:"notes,omitempty"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	OrderStatus     OrderStatus     `json:"order_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderConfirmation pairs an order with the settings needed to show
// manual payment instructions.
type OrderConfirmation struct {
	Order    *Order    `json:"order"`
	Settings *Settings `json:"settings,omitempty"`
}

type UpdateOrderRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed"`
	OrderStatus   OrderStatus   `json:"order_status,omitempty" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
}
