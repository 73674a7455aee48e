package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

// CreateOrder places an order. The result holds a checkout URL for card
// payments and an order id for manual ones.
func (c *Client) CreateOrder(ctx context.Context, order models.CreateOrderRequest) (*models.CheckoutResult, error) {
	req := request{method: http.MethodPost, path: "orders", body: order}
	if c.origin != "" {
		req.header = http.Header{"Origin": {c.origin}}
	}

	var result models.CheckoutResult
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	req := request{method: http.MethodGet, path: "orders/" + url.PathEscape(id), endpoint: "orders/{id}"}
	if err := c.do(ctx, req, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetPaymentStatus reads the checkout session state used to confirm a payment.
func (c *Client) GetPaymentStatus(ctx context.Context, sessionID string) (*models.PaymentSessionStatus, error) {
	var status models.PaymentSessionStatus
	req := request{method: http.MethodGet, path: "payments/status/" + url.PathEscape(sessionID), endpoint: "payments/status/{session_id}"}
	if err := c.do(ctx, req, &status); err != nil {
		return nil, err
	}

	return &status, nil
}
