package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cart"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, order models.CreateOrderRequest) (*models.CheckoutResult, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetSettings(ctx context.Context) (*models.Settings, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, form *models.CheckoutForm) (*models.CheckoutResult, error)
	GetOrderConfirmation(ctx context.Context, orderID string) (*models.OrderConfirmation, error)
}

type checkoutService struct {
	cart   *cart.Store
	orders OrderAPI
}

func NewCheckoutService(store *cart.Store, orders OrderAPI) CheckoutService {
	return &checkoutService{cart: store, orders: orders}
}

// Checkout submits the cart as an order. Card payments come back with a
// hosted checkout URL and keep the cart until the payment is confirmed;
// manual payments come back with an order id and remove the submitted
// lines at once. Lines added while the order was in flight stay.
func (s *checkoutService) Checkout(ctx context.Context, form *models.CheckoutForm) (*models.CheckoutResult, error) {
	logger := middleware.LoggerFromContext(ctx)

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, appErrors.BadRequestError("Cannot create order with empty cart")
	}

	for i, line := range lines {
		if err := cart.ValidateSelection(line.SelectedOptions, line.CustomText); err != nil {
			logger.Warn("Cart line missing flocage text", slog.Int("index", i), slog.String("line_id", line.ID.String()))
			return nil, appErrors.PreconditionError("Flocage text missing").WithError(err).WithDetail(line.Product.Name)
		}
	}

	result, err := s.orders.CreateOrder(ctx, models.CreateOrderRequest{
		CheckoutForm: *form,
		Items:        cart.OrderItems(lines),
	})
	if err != nil {
		logger.Error("Failed to create order", slog.Any("error", err))
		return nil, err
	}

	if !result.NeedsRedirect() {
		if result.OrderID == "" {
			return nil, appErrors.ThirdPartyError("Order response carried neither checkout URL nor order id")
		}

		s.cart.RemoveOrdered(ctx, lines)
		logger.Info("Order placed for manual payment", slog.String("order_id", result.OrderID))
		return result, nil
	}

	logger.Info("Order placed, redirecting to payment", slog.String("payment_method", string(form.PaymentMethod)))
	return result, nil
}

// GetOrderConfirmation loads the order with the shop settings holding the
// bank and paypal details. Settings are optional.
func (s *checkoutService) GetOrderConfirmation(ctx context.Context, orderID string) (*models.OrderConfirmation, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	confirmation := &models.OrderConfirmation{Order: order}

	if order.PaymentMethod != models.PaymentMethodCard {
		settings, err := s.orders.GetSettings(ctx)
		if err != nil {
			middleware.LoggerFromContext(ctx).Warn("Settings unavailable for order confirmation", slog.Any("error", err))
		} else {
			confirmation.Settings = settings
		}
	}

	return confirmation, nil
}
