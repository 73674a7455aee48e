package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cart"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type CartService interface {
	GetCart(ctx context.Context) models.CartView
	AddItem(ctx context.Context, req *models.AddItemRequest) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, index, quantity int) (models.CartView, error)
	UpdateLineQuantity(ctx context.Context, id uuid.UUID, quantity int) (models.CartView, error)
	RemoveItem(ctx context.Context, index int) (models.CartView, error)
	RemoveLine(ctx context.Context, id uuid.UUID) (models.CartView, error)
	ClearCart(ctx context.Context) models.CartView
}

type cartService struct {
	cart     *cart.Store
	products ProductFetcher
}

func NewCartService(store *cart.Store, products ProductFetcher) CartService {
	return &cartService{cart: store, products: products}
}

func (s *cartService) GetCart(_ context.Context) models.CartView {
	return s.cart.View()
}

// AddItem snapshots the product from the backend, resolves the picked
// options to the product's prices and checks the selection before adding.
func (s *cartService) AddItem(ctx context.Context, req *models.AddItemRequest) (*models.CartLine, error) {
	logger := middleware.LoggerFromContext(ctx)

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		logger.Warn("Product lookup failed", slog.String("product_id", req.ProductID), slog.Any("error", err))
		return nil, err
	}

	if err := cart.ValidateVariant(*product, req.Size, req.Color); err != nil {
		return nil, appErrors.ValidationError("Invalid product variant").WithError(err).WithDetail(err.Error())
	}

	options, err := cart.ResolveOptions(*product, req.Options)
	if err != nil {
		return nil, appErrors.ValidationError("Invalid customization option").WithError(err).WithDetail(err.Error())
	}

	if err := cart.ValidateSelection(options, req.CustomText); err != nil {
		return nil, appErrors.AddValidationError("custom_text", "required when flocage is selected").WithError(err)
	}

	line := s.cart.AddItem(ctx, cart.AddItemInput{
		Product:         *product,
		Size:            req.Size,
		Color:           req.Color,
		Quantity:        req.Quantity,
		SelectedOptions: options,
		CustomText:      req.CustomText,
	})

	return &line, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, index, quantity int) (models.CartView, error) {
	err := s.cart.UpdateQuantity(ctx, index, quantity)
	return s.cart.View(), mapCartError(err)
}

func (s *cartService) UpdateLineQuantity(ctx context.Context, id uuid.UUID, quantity int) (models.CartView, error) {
	err := s.cart.UpdateLineQuantity(ctx, id, quantity)
	return s.cart.View(), mapCartError(err)
}

func (s *cartService) RemoveItem(ctx context.Context, index int) (models.CartView, error) {
	err := s.cart.RemoveItem(ctx, index)
	return s.cart.View(), mapCartError(err)
}

func (s *cartService) RemoveLine(ctx context.Context, id uuid.UUID) (models.CartView, error) {
	err := s.cart.RemoveLine(ctx, id)
	return s.cart.View(), mapCartError(err)
}

func (s *cartService) ClearCart(ctx context.Context) models.CartView {
	s.cart.Clear(ctx)
	return s.cart.View()
}

// mapCartError turns cart sentinels into AppErrors. A quantity below 1 is
// a no-op, not a failure.
func mapCartError(err error) error {
	switch {
	case err == nil, errors.Is(err, cart.ErrInvalidQuantity):
		return nil
	case errors.Is(err, cart.ErrLineNotFound):
		return appErrors.NotFoundError("Cart line not found").WithError(err)
	default:
		return appErrors.InternalError("Cart update failed").WithError(err)
	}
}
