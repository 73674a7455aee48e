package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/cart"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderAPI struct {
	mock.Mock
}

func (m *mockOrderAPI) CreateOrder(ctx context.Context, order models.CreateOrderRequest) (*models.CheckoutResult, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutResult), args.Error(1)
}

func (m *mockOrderAPI) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderAPI) GetSettings(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Settings), args.Error(1)
}

func checkoutForm(method models.PaymentMethod) *models.CheckoutForm {
	return &models.CheckoutForm{
		CustomerName:    "Lea Martin",
		CustomerEmail:   "lea@example.com",
		CustomerPhone:   "0601020304",
		ShippingAddress: "1 rue de la Paix",
		ShippingCity:    "Paris",
		ShippingPostal:  "75002",
		PaymentMethod:   method,
	}
}

func setupCheckout(t *testing.T) (service.CheckoutService, *cart.Store, *mockOrderAPI) {
	t.Helper()

	store := cart.New(testutils.NewMemoryStore(), cart.WithLogger(quietLogger))
	orders := new(mockOrderAPI)

	return service.NewCheckoutService(store, orders), store, orders
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.Background()
	flocage := jersey().CustomizationOptions[1]

	t.Run("Success - Card Payment Keeps Cart", func(t *testing.T) {
		// Arrange
		svc, store, orders := setupCheckout(t)
		store.AddItem(ctx, cart.AddItemInput{Product: *jersey(), Size: "M", Quantity: 1, SelectedOptions: []models.Option{flocage}, CustomText: "ZIDANE 10"})

		orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req models.CreateOrderRequest) bool {
			return len(req.Items) == 1 && req.Items[0].FlocageText == "ZIDANE 10" && req.CustomerEmail == "lea@example.com"
		})).Return(&models.CheckoutResult{CheckoutURL: "https://checkout.stripe.com/c/pay/cs_1"}, nil).Once()

		// Act
		result, err := svc.Checkout(ctx, checkoutForm(models.PaymentMethodCard))

		// Assert
		require.NoError(t, err)
		assert.True(t, result.NeedsRedirect())
		assert.Equal(t, 1, store.Len())
		orders.AssertExpectations(t)
	})

	t.Run("Success - Manual Payment Clears Cart", func(t *testing.T) {
		// Arrange
		svc, store, orders := setupCheckout(t)
		store.AddItem(ctx, cart.AddItemInput{Product: *jersey(), Quantity: 2})
		orders.On("CreateOrder", mock.Anything, mock.Anything).Return(&models.CheckoutResult{OrderID: "o-1"}, nil).Once()

		// Act
		result, err := svc.Checkout(ctx, checkoutForm(models.PaymentMethodBank))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "o-1", result.OrderID)
		assert.Zero(t, store.Len())
	})

	t.Run("Success - Add During Checkout Is Kept", func(t *testing.T) {
		// Arrange
		svc, store, orders := setupCheckout(t)
		store.AddItem(ctx, cart.AddItemInput{Product: *jersey(), Size: "S", Quantity: 1})

		orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req models.CreateOrderRequest) bool {
			return len(req.Items) == 1 && req.Items[0].Size == "S"
		})).Run(func(mock.Arguments) {
			store.AddItem(ctx, cart.AddItemInput{Product: *jersey(), Size: "L", Quantity: 2})
		}).Return(&models.CheckoutResult{OrderID: "o-2"}, nil).Once()

		// Act
		_, err := svc.Checkout(ctx, checkoutForm(models.PaymentMethodBank))

		// Assert
		require.NoError(t, err)
		lines := store.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, "L", lines[0].Size)
		assert.Equal(t, 2, lines[0].Quantity)
		orders.AssertExpectations(t)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		// Arrange
		svc, _, orders := setupCheckout(t)

		// Act
		result, err := svc.Checkout(ctx, checkoutForm(models.PaymentMethodCard))

		// Assert
		assert.Nil(t, result)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
		orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Flocage Text Missing", func(t *testing.T) {
		// Arrange
		svc, store, orders := setupCheckout(t)
		store.AddItem(ctx, cart.AddItemInput{Product: *jersey(), Quantity: 1, SelectedOptions: []models.Option{flocage}})

		// Act
		_, err := svc.Checkout(ctx, checkoutForm(models.PaymentMethodCard))

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodePrecondition))
		assert.ErrorIs(t, err, cart.ErrCustomTextRequired)
		orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Backend Error Keeps Cart", func(t *testing.T) {
		// Arrange
		svc, store, orders := setupCheckout(t)
		store.AddItem(ctx, cart.AddItemInput{Product: *jersey(), Quantity: 1})
		orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, appErrors.ThirdPartyError("Backend unavailable")).Once()

		// Act
		_, err := svc.Checkout(ctx, checkoutForm(models.PaymentMethodBank))

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeThirdPartyError))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Failure - Empty Result", func(t *testing.T) {
		// Arrange
		svc, store, orders := setupCheckout(t)
		store.AddItem(ctx, cart.AddItemInput{Product: *jersey(), Quantity: 1})
		orders.On("CreateOrder", mock.Anything, mock.Anything).Return(&models.CheckoutResult{}, nil).Once()

		// Act
		_, err := svc.Checkout(ctx, checkoutForm(models.PaymentMethodBank))

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeThirdPartyError))
		assert.Equal(t, 1, store.Len())
	})
}

func TestCheckoutService_GetOrderConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Bank Order Carries Settings", func(t *testing.T) {
		// Arrange
		svc, _, orders := setupCheckout(t)
		orders.On("GetOrder", mock.Anything, "o-1").Return(&models.Order{ID: "o-1", PaymentMethod: models.PaymentMethodBank}, nil).Once()
		orders.On("GetSettings", mock.Anything).Return(&models.Settings{IBAN: "FR76 0000"}, nil).Once()

		// Act
		confirmation, err := svc.GetOrderConfirmation(ctx, "o-1")

		// Assert
		require.NoError(t, err)
		require.NotNil(t, confirmation.Settings)
		assert.Equal(t, "FR76 0000", confirmation.Settings.IBAN)
	})

	t.Run("Success - Settings Failure Tolerated", func(t *testing.T) {
		// Arrange
		svc, _, orders := setupCheckout(t)
		orders.On("GetOrder", mock.Anything, "o-2").Return(&models.Order{ID: "o-2", PaymentMethod: models.PaymentMethodPaypal}, nil).Once()
		orders.On("GetSettings", mock.Anything).Return(nil, errors.New("boom")).Once()

		// Act
		confirmation, err := svc.GetOrderConfirmation(ctx, "o-2")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, confirmation.Settings)
	})

	t.Run("Success - Card Order Skips Settings", func(t *testing.T) {
		// Arrange
		svc, _, orders := setupCheckout(t)
		orders.On("GetOrder", mock.Anything, "o-3").Return(&models.Order{ID: "o-3", PaymentMethod: models.PaymentMethodCard}, nil).Once()

		// Act
		confirmation, err := svc.GetOrderConfirmation(ctx, "o-3")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, confirmation.Settings)
		orders.AssertNotCalled(t, "GetSettings", mock.Anything)
	})

	t.Run("Failure - Order Not Found", func(t *testing.T) {
		// Arrange
		svc, _, orders := setupCheckout(t)
		orders.On("GetOrder", mock.Anything, "nope").Return(nil, appErrors.NotFoundError("Resource not found")).Once()

		// Act
		confirmation, err := svc.GetOrderConfirmation(ctx, "nope")

		// Assert
		assert.Nil(t, confirmation)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})
}
