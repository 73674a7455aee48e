package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/cart"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCartService struct {
	mock.Mock
}

func (m *mockCartService) GetCart(ctx context.Context) models.CartView {
	return m.Called(ctx).Get(0).(models.CartView)
}

func (m *mockCartService) AddItem(ctx context.Context, req *models.AddItemRequest) (*models.CartLine, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartLine), args.Error(1)
}

func (m *mockCartService) UpdateQuantity(ctx context.Context, index, quantity int) (models.CartView, error) {
	args := m.Called(ctx, index, quantity)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *mockCartService) UpdateLineQuantity(ctx context.Context, id uuid.UUID, quantity int) (models.CartView, error) {
	args := m.Called(ctx, id, quantity)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *mockCartService) RemoveItem(ctx context.Context, index int) (models.CartView, error) {
	args := m.Called(ctx, index)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *mockCartService) RemoveLine(ctx context.Context, id uuid.UUID) (models.CartView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *mockCartService) ClearCart(ctx context.Context) models.CartView {
	return m.Called(ctx).Get(0).(models.CartView)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("Success - Line Created", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		line := &models.CartLine{ID: uuid.New(), ProductID: "p-1", Quantity: 2}

		svc.On("AddItem", mock.Anything, &models.AddItemRequest{ProductID: "p-1", Size: "M", Quantity: 2}).Return(line, nil).Once()

		body := `{"product_id":"p-1","size":"M","quantity":2}`
		req := testutils.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		env := decodeEnvelope(t, rr)
		assert.True(t, env.Success)

		var got models.CartLine
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, line.ID, got.ID)
		svc.AssertExpectations(t)
	})

	t.Run("Failure - Missing Product", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		req := testutils.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"quantity":1}`), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, decodeEnvelope(t, rr).Error.Code)
		svc.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Flocage Text Required", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		svc.On("AddItem", mock.Anything, mock.Anything).Return(nil, appErrors.ValidationError("Flocage text is required")).Once()

		body := `{"product_id":"p-1","options":["Flocage"]}`
		req := testutils.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Flocage text is required", decodeEnvelope(t, rr).Error.Message)
	})
}

func TestCartHandler_Lines(t *testing.T) {
	view := models.CartView{
		Lines: []models.CartLineView{{CartLine: models.CartLine{ProductID: "p-1", Quantity: 3}, UnitPrice: decimal.NewFromInt(20), Subtotal: decimal.NewFromInt(60)}},
		Total: decimal.NewFromInt(60),
		Count: 3,
	}

	t.Run("Success - Update Quantity By Index", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		svc.On("UpdateQuantity", mock.Anything, 0, 3).Return(view, nil).Once()

		req := testutils.NewRequest(http.MethodPut, "/api/v1/cart/items/0", strings.NewReader(`{"quantity":3}`), map[string]string{"index": "0"})
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateQuantity().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.CartView
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &got))
		assert.Equal(t, 3, got.Count)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(60)))
	})

	t.Run("Failure - Negative Index", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		req := testutils.NewRequest(http.MethodDelete, "/api/v1/cart/items/-1", nil, map[string]string{"index": "-1"})
		rr := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Index Out Of Range", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		svc.On("RemoveItem", mock.Anything, 4).Return(models.CartView{}, appErrors.NotFoundError("Cart line not found")).Once()

		req := testutils.NewRequest(http.MethodDelete, "/api/v1/cart/items/4", nil, map[string]string{"index": "4"})
		rr := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Success - Remove By Line ID", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		id := uuid.New()
		svc.On("RemoveLine", mock.Anything, id).Return(models.CartView{Lines: []models.CartLineView{}}, nil).Once()

		req := testutils.NewRequest(http.MethodDelete, "/api/v1/cart/lines/"+id.String(), nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.RemoveLine().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Failure - Malformed Line ID", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		req := testutils.NewRequest(http.MethodPut, "/api/v1/cart/lines/abc", strings.NewReader(`{"quantity":2}`), map[string]string{"id": "abc"})
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateLineQuantity().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeBadRequest, decodeEnvelope(t, rr).Error.Code)
	})

	t.Run("Success - Clear", func(t *testing.T) {
		// Arrange
		svc := new(mockCartService)
		handler := handlers.NewCartHandler(svc)
		svc.On("ClearCart", mock.Anything).Return(models.CartView{Lines: []models.CartLineView{}}).Once()

		req := testutils.NewRequest(http.MethodDelete, "/api/v1/cart", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ClearCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})
}

func TestCartHandler_WithCartService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*handlers.CartHandler, *cart.Store) {
		t.Helper()

		store := cart.New(testutils.NewMemoryStore())
		product := models.Product{ID: "p-1", Name: "Maillot", Price: decimal.NewFromInt(20)}
		store.AddItem(ctx, cart.AddItemInput{Product: product, Size: "S", Quantity: 1})
		store.AddItem(ctx, cart.AddItemInput{Product: product, Size: "M", Quantity: 3})

		return handlers.NewCartHandler(service.NewCartService(store, nil)), store
	}

	t.Run("Success - Remove Responds With Updated Cart", func(t *testing.T) {
		// Arrange
		handler, store := setup(t)
		req := testutils.NewRequest(http.MethodDelete, "/api/v1/cart/items/0", nil, map[string]string{"index": "0"})
		rr := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.CartView
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &got))
		require.Len(t, got.Lines, 1)
		assert.Equal(t, "M", got.Lines[0].Size)
		assert.Equal(t, 3, got.Count)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, store.Count(), got.Count)
	})

	t.Run("Success - Update Responds With Updated Cart", func(t *testing.T) {
		// Arrange
		handler, _ := setup(t)
		req := testutils.NewRequest(http.MethodPut, "/api/v1/cart/items/0", strings.NewReader(`{"quantity":9}`), map[string]string{"index": "0"})
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateQuantity().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.CartView
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &got))
		assert.Equal(t, 12, got.Count)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(240)))
	})
}
