package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCatalogAPI struct {
	mock.Mock
}

func (m *mockCatalogAPI) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCatalogAPI) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCatalogAPI) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockCatalogAPI) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockCatalogAPI) GetSettings(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *mockCatalogAPI) TrackVisit(ctx context.Context, page string) error {
	return m.Called(ctx, page).Error(0)
}

type mockContactService struct {
	mock.Mock
}

func (m *mockContactService) SendMessage(ctx context.Context, req *models.ContactRequest) error {
	return m.Called(ctx, req).Error(0)
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	t.Run("Success - Filter From Query", func(t *testing.T) {
		// Arrange
		api := new(mockCatalogAPI)
		handler := handlers.NewCatalogHandler(api)
		filter := models.ProductFilter{Featured: true, Limit: 8, Category: "maillots"}
		api.On("ListProducts", mock.Anything, filter).Return([]models.Product{{ID: "p-1"}}, nil).Once()

		req := testutils.NewRequest(http.MethodGet, "/api/v1/products?featured=true&limit=8&category=maillots", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ListProducts().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		api.AssertExpectations(t)
	})

	t.Run("Failure - Bad Limit", func(t *testing.T) {
		// Arrange
		api := new(mockCatalogAPI)
		handler := handlers.NewCatalogHandler(api)
		req := testutils.NewRequest(http.MethodGet, "/api/v1/products?limit=zero", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ListProducts().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		api.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Backend Down", func(t *testing.T) {
		// Arrange
		api := new(mockCatalogAPI)
		handler := handlers.NewCatalogHandler(api)
		api.On("ListProducts", mock.Anything, models.ProductFilter{}).Return([]models.Product(nil), appErrors.ThirdPartyError("Backend unavailable")).Once()

		req := testutils.NewRequest(http.MethodGet, "/api/v1/products", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ListProducts().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestCatalogHandler_Lookups(t *testing.T) {
	t.Run("Success - Category By Slug", func(t *testing.T) {
		// Arrange
		api := new(mockCatalogAPI)
		handler := handlers.NewCatalogHandler(api)
		api.On("GetCategory", mock.Anything, "maillots").Return(&models.Category{Slug: "maillots"}, nil).Once()

		req := testutils.NewRequest(http.MethodGet, "/api/v1/categories/maillots", nil, map[string]string{"slug": "maillots"})
		rr := httptest.NewRecorder()

		// Act
		handler.GetCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		api := new(mockCatalogAPI)
		handler := handlers.NewCatalogHandler(api)
		api.On("GetProduct", mock.Anything, "gone").Return(nil, appErrors.NotFoundError("Resource not found")).Once()

		req := testutils.NewRequest(http.MethodGet, "/api/v1/products/gone", nil, map[string]string{"id": "gone"})
		rr := httptest.NewRecorder()

		// Act
		handler.GetProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Missing Product ID", func(t *testing.T) {
		// Arrange
		api := new(mockCatalogAPI)
		handler := handlers.NewCatalogHandler(api)
		req := testutils.NewRequest(http.MethodGet, "/api/v1/products/", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.GetProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCatalogHandler_TrackVisit(t *testing.T) {
	t.Run("Success - Defaults To Home", func(t *testing.T) {
		// Arrange
		api := new(mockCatalogAPI)
		handler := handlers.NewCatalogHandler(api)
		api.On("TrackVisit", mock.Anything, "/").Return(nil).Once()

		req := testutils.NewRequest(http.MethodPost, "/api/v1/visit", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.TrackVisit().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
		api.AssertExpectations(t)
	})

	t.Run("Success - Failure Swallowed", func(t *testing.T) {
		// Arrange
		api := new(mockCatalogAPI)
		handler := handlers.NewCatalogHandler(api)
		api.On("TrackVisit", mock.Anything, "/boutique").Return(errors.New("down")).Once()

		req := testutils.NewRequest(http.MethodPost, "/api/v1/visit?page=/boutique", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.TrackVisit().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestContactHandler_SendMessage(t *testing.T) {
	t.Run("Success - Sent", func(t *testing.T) {
		// Arrange
		svc := new(mockContactService)
		handler := handlers.NewContactHandler(svc)
		svc.On("SendMessage", mock.Anything, mock.MatchedBy(func(req *models.ContactRequest) bool {
			return req.Email == "lea@example.com"
		})).Return(nil).Once()

		body := `{"name":"Lea","email":"lea@example.com","subject":"Taille","message":"Le maillot existe en XL ?"}`
		req := testutils.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.SendMessage().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"sent"`)
	})

	t.Run("Failure - Invalid Email", func(t *testing.T) {
		// Arrange
		svc := new(mockContactService)
		handler := handlers.NewContactHandler(svc)
		body := `{"name":"Lea","email":"not-an-email","subject":"Taille","message":"Le maillot existe en XL ?"}`
		req := testutils.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.SendMessage().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "valid email")
		svc.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})
}
