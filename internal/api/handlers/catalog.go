package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

// CatalogAPI is the public read side of the backend.
type CatalogAPI interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.Category, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetSettings(ctx context.Context) (*models.Settings, error)
	TrackVisit(ctx context.Context, page string) error
}

type CatalogHandler struct {
	api CatalogAPI
}

func NewCatalogHandler(api CatalogAPI) *CatalogHandler {
	return &CatalogHandler{api: api}
}

func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.api.ListCategories(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

func (h *CatalogHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := pathID(r, "slug")
		if err != nil {
			response.Error(w, err)
			return
		}

		category, err := h.api.GetCategory(r.Context(), slug)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// ListProducts godoc
//
//	@Summary	List products
//	@Param		featured	query	bool	false	"Only featured products"
//	@Param		limit		query	int		false	"Maximum number of products"
//	@Param		category	query	string	false	"Category slug"
//	@Param		search		query	string	false	"Free text search"
//	@Router		/api/v1/products [get]
func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		q := r.URL.Query()
		filter := models.ProductFilter{
			Featured: q.Get("featured") == "true",
			Category: q.Get("category"),
			Search:   q.Get("search"),
		}

		if raw := q.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				response.Error(w, appErrors.AddValidationError("limit", "must be a positive integer"))
				return
			}
			filter.Limit = limit
		}

		products, err := h.api.ListProducts(r.Context(), filter)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to fetch products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.api.GetProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *CatalogHandler) GetSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.api.GetSettings(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, settings)
	}
}

// TrackVisit records a page view. Tracking failures never reach the shopper.
func (h *CatalogHandler) TrackVisit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "/"
		}

		if err := h.api.TrackVisit(r.Context(), page); err != nil {
			middleware.LoggerFromContext(r.Context()).Debug("Visit tracking failed", slog.Any("error", err))
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
