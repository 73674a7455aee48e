package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "categories"}, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	req := request{method: http.MethodGet, path: "categories/" + url.PathEscape(slug), endpoint: "categories/{slug}"}
	if err := c.do(ctx, req, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (c *Client) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := url.Values{}
	if filter.Featured {
		query.Set("featured", "true")
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var products []models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "products", query: query}, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	req := request{method: http.MethodGet, path: "products/" + url.PathEscape(id), endpoint: "products/{id}"}
	if err := c.do(ctx, req, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := c.do(ctx, request{method: http.MethodGet, path: "settings"}, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (c *Client) SendContact(ctx context.Context, msg models.ContactRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "contact", body: msg}, nil)
}

// TrackVisit records a page view.
func (c *Client) TrackVisit(ctx context.Context, page string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "visit", query: url.Values{"page": {page}}}, nil)
}

// Health pings the API's own health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "health"}, nil)
}
