package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "admin/login", body: creds}, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, appErrors.ThirdPartyError("Login response carried no token").WithError(ErrUnavailable)
	}

	return &resp, nil
}

func (c *Client) Me(ctx context.Context, token string) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := c.do(ctx, request{method: http.MethodGet, path: "admin/me", token: token}, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) Stats(ctx context.Context, token string) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "admin/stats", token: token}, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (c *Client) ListAdminProducts(ctx context.Context, token string) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "admin/products", token: token}, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, product models.CreateProductRequest) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, request{method: http.MethodPost, path: "admin/products", token: token, body: product}, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, update models.UpdateProductRequest) (*models.Product, error) {
	var updated models.Product
	req := request{method: http.MethodPut, path: "admin/products/" + url.PathEscape(id), endpoint: "admin/products/{id}", token: token, body: update}
	if err := c.do(ctx, req, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	req := request{method: http.MethodDelete, path: "admin/products/" + url.PathEscape(id), endpoint: "admin/products/{id}", token: token}
	return c.do(ctx, req, nil)
}

func (c *Client) ListAdminOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "admin/orders", token: token}, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (c *Client) UpdateOrder(ctx context.Context, token, id string, update models.UpdateOrderRequest) error {
	req := request{method: http.MethodPut, path: "admin/orders/" + url.PathEscape(id), endpoint: "admin/orders/{id}", token: token, body: update}
	return c.do(ctx, req, nil)
}

func (c *Client) ListContacts(ctx context.Context, token string) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "admin/contacts", token: token}, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

func (c *Client) MarkContactRead(ctx context.Context, token, id string) error {
	req := request{method: http.MethodPut, path: "admin/contacts/" + url.PathEscape(id) + "/read", endpoint: "admin/contacts/{id}/read", token: token}
	return c.do(ctx, req, nil)
}

func (c *Client) GetAdminSettings(ctx context.Context, token string) (*models.Settings, error) {
	var settings models.Settings
	if err := c.do(ctx, request{method: http.MethodGet, path: "admin/settings", token: token}, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (c *Client) UpdateSettings(ctx context.Context, token string, settings models.Settings) error {
	return c.do(ctx, request{method: http.MethodPut, path: "admin/settings", token: token, body: settings}, nil)
}

// UploadFile sends content as the multipart "file" field. A relative URL in
// the answer is resolved against the backend host.
func (c *Client) UploadFile(ctx context.Context, token, filename string, content io.Reader) (*models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, appErrors.InternalError("Failed to build upload").WithError(err)
	}

	if _, err := io.Copy(part, content); err != nil {
		return nil, appErrors.BadRequestError("Failed to read upload").WithError(err)
	}

	if err := mw.Close(); err != nil {
		return nil, appErrors.InternalError("Failed to build upload").WithError(err)
	}

	var result models.UploadResult
	req := request{method: http.MethodPost, path: "admin/upload", token: token, raw: &buf, rawType: mw.FormDataContentType()}
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}

	if strings.HasPrefix(result.URL, "/") {
		result.URL = fmt.Sprintf("%s%s", c.baseURL, result.URL)
	}

	return &result, nil
}
