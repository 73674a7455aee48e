package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

// AdminAPI is the token-authenticated part of the backend.
type AdminAPI interface {
	Me(ctx context.Context, token string) (*models.AdminUser, error)
	Stats(ctx context.Context, token string) (*models.AdminStats, error)
	ListAdminProducts(ctx context.Context, token string) ([]models.Product, error)
	CreateProduct(ctx context.Context, token string, product models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, id string, update models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	ListAdminOrders(ctx context.Context, token string) ([]models.Order, error)
	UpdateOrder(ctx context.Context, token, id string, update models.UpdateOrderRequest) error
	ListContacts(ctx context.Context, token string) ([]models.ContactMessage, error)
	MarkContactRead(ctx context.Context, token, id string) error
	GetAdminSettings(ctx context.Context, token string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, token string, settings models.Settings) error
	UploadFile(ctx context.Context, token, filename string, content io.Reader) (*models.UploadResult, error)
}

type AdminSession interface {
	Login(ctx context.Context, creds models.LoginRequest) error
	Logout(ctx context.Context) error
	Token() string
}

type AdminService interface {
	Login(ctx context.Context, creds *models.LoginRequest) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.AdminUser, error)
	Stats(ctx context.Context) (*models.AdminStats, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id string, req *models.UpdateOrderRequest) error
	ListContacts(ctx context.Context) ([]models.ContactMessage, error)
	MarkContactRead(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, settings *models.Settings) error
	Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error)
}

type adminService struct {
	api     AdminAPI
	session AdminSession
}

func NewAdminService(api AdminAPI, session AdminSession) AdminService {
	return &adminService{api: api, session: session}
}

func (s *adminService) Login(ctx context.Context, creds *models.LoginRequest) error {
	return s.session.Login(ctx, *creds)
}

func (s *adminService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// call runs fn with the current token. A 401 from the backend means the
// token is no longer accepted, so the session is dropped.
func call[T any](ctx context.Context, s *adminService, fn func(token string) (T, error)) (T, error) {
	out, err := fn(s.session.Token())
	if err != nil && appErrors.HasCode(err, appErrors.ErrCodeUnauthorized) {
		middleware.LoggerFromContext(ctx).Warn("Backend rejected admin token, logging out")
		if logoutErr := s.session.Logout(ctx); logoutErr != nil {
			middleware.LoggerFromContext(ctx).Error("Failed to drop rejected session", slog.Any("error", logoutErr))
		}
	}

	return out, err
}

func callErr(ctx context.Context, s *adminService, fn func(token string) error) error {
	_, err := call(ctx, s, func(token string) (struct{}, error) {
		return struct{}{}, fn(token)
	})

	return err
}

func (s *adminService) Me(ctx context.Context) (*models.AdminUser, error) {
	return call(ctx, s, func(token string) (*models.AdminUser, error) {
		return s.api.Me(ctx, token)
	})
}

func (s *adminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return call(ctx, s, func(token string) (*models.AdminStats, error) {
		return s.api.Stats(ctx, token)
	})
}

func (s *adminService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return call(ctx, s, func(token string) ([]models.Product, error) {
		return s.api.ListAdminProducts(ctx, token)
	})
}

func (s *adminService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	return call(ctx, s, func(token string) (*models.Product, error) {
		return s.api.CreateProduct(ctx, token, *req)
	})
}

func (s *adminService) UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	return call(ctx, s, func(token string) (*models.Product, error) {
		return s.api.UpdateProduct(ctx, token, id, *req)
	})
}

func (s *adminService) DeleteProduct(ctx context.Context, id string) error {
	return callErr(ctx, s, func(token string) error {
		return s.api.DeleteProduct(ctx, token, id)
	})
}

func (s *adminService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return call(ctx, s, func(token string) ([]models.Order, error) {
		return s.api.ListAdminOrders(ctx, token)
	})
}

func (s *adminService) UpdateOrder(ctx context.Context, id string, req *models.UpdateOrderRequest) error {
	if req.OrderStatus == "" && req.PaymentStatus == "" {
		return appErrors.BadRequestError("Nothing to update")
	}

	return callErr(ctx, s, func(token string) error {
		return s.api.UpdateOrder(ctx, token, id, *req)
	})
}

func (s *adminService) ListContacts(ctx context.Context) ([]models.ContactMessage, error) {
	return call(ctx, s, func(token string) ([]models.ContactMessage, error) {
		return s.api.ListContacts(ctx, token)
	})
}

func (s *adminService) MarkContactRead(ctx context.Context, id string) error {
	return callErr(ctx, s, func(token string) error {
		return s.api.MarkContactRead(ctx, token, id)
	})
}

func (s *adminService) GetSettings(ctx context.Context) (*models.Settings, error) {
	return call(ctx, s, func(token string) (*models.Settings, error) {
		return s.api.GetAdminSettings(ctx, token)
	})
}

func (s *adminService) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	return callErr(ctx, s, func(token string) error {
		return s.api.UpdateSettings(ctx, token, *settings)
	})
}

func (s *adminService) Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error) {
	return call(ctx, s, func(token string) (*models.UploadResult, error) {
		return s.api.UploadFile(ctx, token, filename, content)
	})
}
