// Package api wires the HTTP surface of the storefront.
package api

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
)

type Handlers struct {
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Payment  *handlers.PaymentHandler
	Catalog  *handlers.CatalogHandler
	Contact  *handlers.ContactHandler
	Admin    *handlers.AdminHandler
	Auth     *middleware.AuthMiddleware
	Health   http.Handler
}

func NewRouter(h Handlers) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /api/v1/cart", h.Cart.GetCart())
	router.HandleFunc("DELETE /api/v1/cart", h.Cart.ClearCart())
	router.HandleFunc("POST /api/v1/cart/items", h.Cart.AddItem())
	router.HandleFunc("PUT /api/v1/cart/items/{index}", h.Cart.UpdateQuantity())
	router.HandleFunc("DELETE /api/v1/cart/items/{index}", h.Cart.RemoveItem())
	router.HandleFunc("PUT /api/v1/cart/lines/{id}", h.Cart.UpdateLineQuantity())
	router.HandleFunc("DELETE /api/v1/cart/lines/{id}", h.Cart.RemoveLine())

	router.HandleFunc("POST /api/v1/checkout", h.Checkout.Checkout())
	router.HandleFunc("GET /api/v1/orders/{id}", h.Checkout.GetOrder())
	router.HandleFunc("GET /api/v1/payments/return", h.Payment.PaymentReturn())

	router.HandleFunc("GET /api/v1/categories", h.Catalog.ListCategories())
	router.HandleFunc("GET /api/v1/categories/{slug}", h.Catalog.GetCategory())
	router.HandleFunc("GET /api/v1/products", h.Catalog.ListProducts())
	router.HandleFunc("GET /api/v1/products/{id}", h.Catalog.GetProduct())
	router.HandleFunc("GET /api/v1/settings", h.Catalog.GetSettings())
	router.HandleFunc("POST /api/v1/visit", h.Catalog.TrackVisit())
	router.HandleFunc("POST /api/v1/contact", h.Contact.SendMessage())

	router.HandleFunc("POST /api/v1/admin/login", h.Admin.Login())
	router.HandleFunc("POST /api/v1/admin/logout", h.Admin.Logout())
	router.HandleFunc("GET /api/v1/admin/me", h.Auth.RequireAdmin(h.Admin.Me()))
	router.HandleFunc("GET /api/v1/admin/stats", h.Auth.RequireAdmin(h.Admin.Stats()))
	router.HandleFunc("GET /api/v1/admin/products", h.Auth.RequireAdmin(h.Admin.ListProducts()))
	router.HandleFunc("POST /api/v1/admin/products", h.Auth.RequireAdmin(h.Admin.CreateProduct()))
	router.HandleFunc("PUT /api/v1/admin/products/{id}", h.Auth.RequireAdmin(h.Admin.UpdateProduct()))
	router.HandleFunc("DELETE /api/v1/admin/products/{id}", h.Auth.RequireAdmin(h.Admin.DeleteProduct()))
	router.HandleFunc("GET /api/v1/admin/orders", h.Auth.RequireAdmin(h.Admin.ListOrders()))
	router.HandleFunc("PUT /api/v1/admin/orders/{id}", h.Auth.RequireAdmin(h.Admin.UpdateOrder()))
	router.HandleFunc("GET /api/v1/admin/contacts", h.Auth.RequireAdmin(h.Admin.ListContacts()))
	router.HandleFunc("PUT /api/v1/admin/contacts/{id}/read", h.Auth.RequireAdmin(h.Admin.MarkContactRead()))
	router.HandleFunc("GET /api/v1/admin/settings", h.Auth.RequireAdmin(h.Admin.GetSettings()))
	router.HandleFunc("PUT /api/v1/admin/settings", h.Auth.RequireAdmin(h.Admin.UpdateSettings()))
	router.HandleFunc("POST /api/v1/admin/upload", h.Auth.RequireAdmin(h.Admin.Upload()))

	router.Handle("GET /metrics", metrics.Handler())
	if h.Health != nil {
		router.Handle("GET /health", h.Health)
	}

	// Middleware chaining
	var handler http.Handler = router
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	return handler
}
