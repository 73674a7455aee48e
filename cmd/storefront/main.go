package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api"
	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/backend"
	"github.com/aaravmahajanofficial/storefront/internal/cart"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/payment"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/storage"
	"github.com/aaravmahajanofficial/storefront/internal/tracing"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Otel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	backendClient := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithOrigin(cfg.Backend.Origin),
	)

	healthHandler, err := health.NewHealthHandler(cfg, backendClient)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		flushTracing(shutdownTracing)
		os.Exit(1)
	}

	// Storage setup
	store, err := storage.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error opening storage", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		flushTracing(shutdownTracing)
		os.Exit(1)
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing storage", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Storage closed")
		}
	}()

	var limiter session.Limiter = session.NewMemoryLimiter(cfg.LoginLimit)
	if redisStore, ok := store.(*storage.RedisStore); ok {
		limiter = session.NewRedisLimiter(redisStore.Client(), cfg.LoginLimit)
	}

	cartStore := cart.Load(ctx, store, cart.WithNotifier(cart.NotifierFunc(func(_ context.Context, line models.CartLine) {
		slog.Info("🛒 Added to cart", slog.String("productId", line.ProductID), slog.Int("quantity", line.Quantity))
	})))
	adminSession := session.Load(ctx, store, backendClient, session.WithLimiter(limiter))

	poller := payment.NewPoller(backendClient, cartStore,
		payment.WithMaxAttempts(cfg.Payment.MaxAttempts),
		payment.WithInterval(cfg.Payment.Interval),
	)

	cartService := service.NewCartService(cartStore, backendClient)
	checkoutService := service.NewCheckoutService(cartStore, backendClient)
	contactService := service.NewContactService(backendClient)
	adminService := service.NewAdminService(backendClient, adminSession)

	handler := api.NewRouter(api.Handlers{
		Cart:     handlers.NewCartHandler(cartService),
		Checkout: handlers.NewCheckoutHandler(checkoutService),
		Payment:  handlers.NewPaymentHandler(poller),
		Catalog:  handlers.NewCatalogHandler(backendClient),
		Contact:  handlers.NewContactHandler(contactService),
		Admin:    handlers.NewAdminHandler(adminService),
		Auth:     middleware.NewAuthMiddleware(adminSession),
		Health:   healthHandler.Handler(),
	})

	slog.Info("storefront initialized",
		slog.String("env", cfg.Env),
		slog.String("version", health.Version),
		slog.String("backend", backendClient.BaseURL()),
		slog.Int("cart_lines", cartStore.Len()),
		slog.Bool("admin_session", adminSession.IsAuthenticated()),
	)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}
}

// flushTracing is used on startup failures, before os.Exit skips the defers.
func flushTracing(shutdown tracing.ShutdownFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
