// Package session holds the admin bearer token across restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/storage"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

const StorageKey = "admin_token"

type Authenticator interface {
	Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error)
}

type Manager struct {
	mu      sync.RWMutex
	token   string
	store   storage.Store
	auth    Authenticator
	limiter Limiter
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Manager)

func WithLimiter(l Limiter) Option {
	return func(m *Manager) {
		m.limiter = l
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Load restores a previously saved token. A missing or unreadable value
// leaves the session logged out.
func Load(ctx context.Context, store storage.Store, auth Authenticator, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		auth:   auth,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	loadCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	raw, err := store.Load(loadCtx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		m.logger.Warn("Failed to restore admin session", slog.Any("error", err))
	default:
		m.token = strings.TrimSpace(string(raw))
	}

	return m
}

// Login checks the rate limit for the username, then exchanges the
// credentials for a token and persists it.
func (m *Manager) Login(ctx context.Context, creds models.LoginRequest) error {
	if m.limiter != nil {
		decision, err := m.limiter.Allow(ctx, creds.Username)
		if err != nil {
			m.logger.Warn("Login rate limit unavailable", slog.Any("error", err))
		} else if !decision.Allowed {
			secs := int(math.Ceil(decision.RetryAfter.Seconds()))
			return appErrors.TooManyRequestsError("Too many login attempts").WithDetail(fmt.Sprintf("retry after %d seconds", secs))
		}
	}

	resp, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.logger.Warn("Admin login failed", slog.String("username", creds.Username), slog.Any("error", err))
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = resp.Token

	saveCtx, cancel := utils.WithStoreTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := m.store.Save(saveCtx, StorageKey, []byte(resp.Token)); err != nil {
		m.logger.Error("Failed to persist admin session", slog.Any("error", err))
	}

	m.logger.Info("Admin logged in", slog.String("username", creds.Username))

	return nil
}

// Logout forgets the token in memory and in storage.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""

	delCtx, cancel := utils.WithStoreTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := m.store.Delete(delCtx, StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return appErrors.StorageError("Failed to clear admin session").WithError(err)
	}

	return nil
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token
}

// IsAuthenticated reports whether a token is held and, when it is a JWT
// carrying an exp claim, whether it is still valid. The signature is the
// backend's to verify.
func (m *Manager) IsAuthenticated() bool {
	token := m.Token()
	if token == "" {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}

	if claims.ExpiresAt == nil {
		return true
	}

	return m.now().Before(claims.ExpiresAt.Time)
}
