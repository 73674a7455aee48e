package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Health(ctx context.Context) error { return f(ctx) }

func checkNames(cfg *config.Config) []string {
	var names []string
	for _, c := range health.Checks(cfg, nil) {
		names = append(names, c.Name)
	}
	return names
}

func TestChecks(t *testing.T) {
	cfg := &config.Config{}

	cfg.Storage.Driver = "redis"
	assert.Equal(t, []string{"backend", "redis"}, checkNames(cfg))

	cfg.Storage.Driver = "postgres"
	assert.Equal(t, []string{"backend", "database"}, checkNames(cfg))

	cfg.Storage.Driver = "file"
	assert.Equal(t, []string{"backend", "storage"}, checkNames(cfg))
}

func TestNewHealthHandler(t *testing.T) {
	t.Run("Success - File Storage And Backend Up", func(t *testing.T) {
		// Arrange
		cfg := &config.Config{}
		cfg.Storage.Driver = "file"
		cfg.Storage.Dir = t.TempDir()
		cfg.Otel.ServiceName = "storefront"

		h, err := health.NewHealthHandler(cfg, pingerFunc(func(context.Context) error { return nil }))
		require.NoError(t, err)

		rr := httptest.NewRecorder()

		// Act
		h.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "OK", body["status"])
	})

	t.Run("Success - Backend Down Is Degraded", func(t *testing.T) {
		// Arrange
		cfg := &config.Config{}
		cfg.Storage.Driver = "file"
		cfg.Storage.Dir = t.TempDir()

		h, err := health.NewHealthHandler(cfg, pingerFunc(func(context.Context) error { return errors.New("refused") }))
		require.NoError(t, err)

		rr := httptest.NewRecorder()

		// Act
		h.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Partially Available", body["status"])
	})

	t.Run("Failure - Missing Storage Dir", func(t *testing.T) {
		// Arrange
		cfg := &config.Config{}
		cfg.Storage.Driver = "file"
		cfg.Storage.Dir = t.TempDir() + "/missing"

		h, err := health.NewHealthHandler(cfg, pingerFunc(func(context.Context) error { return nil }))
		require.NoError(t, err)

		rr := httptest.NewRecorder()

		// Act
		h.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
