package backend_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Run("Success - Token Returned", func(t *testing.T) {
		// Arrange
		client := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/admin/login", r.URL.Path)

			var creds models.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "admin", creds.Username)
			_, _ = io.WriteString(w, `{"token":"tok-1"}`)
		})

		// Act
		resp, err := client.Login(t.Context(), models.LoginRequest{Username: "admin", Password: "secret"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "tok-1", resp.Token)
	})

	t.Run("Failure - Bad Credentials", func(t *testing.T) {
		// Arrange
		client := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Invalid credentials"}`)
		})

		// Act
		resp, err := client.Login(t.Context(), models.LoginRequest{Username: "admin", Password: "nope"})

		// Assert
		assert.Nil(t, resp)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeUnauthorized))
	})

	t.Run("Failure - Empty Token", func(t *testing.T) {
		// Arrange
		client := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		})

		// Act
		_, err := client.Login(t.Context(), models.LoginRequest{Username: "admin", Password: "secret"})

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeThirdPartyError))
	})
}

func TestAdminCallsSendBearerToken(t *testing.T) {
	// Arrange
	var paths []string
	client := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		paths = append(paths, r.Method+" "+r.URL.Path)

		switch r.URL.Path {
		case "/api/admin/stats":
			_, _ = io.WriteString(w, `{"total_orders":4,"total_revenue":120.5}`)
		case "/api/admin/orders", "/api/admin/products", "/api/admin/contacts":
			_, _ = io.WriteString(w, `[]`)
		case "/api/admin/me":
			_, _ = io.WriteString(w, `{"username":"admin"}`)
		default:
			_, _ = io.WriteString(w, `{}`)
		}
	})
	ctx := t.Context()

	// Act
	stats, err := client.Stats(ctx, "tok-1")
	require.NoError(t, err)
	user, err := client.Me(ctx, "tok-1")
	require.NoError(t, err)
	_, err = client.ListAdminOrders(ctx, "tok-1")
	require.NoError(t, err)
	_, err = client.ListAdminProducts(ctx, "tok-1")
	require.NoError(t, err)
	_, err = client.ListContacts(ctx, "tok-1")
	require.NoError(t, err)
	require.NoError(t, client.MarkContactRead(ctx, "tok-1", "m1"))
	require.NoError(t, client.UpdateOrder(ctx, "tok-1", "o1", models.UpdateOrderRequest{OrderStatus: models.OrderStatusShipped}))
	require.NoError(t, client.DeleteProduct(ctx, "tok-1", "p1"))
	require.NoError(t, client.UpdateSettings(ctx, "tok-1", models.Settings{SiteName: "Shop"}))

	// Assert
	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, []string{
		"GET /api/admin/stats",
		"GET /api/admin/me",
		"GET /api/admin/orders",
		"GET /api/admin/products",
		"GET /api/admin/contacts",
		"PUT /api/admin/contacts/m1/read",
		"PUT /api/admin/orders/o1",
		"DELETE /api/admin/products/p1",
		"PUT /api/admin/settings",
	}, paths)
}

func TestUploadFile(t *testing.T) {
	t.Run("Success - Relative URL Resolved", func(t *testing.T) {
		// Arrange
		client := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/admin/upload", r.URL.Path)

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()

			body, _ := io.ReadAll(file)
			assert.Equal(t, "jersey.png", header.Filename)
			assert.Equal(t, "PNGDATA", string(body))
			_, _ = io.WriteString(w, `{"url":"/uploads/jersey.png"}`)
		})

		// Act
		result, err := client.UploadFile(t.Context(), "tok-1", "/tmp/jersey.png", strings.NewReader("PNGDATA"))

		// Assert
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.URL, client.BaseURL()+"/uploads/"))
	})

	t.Run("Success - Absolute URL Kept", func(t *testing.T) {
		// Arrange
		client := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"url":"https://cdn.example.com/a.png"}`)
		})

		// Act
		result, err := client.UploadFile(t.Context(), "tok-1", "a.png", strings.NewReader("x"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/a.png", result.URL)
	})
}
