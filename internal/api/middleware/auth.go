package middleware

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

// Session is the part of the admin session the gate needs.
type Session interface {
	Token() string
	IsAuthenticated() bool
}

type AuthMiddleware struct {
	session Session
}

func NewAuthMiddleware(session Session) *AuthMiddleware {
	return &AuthMiddleware{session: session}
}

// RequireAdmin lets the request through only while an unexpired admin
// token is held.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		if m.session.Token() == "" {
			logger.Warn("Admin route called without a session")
			response.Error(w, errors.UnauthorizedError("Admin login required"))
			return
		}

		if !m.session.IsAuthenticated() {
			logger.Warn("Admin session expired")
			response.Error(w, errors.UnauthorizedError("Admin session expired"))
			return
		}

		next.ServeHTTP(w, r)
	}
}
