package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/folio/internal/domain"
)

const claimsContextKey = "auth_claims"

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Claims, error)
}

// RequireAdmin rejects requests without a valid "Authorization: Bearer" token.
// Verified claims are stored in gin.Context and the admin email is attached
// to the logging context.
func RequireAdmin(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.Header("WWW-Authenticate", `Bearer realm="folio"`)
			abortJSON(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="folio", error="invalid_token"`)
			abortJSON(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(claimsContextKey, claims)
		ctx := logger.WithContextAttrs(c.Request.Context(), slog.String("admin", claims.Email))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClaims returns the claims set by RequireAdmin, or nil.
func GetClaims(c *gin.Context) *domain.Claims {
	if v, ok := c.Get(claimsContextKey); ok {
		if claims, ok := v.(*domain.Claims); ok {
			return claims
		}
	}
	return nil
}
