package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
	"github.com/sweetshop/sweet-shop/internal/core/service"
)

// Context keys populated by Auth.
const (
	ClaimsKey = "claims"
	EmailKey  = "email"
	RoleKey   = "role"
)

// TokenVerifier turns a bearer token into claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Claims, error)
}

// Auth validates the bearer token and injects claims into context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(c.Request().Context(), strings.TrimSpace(parts[1]))
			switch {
			case errors.Is(err, domain.ErrTokenRevoked):
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			case errors.Is(err, service.ErrInvalidToken):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case err != nil:
				// revocation store unavailable
				return err
			}

			c.Set(ClaimsKey, *claims)
			c.Set(EmailKey, claims.Email)
			c.Set(RoleKey, claims.Role)

			return next(c)
		}
	}
}
