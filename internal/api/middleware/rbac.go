package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

// RBAC lets the request through only when the verified claims carry one of
// roles. It must run after Auth; a request without claims is forbidden.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(domain.Claims)
			if !ok || !slices.Contains(roles, claims.Role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
