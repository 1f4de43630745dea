package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles. It must run after
// JWTAuth. A request with no identity is rejected with 401, one with a
// role outside the set with 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return deny(c, apperr.Unauthenticated, "Access token required")
			}
			if !allowed[id.Role] {
				return deny(c, apperr.PermissionDenied, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
