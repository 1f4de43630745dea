package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/model"
)

// TokenVerifier checks a raw bearer token and returns the caller it
// was issued to.
type TokenVerifier interface {
	Verify(raw string) (model.Identity, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the verified identity on the context for the handlers. A
// missing header and a bad token both end the request with 401; the
// reason a token was rejected is only logged.
func JWTAuth(v TokenVerifier, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return deny(c, apperr.Unauthenticated, "Access token required")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if raw == "" {
				return deny(c, apperr.Unauthenticated, "Access token required")
			}

			id, err := v.Verify(raw)
			if err != nil {
				log.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
				return deny(c, apperr.Unauthenticated, "Invalid or expired token")
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}
