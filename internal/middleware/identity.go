package middleware

// identity.go holds the context plumbing shared by the middleware in
// this package: JWTAuth stores the verified caller, everything after it
// reads it back through IdentityFrom.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/model"
)

const identityKey = "identity"

// SetIdentity attaches the verified caller to the request context.
func SetIdentity(c echo.Context, id model.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller stored by JWTAuth. ok is false on
// routes that are not behind JWTAuth.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	if !ok || id.UserID == 0 {
		return model.Identity{}, false
	}
	return id, true
}

// userKey identifies the caller for rate-limit and cache keys. It
// returns "anon" when no one is authenticated.
func userKey(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return strconv.FormatUint(id.UserID, 10)
	}
	return "anon"
}

// deny writes the same error body the handlers produce.
func deny(c echo.Context, kind apperr.Kind, msg string) error {
	return c.JSON(apperr.HTTPStatus(kind), echo.Map{"error": msg, "kind": kind})
}
