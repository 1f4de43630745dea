package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/middleware"
	"github.com/iliyamo/qshe-portal/internal/model"
)

// requestTimeout bounds every database round trip made for a request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// writeError renders err as {"error", "kind"}. Only the categorized
// message reaches the client; internal causes are logged.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Wrap(apperr.Internal, "internal server error", err)
	}
	if e.Kind == apperr.Internal {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err))
	}
	return c.JSON(apperr.HTTPStatus(e.Kind), echo.Map{"error": e.Message, "kind": e.Kind})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(apperr.HTTPStatus(apperr.InvalidArgument), echo.Map{"error": msg, "kind": apperr.InvalidArgument})
}

// caller returns the identity stored by the auth middleware.
func caller(c echo.Context) (model.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return model.Identity{}, apperr.New(apperr.Unauthenticated, "Access token required")
	}
	return id, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.InvalidArgument, "invalid id")
	}
	return id, nil
}

// ErrorHandler renders errors that escape the handlers, such as unknown
// routes or wrong methods, in the same shape as writeError.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			kind := apperr.Internal
			switch he.Code {
			case http.StatusNotFound, http.StatusMethodNotAllowed:
				kind = apperr.NotFound
			case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
				kind = apperr.InvalidArgument
			case http.StatusUnauthorized:
				kind = apperr.Unauthenticated
			case http.StatusForbidden:
				kind = apperr.PermissionDenied
			}
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok {
				msg = s
			}
			_ = c.JSON(he.Code, echo.Map{"error": msg, "kind": kind})
			return
		}
		_ = writeError(c, log, err)
	}
}
