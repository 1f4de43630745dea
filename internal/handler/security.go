package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/service"
)

// SecurityHandler serves the admin-only security reference lists.
type SecurityHandler struct {
	Svc *service.ReferenceService
	Log *zap.Logger
}

func NewSecurityHandler(svc *service.ReferenceService, log *zap.Logger) *SecurityHandler {
	return &SecurityHandler{Svc: svc, Log: log}
}

func (h *SecurityHandler) ListAssessments(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Svc.ListAssessments(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"assessments": mapAll(list, newAssessmentResponse)})
}

func (h *SecurityHandler) ListPersonnel(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Svc.ListPersonnel(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"personnel": mapAll(list, newPersonnelResponse)})
}
