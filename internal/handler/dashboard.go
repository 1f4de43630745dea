package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/service"
)

type DashboardHandler struct {
	Svc *service.DashboardService
	Log *zap.Logger
}

func NewDashboardHandler(svc *service.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Log: log}
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandler) Stats(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.Svc.Stats(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newDashboardResponse(stats))
}
