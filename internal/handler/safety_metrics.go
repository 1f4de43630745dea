package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/service"
)

// SafetyMetricHandler serves /qshe/safety-metrics.
type SafetyMetricHandler struct {
	Svc *service.SafetyMetricService
	Log *zap.Logger
}

func NewSafetyMetricHandler(svc *service.SafetyMetricService, log *zap.Logger) *SafetyMetricHandler {
	return &SafetyMetricHandler{Svc: svc, Log: log}
}

// createSafetyMetricReq has no reporter field; any reportedBy sent by
// the client is dropped during decoding.
type createSafetyMetricReq struct {
	IncidentType  string  `json:"incidentType"`
	SeverityLevel string  `json:"severityLevel"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	DateOccurred  date    `json:"dateOccurred"`
	ActionsTaken  *string `json:"actionsTaken"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *SafetyMetricHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	var req createSafetyMetricReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Svc.Create(ctx, id, service.CreateSafetyMetricInput{
		IncidentType:  req.IncidentType,
		SeverityLevel: req.SeverityLevel,
		Description:   req.Description,
		Location:      req.Location,
		DateOccurred:  req.DateOccurred.Time,
		ActionsTaken:  req.ActionsTaken,
	})
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, newSafetyMetricResponse(m))
}

func (h *SafetyMetricHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Svc.List(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"metrics": mapAll(list, newSafetyMetricResponse)})
}

// UpdateStatus handles PUT /qshe/safety-metrics/:id/status.
func (h *SafetyMetricHandler) UpdateStatus(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	recordID, err := pathID(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Svc.UpdateStatus(ctx, id, recordID, req.Status)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newSafetyMetricResponse(m))
}
