package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/service"
)

// VisitorRequestHandler serves /security/visitor-requests.
type VisitorRequestHandler struct {
	Svc *service.VisitorRequestService
	Log *zap.Logger
}

func NewVisitorRequestHandler(svc *service.VisitorRequestService, log *zap.Logger) *VisitorRequestHandler {
	return &VisitorRequestHandler{Svc: svc, Log: log}
}

type createVisitorRequestReq struct {
	VisitorName            string   `json:"visitorName"`
	VisitorEmail           *string  `json:"visitorEmail"`
	VisitorPhone           *string  `json:"visitorPhone"`
	Company                *string  `json:"company"`
	PurposeOfVisit         string   `json:"purposeOfVisit"`
	AreasToVisit           []string `json:"areasToVisit"`
	RequestedDate          date     `json:"requestedDate"`
	DurationHours          int      `json:"durationHours"`
	SpecialRequirements    *string  `json:"specialRequirements"`
	SecurityClearanceLevel string   `json:"securityClearanceLevel"`
}

type reviewVisitorRequestReq struct {
	Status        string  `json:"status"`
	ApprovalNotes *string `json:"approvalNotes"`
}

func (h *VisitorRequestHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	var req createVisitorRequestReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	v, err := h.Svc.Create(ctx, id, service.CreateVisitorRequestInput{
		VisitorName:            req.VisitorName,
		VisitorEmail:           req.VisitorEmail,
		VisitorPhone:           req.VisitorPhone,
		Company:                req.Company,
		PurposeOfVisit:         req.PurposeOfVisit,
		AreasToVisit:           req.AreasToVisit,
		RequestedDate:          req.RequestedDate.Time,
		DurationHours:          req.DurationHours,
		SpecialRequirements:    req.SpecialRequirements,
		SecurityClearanceLevel: req.SecurityClearanceLevel,
	})
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, newVisitorRequestResponse(v))
}

func (h *VisitorRequestHandler) List(c echo.Context) error {
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
	return c.JSON(http.StatusOK, echo.Map{"requests": mapAll(list, newVisitorRequestResponse)})
}

// Review handles PUT /security/visitor-requests/:id/review.
func (h *VisitorRequestHandler) Review(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	recordID, err := pathID(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	var req reviewVisitorRequestReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	v, err := h.Svc.Review(ctx, id, recordID, req.Status, req.ApprovalNotes)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newVisitorRequestResponse(v))
}
