package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/service"
)

// MedicalReportHandler serves /qshe/medical-reports.
type MedicalReportHandler struct {
	Svc *service.MedicalReportService
	Log *zap.Logger
}

func NewMedicalReportHandler(svc *service.MedicalReportService, log *zap.Logger) *MedicalReportHandler {
	return &MedicalReportHandler{Svc: svc, Log: log}
}

type createMedicalReportReq struct {
	PatientName       string  `json:"patientName"`
	EmployeeID        *string `json:"employeeId"`
	ReportType        string  `json:"reportType"`
	MedicalCondition  string  `json:"medicalCondition"`
	TreatmentProvided *string `json:"treatmentProvided"`
	Recommendations   *string `json:"recommendations"`
	DateOfIncident    date    `json:"dateOfIncident"`
}

type reviewMedicalReportReq struct {
	ApprovalStatus string  `json:"approvalStatus"`
	ApprovalNotes  *string `json:"approvalNotes"`
}

func (h *MedicalReportHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	var req createMedicalReportReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.Svc.Create(ctx, id, service.CreateMedicalReportInput{
		PatientName:       req.PatientName,
		EmployeeID:        req.EmployeeID,
		ReportType:        req.ReportType,
		MedicalCondition:  req.MedicalCondition,
		TreatmentProvided: req.TreatmentProvided,
		Recommendations:   req.Recommendations,
		DateOfIncident:    req.DateOfIncident.Time,
	})
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, newMedicalReportResponse(r))
}

func (h *MedicalReportHandler) List(c echo.Context) error {
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
	return c.JSON(http.StatusOK, echo.Map{"reports": mapAll(list, newMedicalReportResponse)})
}

// Review handles PUT /qshe/medical-reports/:id/review.
func (h *MedicalReportHandler) Review(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	recordID, err := pathID(c)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	var req reviewMedicalReportReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.Svc.Review(ctx, id, recordID, req.ApprovalStatus, req.ApprovalNotes)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newMedicalReportResponse(r))
}
