package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/model"
	"github.com/iliyamo/qshe-portal/internal/queue"
)

type MedicalReportStore interface {
	Create(ctx context.Context, r *model.MedicalReport) error
	List(ctx context.Context) ([]model.MedicalReport, error)
	Review(ctx context.Context, id uint64, status model.ApprovalStatus, notes *string, reviewerID uint64) (model.MedicalReport, error)
}

type CreateMedicalReportInput struct {
	PatientName       string
	EmployeeID        *string
	ReportType        string
	MedicalCondition  string
	TreatmentProvided *string
	Recommendations   *string
	DateOfIncident    time.Time
}

type MedicalReportService struct {
	store  MedicalReportStore
	events ReviewPublisher
	log    *zap.Logger
}

func NewMedicalReportService(store MedicalReportStore, events ReviewPublisher, log *zap.Logger) *MedicalReportService {
	return &MedicalReportService{store: store, events: events, log: log}
}

// Create files a report pending approval, attributed to the caller.
func (s *MedicalReportService) Create(ctx context.Context, caller model.Identity, in CreateMedicalReportInput) (model.MedicalReport, error) {
	if err := requireCaller(caller); err != nil {
		return model.MedicalReport{}, err
	}
	if err := requiredFields("patientName", in.PatientName, "reportType", in.ReportType, "medicalCondition", in.MedicalCondition); err != nil {
		return model.MedicalReport{}, err
	}
	if err := requiredTime("dateOfIncident", in.DateOfIncident); err != nil {
		return model.MedicalReport{}, err
	}

	r := model.MedicalReport{
		PatientName:       strings.TrimSpace(in.PatientName),
		EmployeeID:        optional(in.EmployeeID),
		ReportType:        strings.TrimSpace(in.ReportType),
		MedicalCondition:  strings.TrimSpace(in.MedicalCondition),
		TreatmentProvided: optional(in.TreatmentProvided),
		Recommendations:   optional(in.Recommendations),
		ReportedBy:        caller.UserID,
		DateOfIncident:    in.DateOfIncident.UTC(),
	}
	if err := s.store.Create(ctx, &r); err != nil {
		return model.MedicalReport{}, createError("medical report", err)
	}
	return r, nil
}

func (s *MedicalReportService) List(ctx context.Context, caller model.Identity) ([]model.MedicalReport, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list medical reports", err)
	}
	return out, nil
}

// Review records an admin's approval decision and stamps the reviewer.
func (s *MedicalReportService) Review(ctx context.Context, caller model.Identity, id uint64, status string, notes *string) (model.MedicalReport, error) {
	if err := requireAdmin(caller, "Only admins can review medical reports"); err != nil {
		return model.MedicalReport{}, err
	}
	st, err := model.ParseApprovalStatus(status)
	if err != nil {
		return model.MedicalReport{}, apperr.Wrap(apperr.InvalidArgument,
			"approvalStatus must be pending, approved, rejected or revision_required", err)
	}
	notes = optional(notes)
	r, err := s.store.Review(ctx, id, st, notes, caller.UserID)
	if err != nil {
		return model.MedicalReport{}, reviewError("Medical report", err)
	}
	s.log.Info("medical report reviewed",
		zap.Uint64("id", id), zap.String("status", string(st)), zap.Uint64("reviewer_id", caller.UserID))
	publishReview(ctx, s.events, s.log, queue.RecordReviewedEvent{
		Kind:       queue.KindMedicalReport,
		RecordID:   r.ID,
		Status:     string(r.ApprovalStatus),
		ReviewerID: caller.UserID,
		Notes:      derefString(notes),
	})
	return r, nil
}
