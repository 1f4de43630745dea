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

type SafetyMetricStore interface {
	Create(ctx context.Context, m *model.SafetyMetric) error
	List(ctx context.Context) ([]model.SafetyMetric, error)
	UpdateStatus(ctx context.Context, id uint64, status model.SafetyStatus) (model.SafetyMetric, error)
}

// CreateSafetyMetricInput carries no reporter field: the reporter is
// always the caller.
type CreateSafetyMetricInput struct {
	IncidentType  string
	SeverityLevel string
	Description   string
	Location      string
	DateOccurred  time.Time
	ActionsTaken  *string
}

type SafetyMetricService struct {
	store  SafetyMetricStore
	events ReviewPublisher
	log    *zap.Logger
}

func NewSafetyMetricService(store SafetyMetricStore, events ReviewPublisher, log *zap.Logger) *SafetyMetricService {
	return &SafetyMetricService{store: store, events: events, log: log}
}

// Create logs a new incident with status open.
func (s *SafetyMetricService) Create(ctx context.Context, caller model.Identity, in CreateSafetyMetricInput) (model.SafetyMetric, error) {
	if err := requireCaller(caller); err != nil {
		return model.SafetyMetric{}, err
	}
	severity, err := model.ParseSeverityLevel(in.SeverityLevel)
	if err != nil {
		return model.SafetyMetric{}, apperr.Wrap(apperr.InvalidArgument, "severityLevel must be low, medium, high or critical", err)
	}
	if err := requiredFields("incidentType", in.IncidentType, "description", in.Description, "location", in.Location); err != nil {
		return model.SafetyMetric{}, err
	}
	if err := requiredTime("dateOccurred", in.DateOccurred); err != nil {
		return model.SafetyMetric{}, err
	}

	m := model.SafetyMetric{
		ReportedBy:    caller.UserID,
		IncidentType:  strings.TrimSpace(in.IncidentType),
		SeverityLevel: severity,
		Description:   strings.TrimSpace(in.Description),
		Location:      strings.TrimSpace(in.Location),
		DateOccurred:  in.DateOccurred.UTC(),
		ActionsTaken:  optional(in.ActionsTaken),
	}
	if err := s.store.Create(ctx, &m); err != nil {
		return model.SafetyMetric{}, createError("safety metric", err)
	}
	return m, nil
}

// List returns every metric system-wide, newest first.
func (s *SafetyMetricService) List(ctx context.Context, caller model.Identity) ([]model.SafetyMetric, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list safety metrics", err)
	}
	return out, nil
}

// UpdateStatus moves a metric to any status in the closed set. Only
// admins may call it; the last concurrent writer wins.
func (s *SafetyMetricService) UpdateStatus(ctx context.Context, caller model.Identity, id uint64, status string) (model.SafetyMetric, error) {
	if err := requireAdmin(caller, "Only admins can update safety metric status"); err != nil {
		return model.SafetyMetric{}, err
	}
	st, err := model.ParseSafetyStatus(status)
	if err != nil {
		return model.SafetyMetric{}, apperr.Wrap(apperr.InvalidArgument, "status must be open, investigating, resolved or closed", err)
	}
	m, err := s.store.UpdateStatus(ctx, id, st)
	if err != nil {
		return model.SafetyMetric{}, reviewError("Safety metric", err)
	}
	s.log.Info("safety metric status updated",
		zap.Uint64("id", id), zap.String("status", string(st)), zap.Uint64("reviewer_id", caller.UserID))
	publishReview(ctx, s.events, s.log, queue.RecordReviewedEvent{
		Kind:       queue.KindSafetyMetric,
		RecordID:   m.ID,
		Status:     string(m.Status),
		ReviewerID: caller.UserID,
	})
	return m, nil
}
