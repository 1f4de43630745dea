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

type VisitorRequestStore interface {
	Create(ctx context.Context, v *model.VisitorRequest) error
	List(ctx context.Context) ([]model.VisitorRequest, error)
	Review(ctx context.Context, id uint64, status model.VisitorStatus, notes *string, approverID uint64) (model.VisitorRequest, error)
}

type CreateVisitorRequestInput struct {
	VisitorName            string
	VisitorEmail           *string
	VisitorPhone           *string
	Company                *string
	PurposeOfVisit         string
	AreasToVisit           []string
	RequestedDate          time.Time
	DurationHours          int
	SpecialRequirements    *string
	SecurityClearanceLevel string
}

type VisitorRequestService struct {
	store  VisitorRequestStore
	events ReviewPublisher
	log    *zap.Logger
}

func NewVisitorRequestService(store VisitorRequestStore, events ReviewPublisher, log *zap.Logger) *VisitorRequestService {
	return &VisitorRequestService{store: store, events: events, log: log}
}

// Create files a visit request hosted by the caller.
func (s *VisitorRequestService) Create(ctx context.Context, caller model.Identity, in CreateVisitorRequestInput) (model.VisitorRequest, error) {
	if err := requireCaller(caller); err != nil {
		return model.VisitorRequest{}, err
	}
	if err := requiredFields("visitorName", in.VisitorName, "purposeOfVisit", in.PurposeOfVisit); err != nil {
		return model.VisitorRequest{}, err
	}
	if err := requiredTime("requestedDate", in.RequestedDate); err != nil {
		return model.VisitorRequest{}, err
	}
	if in.DurationHours <= 0 {
		return model.VisitorRequest{}, apperr.New(apperr.InvalidArgument, "durationHours must be positive")
	}
	clearance, err := model.ParseClearanceLevel(in.SecurityClearanceLevel)
	if err != nil {
		return model.VisitorRequest{}, apperr.Wrap(apperr.InvalidArgument,
			"securityClearanceLevel must be basic, restricted or confidential", err)
	}
	if len(in.AreasToVisit) == 0 {
		return model.VisitorRequest{}, apperr.New(apperr.InvalidArgument, "areasToVisit must list at least one area")
	}
	areas := make([]string, len(in.AreasToVisit))
	for i, a := range in.AreasToVisit {
		if areas[i] = strings.TrimSpace(a); areas[i] == "" {
			return model.VisitorRequest{}, apperr.New(apperr.InvalidArgument, "areasToVisit must not contain blank entries")
		}
	}

	v := model.VisitorRequest{
		VisitorName:            strings.TrimSpace(in.VisitorName),
		VisitorEmail:           optional(in.VisitorEmail),
		VisitorPhone:           optional(in.VisitorPhone),
		Company:                optional(in.Company),
		PurposeOfVisit:         strings.TrimSpace(in.PurposeOfVisit),
		HostEmployee:           caller.UserID,
		AreasToVisit:           areas,
		RequestedDate:          in.RequestedDate.UTC(),
		DurationHours:          in.DurationHours,
		SpecialRequirements:    optional(in.SpecialRequirements),
		SecurityClearanceLevel: clearance,
	}
	if err := s.store.Create(ctx, &v); err != nil {
		return model.VisitorRequest{}, createError("visitor request", err)
	}
	return v, nil
}

func (s *VisitorRequestService) List(ctx context.Context, caller model.Identity) ([]model.VisitorRequest, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list visitor requests", err)
	}
	return out, nil
}

// Review records an admin's decision and stamps the approver.
func (s *VisitorRequestService) Review(ctx context.Context, caller model.Identity, id uint64, status string, notes *string) (model.VisitorRequest, error) {
	if err := requireAdmin(caller, "Only admins can review visitor requests"); err != nil {
		return model.VisitorRequest{}, err
	}
	st, err := model.ParseVisitorStatus(status)
	if err != nil {
		return model.VisitorRequest{}, apperr.Wrap(apperr.InvalidArgument,
			"status must be pending, approved, rejected, completed or cancelled", err)
	}
	notes = optional(notes)
	v, err := s.store.Review(ctx, id, st, notes, caller.UserID)
	if err != nil {
		return model.VisitorRequest{}, reviewError("Visitor request", err)
	}
	s.log.Info("visitor request reviewed",
		zap.Uint64("id", id), zap.String("status", string(st)), zap.Uint64("reviewer_id", caller.UserID))
	publishReview(ctx, s.events, s.log, queue.RecordReviewedEvent{
		Kind:       queue.KindVisitorRequest,
		RecordID:   v.ID,
		Status:     string(v.Status),
		ReviewerID: caller.UserID,
		Notes:      derefString(notes),
	})
	return v, nil
}
