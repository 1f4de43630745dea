package service

import (
	"context"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/model"
)

type CompetencyStore interface {
	ListAssessments(ctx context.Context) ([]model.CompetencyAssessment, error)
	ListPersonnel(ctx context.Context) ([]model.SecurityPersonnel, error)
}

// ReferenceService exposes the read-only security reference data.
type ReferenceService struct {
	store CompetencyStore
}

func NewReferenceService(store CompetencyStore) *ReferenceService {
	return &ReferenceService{store: store}
}

func (s *ReferenceService) ListAssessments(ctx context.Context, caller model.Identity) ([]model.CompetencyAssessment, error) {
	if err := requireAdmin(caller, "Only admins can view competency assessments"); err != nil {
		return nil, err
	}
	out, err := s.store.ListAssessments(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list competency assessments", err)
	}
	return out, nil
}

func (s *ReferenceService) ListPersonnel(ctx context.Context, caller model.Identity) ([]model.SecurityPersonnel, error) {
	if err := requireAdmin(caller, "Only admins can view security personnel"); err != nil {
		return nil, err
	}
	out, err := s.store.ListPersonnel(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list security personnel", err)
	}
	return out, nil
}
