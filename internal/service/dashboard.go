package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/model"
)

type DashboardStore interface {
	SafetyCounts(ctx context.Context) (model.SafetyCounts, error)
	MedicalCounts(ctx context.Context) (model.MedicalCounts, error)
	VisitorCounts(ctx context.Context) (model.VisitorCounts, error)
	CompetencyCounts(ctx context.Context) (model.CompetencyCounts, error)
}

type DashboardService struct {
	store DashboardStore
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store}
}

// Stats runs the per-table aggregations concurrently. Competency counts
// are only computed for admins and stay zero otherwise.
func (s *DashboardService) Stats(ctx context.Context, caller model.Identity) (model.DashboardStats, error) {
	if err := requireCaller(caller); err != nil {
		return model.DashboardStats{}, err
	}
	var stats model.DashboardStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Safety, err = s.store.SafetyCounts(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Medical, err = s.store.MedicalCounts(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Visitor, err = s.store.VisitorCounts(ctx)
		return err
	})
	if caller.IsAdmin() {
		g.Go(func() (err error) {
			stats.Competency, err = s.store.CompetencyCounts(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return model.DashboardStats{}, apperr.Wrap(apperr.Internal, "failed to load dashboard stats", err)
	}
	return stats, nil
}
