package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/qshe-portal/internal/model"
)

// DashboardRepo runs the grouped count queries behind the dashboard.
type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

// SafetyCounts counts metrics by status and severity. Closed metrics
// count as resolved.
func (r *DashboardRepo) SafetyCounts(ctx context.Context) (model.SafetyCounts, error) {
	const q = `SELECT status, severity_level, COUNT(*) FROM safety_metrics GROUP BY status, severity_level`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return model.SafetyCounts{}, err
	}
	defer rows.Close()

	var c model.SafetyCounts
	for rows.Next() {
		var (
			status, severity string
			n                int
		)
		if err := rows.Scan(&status, &severity, &n); err != nil {
			return model.SafetyCounts{}, err
		}
		st, err := model.ParseSafetyStatus(status)
		if err != nil {
			return model.SafetyCounts{}, err
		}
		sev, err := model.ParseSeverityLevel(severity)
		if err != nil {
			return model.SafetyCounts{}, err
		}
		c.Total += n
		switch st {
		case model.SafetyOpen:
			c.Open += n
		case model.SafetyResolved, model.SafetyClosed:
			c.Resolved += n
		case model.SafetyInvestigating:
		}
		if sev == model.SeverityCritical {
			c.Critical += n
		}
	}
	return c, rows.Err()
}

func (r *DashboardRepo) MedicalCounts(ctx context.Context) (model.MedicalCounts, error) {
	const q = `SELECT approval_status, COUNT(*) FROM medical_reports GROUP BY approval_status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return model.MedicalCounts{}, err
	}
	defer rows.Close()

	var c model.MedicalCounts
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return model.MedicalCounts{}, err
		}
		st, err := model.ParseApprovalStatus(status)
		if err != nil {
			return model.MedicalCounts{}, err
		}
		c.Total += n
		switch st {
		case model.ApprovalPending:
			c.Pending += n
		case model.ApprovalApproved:
			c.Approved += n
		case model.ApprovalRejected:
			c.Rejected += n
		case model.ApprovalRevisionRequired:
		}
	}
	return c, rows.Err()
}

// VisitorCounts counts requests by status plus the visits requested for
// the current date.
func (r *DashboardRepo) VisitorCounts(ctx context.Context) (model.VisitorCounts, error) {
	const q = `SELECT status, COUNT(*) FROM visitor_requests GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return model.VisitorCounts{}, err
	}
	defer rows.Close()

	var c model.VisitorCounts
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return model.VisitorCounts{}, err
		}
		st, err := model.ParseVisitorStatus(status)
		if err != nil {
			return model.VisitorCounts{}, err
		}
		c.Total += n
		switch st {
		case model.VisitorPending:
			c.Pending += n
		case model.VisitorApproved:
			c.Approved += n
		case model.VisitorRejected, model.VisitorCompleted, model.VisitorCancelled:
		}
	}
	if err := rows.Err(); err != nil {
		return model.VisitorCounts{}, err
	}

	const qToday = `SELECT COUNT(*) FROM visitor_requests WHERE DATE(requested_date) = CURDATE()`
	if err := r.db.QueryRowContext(ctx, qToday).Scan(&c.Today); err != nil {
		return model.VisitorCounts{}, err
	}
	return c, nil
}

// CompetencyCounts counts assessments by status. Expiring means active
// with a certificate ending within the next 30 days.
func (r *DashboardRepo) CompetencyCounts(ctx context.Context) (model.CompetencyCounts, error) {
	const q = `SELECT status, COUNT(*) FROM competency_assessments GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return model.CompetencyCounts{}, err
	}
	defer rows.Close()

	var c model.CompetencyCounts
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return model.CompetencyCounts{}, err
		}
		st, err := model.ParseCompetencyStatus(status)
		if err != nil {
			return model.CompetencyCounts{}, err
		}
		c.Total += n
		switch st {
		case model.CompetencyActive:
			c.Active += n
		case model.CompetencyExpired:
			c.Expired += n
		case model.CompetencyPendingRenewal:
		}
	}
	if err := rows.Err(); err != nil {
		return model.CompetencyCounts{}, err
	}

	const qExpiring = `SELECT COUNT(*) FROM competency_assessments
	                   WHERE status = 'active'
	                     AND certification_valid_until > CURDATE()
	                     AND certification_valid_until <= CURDATE() + INTERVAL 30 DAY`
	if err := r.db.QueryRowContext(ctx, qExpiring).Scan(&c.Expiring); err != nil {
		return model.CompetencyCounts{}, err
	}
	return c, nil
}
