package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/qshe-portal/internal/model"
)

// CompetencyRepo reads security personnel and their competency
// assessments. Both tables are reference data maintained outside this
// service, so only read paths exist.
type CompetencyRepo struct {
	db *sql.DB
}

func NewCompetencyRepo(db *sql.DB) *CompetencyRepo {
	return &CompetencyRepo{db: db}
}

// ListAssessments returns all assessments, latest assessment first.
func (r *CompetencyRepo) ListAssessments(ctx context.Context) ([]model.CompetencyAssessment, error) {
	const q = `SELECT id, personnel_id, competency_type, assessment_date, score, assessor_id,
	                  certification_valid_until, notes, status, created_at, updated_at
	           FROM competency_assessments
	           ORDER BY assessment_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CompetencyAssessment{}
	for rows.Next() {
		var (
			a          model.CompetencyAssessment
			validUntil sql.NullTime
			notes      sql.NullString
			status     string
		)
		if err := rows.Scan(&a.ID, &a.PersonnelID, &a.CompetencyType, &a.AssessmentDate, &a.Score,
			&a.AssessorID, &validUntil, &notes, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if a.Status, err = model.ParseCompetencyStatus(status); err != nil {
			return nil, fmt.Errorf("assessment %d: %w", a.ID, err)
		}
		a.CertificationValidUntil = timePtr(validUntil)
		a.Notes = stringPtr(notes)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPersonnel returns all security personnel joined with their user
// names, ordered by badge number.
func (r *CompetencyRepo) ListPersonnel(ctx context.Context) ([]model.SecurityPersonnel, error) {
	const q = `SELECT sp.id, sp.user_id, sp.badge_number, sp.security_level, sp.hire_date,
	                  sp.shift_assignment, sp.is_active, u.first_name, u.last_name, u.email
	           FROM security_personnel sp
	           JOIN users u ON sp.user_id = u.id
	           ORDER BY sp.badge_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SecurityPersonnel{}
	for rows.Next() {
		var p model.SecurityPersonnel
		if err := rows.Scan(&p.ID, &p.UserID, &p.BadgeNumber, &p.SecurityLevel, &p.HireDate,
			&p.ShiftAssignment, &p.IsActive, &p.FirstName, &p.LastName, &p.Email); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
