package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/qshe-portal/internal/model"
)

const medicalReportColumns = `id, patient_name, employee_id, report_type, medical_condition,
	treatment_provided, recommendations, reported_by, reviewed_by, approval_status,
	approval_notes, date_of_incident, created_at, updated_at`

// MedicalReportRepo encapsulates all queries on the medical_reports table.
type MedicalReportRepo struct {
	db *sql.DB
}

func NewMedicalReportRepo(db *sql.DB) *MedicalReportRepo {
	return &MedicalReportRepo{db: db}
}

// Create inserts r with approval_status pending and reloads the row.
func (r *MedicalReportRepo) Create(ctx context.Context, m *model.MedicalReport) error {
	const q = `INSERT INTO medical_reports
		(patient_name, employee_id, report_type, medical_condition, treatment_provided,
		 recommendations, reported_by, date_of_incident)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.PatientName, m.EmployeeID, m.ReportType, m.MedicalCondition,
		m.TreatmentProvided, m.Recommendations, m.ReportedBy, m.DateOfIncident)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*m = created
	return nil
}

func (r *MedicalReportRepo) GetByID(ctx context.Context, id uint64) (model.MedicalReport, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+medicalReportColumns+" FROM medical_reports WHERE id = ?", id)
	return scanMedicalReport(row)
}

// List returns every medical report, most recent first.
func (r *MedicalReportRepo) List(ctx context.Context) ([]model.MedicalReport, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+medicalReportColumns+" FROM medical_reports ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MedicalReport{}
	for rows.Next() {
		m, err := scanMedicalReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Review records an approval decision and the reviewer. Notes replace
// any previous notes, including with NULL.
func (r *MedicalReportRepo) Review(ctx context.Context, id uint64, status model.ApprovalStatus, notes *string, reviewerID uint64) (model.MedicalReport, error) {
	const q = `UPDATE medical_reports
	           SET approval_status = ?, approval_notes = ?, reviewed_by = ?, updated_at = CURRENT_TIMESTAMP(6)
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), notes, reviewerID, id)
	if err != nil {
		return model.MedicalReport{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.MedicalReport{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func scanMedicalReport(s rowScanner) (model.MedicalReport, error) {
	var (
		m                                        model.MedicalReport
		empID, treatment, recommendations, notes sql.NullString
		reviewedBy                               sql.NullInt64
		status                                   string
	)
	err := s.Scan(&m.ID, &m.PatientName, &empID, &m.ReportType, &m.MedicalCondition,
		&treatment, &recommendations, &m.ReportedBy, &reviewedBy, &status,
		&notes, &m.DateOfIncident, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MedicalReport{}, ErrNotFound
		}
		return model.MedicalReport{}, err
	}
	if m.ApprovalStatus, err = model.ParseApprovalStatus(status); err != nil {
		return model.MedicalReport{}, fmt.Errorf("medical report %d: %w", m.ID, err)
	}
	m.EmployeeID = stringPtr(empID)
	m.TreatmentProvided = stringPtr(treatment)
	m.Recommendations = stringPtr(recommendations)
	m.ReviewedBy = uint64Ptr(reviewedBy)
	m.ApprovalNotes = stringPtr(notes)
	return m, nil
}
