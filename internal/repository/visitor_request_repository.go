package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/qshe-portal/internal/model"
)

const visitorRequestColumns = `id, visitor_name, visitor_email, visitor_phone, company, purpose_of_visit,
	host_employee, areas_to_visit, requested_date, duration_hours, special_requirements,
	security_clearance_level, status, approved_by, approval_notes, created_at, updated_at`

// VisitorRequestRepo encapsulates all queries on the visitor_requests
// table. areas_to_visit is a JSON array column.
type VisitorRequestRepo struct {
	db *sql.DB
}

func NewVisitorRequestRepo(db *sql.DB) *VisitorRequestRepo {
	return &VisitorRequestRepo{db: db}
}

func (r *VisitorRequestRepo) Create(ctx context.Context, v *model.VisitorRequest) error {
	areas, err := json.Marshal(v.AreasToVisit)
	if err != nil {
		return fmt.Errorf("encode areas: %w", err)
	}
	const q = `INSERT INTO visitor_requests
		(visitor_name, visitor_email, visitor_phone, company, purpose_of_visit, host_employee,
		 areas_to_visit, requested_date, duration_hours, special_requirements, security_clearance_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.VisitorName, v.VisitorEmail, v.VisitorPhone, v.Company,
		v.PurposeOfVisit, v.HostEmployee, string(areas), v.RequestedDate, v.DurationHours,
		v.SpecialRequirements, string(v.SecurityClearanceLevel))
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
	*v = created
	return nil
}

func (r *VisitorRequestRepo) GetByID(ctx context.Context, id uint64) (model.VisitorRequest, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+visitorRequestColumns+" FROM visitor_requests WHERE id = ?", id)
	return scanVisitorRequest(row)
}

// List returns every visitor request, most recent first.
func (r *VisitorRequestRepo) List(ctx context.Context) ([]model.VisitorRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+visitorRequestColumns+" FROM visitor_requests ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.VisitorRequest{}
	for rows.Next() {
		v, err := scanVisitorRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Review records the approval decision and the approving admin.
func (r *VisitorRequestRepo) Review(ctx context.Context, id uint64, status model.VisitorStatus, notes *string, approverID uint64) (model.VisitorRequest, error) {
	const q = `UPDATE visitor_requests
	           SET status = ?, approval_notes = ?, approved_by = ?, updated_at = CURRENT_TIMESTAMP(6)
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), notes, approverID, id)
	if err != nil {
		return model.VisitorRequest{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.VisitorRequest{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func scanVisitorRequest(s rowScanner) (model.VisitorRequest, error) {
	var (
		v                                   model.VisitorRequest
		email, phone, company, special, nts sql.NullString
		approvedBy                          sql.NullInt64
		areas                               []byte
		clearance, status                   string
	)
	err := s.Scan(&v.ID, &v.VisitorName, &email, &phone, &company, &v.PurposeOfVisit,
		&v.HostEmployee, &areas, &v.RequestedDate, &v.DurationHours, &special,
		&clearance, &status, &approvedBy, &nts, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.VisitorRequest{}, ErrNotFound
		}
		return model.VisitorRequest{}, err
	}
	if err := json.Unmarshal(areas, &v.AreasToVisit); err != nil {
		return model.VisitorRequest{}, fmt.Errorf("visitor request %d: decode areas: %w", v.ID, err)
	}
	if v.AreasToVisit == nil {
		v.AreasToVisit = []string{}
	}
	if v.SecurityClearanceLevel, err = model.ParseClearanceLevel(clearance); err != nil {
		return model.VisitorRequest{}, fmt.Errorf("visitor request %d: %w", v.ID, err)
	}
	if v.Status, err = model.ParseVisitorStatus(status); err != nil {
		return model.VisitorRequest{}, fmt.Errorf("visitor request %d: %w", v.ID, err)
	}
	v.VisitorEmail = stringPtr(email)
	v.VisitorPhone = stringPtr(phone)
	v.Company = stringPtr(company)
	v.SpecialRequirements = stringPtr(special)
	v.ApprovedBy = uint64Ptr(approvedBy)
	v.ApprovalNotes = stringPtr(nts)
	return v, nil
}
