package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/qshe-portal/internal/model"
)

const safetyMetricColumns = `id, reported_by, incident_type, severity_level, description, location,
	date_occurred, actions_taken, status, created_at, updated_at`

// SafetyMetricRepo encapsulates all queries on the safety_metrics table.
type SafetyMetricRepo struct {
	db *sql.DB
}

func NewSafetyMetricRepo(db *sql.DB) *SafetyMetricRepo {
	return &SafetyMetricRepo{db: db}
}

// Create inserts m with the default status and reloads the stored row so
// the caller receives the generated id, status and timestamps.
func (r *SafetyMetricRepo) Create(ctx context.Context, m *model.SafetyMetric) error {
	const q = `INSERT INTO safety_metrics
		(reported_by, incident_type, severity_level, description, location, date_occurred, actions_taken)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.ReportedBy, m.IncidentType, string(m.SeverityLevel),
		m.Description, m.Location, m.DateOccurred, m.ActionsTaken)
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

// GetByID returns ErrNotFound when no row has the id.
func (r *SafetyMetricRepo) GetByID(ctx context.Context, id uint64) (model.SafetyMetric, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+safetyMetricColumns+" FROM safety_metrics WHERE id = ?", id)
	return scanSafetyMetric(row)
}

// List returns every safety metric, most recent first.
func (r *SafetyMetricRepo) List(ctx context.Context) ([]model.SafetyMetric, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+safetyMetricColumns+" FROM safety_metrics ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SafetyMetric{}
	for rows.Next() {
		m, err := scanSafetyMetric(rows)
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

// UpdateStatus sets the workflow status of a metric and returns the
// updated row. It returns ErrNotFound when the id matches nothing.
func (r *SafetyMetricRepo) UpdateStatus(ctx context.Context, id uint64, status model.SafetyStatus) (model.SafetyMetric, error) {
	const q = `UPDATE safety_metrics
	           SET status = ?, updated_at = CURRENT_TIMESTAMP(6)
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return model.SafetyMetric{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.SafetyMetric{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func scanSafetyMetric(s rowScanner) (model.SafetyMetric, error) {
	var (
		m                model.SafetyMetric
		severity, status string
		actions          sql.NullString
	)
	err := s.Scan(&m.ID, &m.ReportedBy, &m.IncidentType, &severity, &m.Description, &m.Location,
		&m.DateOccurred, &actions, &status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SafetyMetric{}, ErrNotFound
		}
		return model.SafetyMetric{}, err
	}
	if m.SeverityLevel, err = model.ParseSeverityLevel(severity); err != nil {
		return model.SafetyMetric{}, fmt.Errorf("safety metric %d: %w", m.ID, err)
	}
	if m.Status, err = model.ParseSafetyStatus(status); err != nil {
		return model.SafetyMetric{}, fmt.Errorf("safety metric %d: %w", m.ID, err)
	}
	m.ActionsTaken = stringPtr(actions)
	return m, nil
}
