package model

import "time"

// MedicalReport is a row of the `medical_reports` table. ReviewedBy
// and ApprovalNotes are only ever written by the review operation.
type MedicalReport struct {
	ID                uint64
	PatientName       string
	EmployeeID        *string
	ReportType        string
	MedicalCondition  string
	TreatmentProvided *string
	Recommendations   *string
	ReportedBy        uint64
	ReviewedBy        *uint64
	ApprovalStatus    ApprovalStatus
	ApprovalNotes     *string
	DateOfIncident    time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
