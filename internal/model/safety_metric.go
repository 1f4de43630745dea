package model

import "time"

// SafetyMetric is a logged safety incident from the `safety_metrics`
// table. ReportedBy is always the authenticated creator.
//
// Fields:
//
//	ID           : primary key identifier.
//	ReportedBy   : users.id of the creator.
//	IncidentType : free-form incident category (e.g. "Near Miss").
//	SeverityLevel: low, medium, high or critical.
//	DateOccurred : when the incident happened.
//	ActionsTaken : optional remediation notes.
//	Status       : open, investigating, resolved or closed.
type SafetyMetric struct {
	ID            uint64
	ReportedBy    uint64
	IncidentType  string
	SeverityLevel SeverityLevel
	Description   string
	Location      string
	DateOccurred  time.Time
	ActionsTaken  *string
	Status        SafetyStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
