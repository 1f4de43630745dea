package model

import "time"

// SecurityPersonnel links a user to a security badge. Read-only here.
type SecurityPersonnel struct {
	ID              uint64
	UserID          uint64
	BadgeNumber     string
	SecurityLevel   string
	HireDate        time.Time
	ShiftAssignment string
	IsActive        bool
	FirstName       string // users.first_name
	LastName        string // users.last_name
	Email           string // users.email
}

// CompetencyAssessment records a scored assessment of security personnel.
type CompetencyAssessment struct {
	ID                      uint64
	PersonnelID             uint64
	CompetencyType          string
	AssessmentDate          time.Time
	Score                   int
	AssessorID              uint64
	CertificationValidUntil *time.Time
	Notes                   *string
	Status                  CompetencyStatus
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
