package model

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleVisitor Role = "visitor"
)

// ParseRole converts a raw value into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleVisitor:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// SeverityLevel classifies a safety incident.
type SeverityLevel string

const (
	SeverityLow      SeverityLevel = "low"
	SeverityMedium   SeverityLevel = "medium"
	SeverityHigh     SeverityLevel = "high"
	SeverityCritical SeverityLevel = "critical"
)

func ParseSeverityLevel(s string) (SeverityLevel, error) {
	switch v := SeverityLevel(s); v {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return v, nil
	}
	return "", fmt.Errorf("unknown severity level %q", s)
}

// SafetyStatus is the workflow state of a safety metric.
type SafetyStatus string

const (
	SafetyOpen          SafetyStatus = "open"
	SafetyInvestigating SafetyStatus = "investigating"
	SafetyResolved      SafetyStatus = "resolved"
	SafetyClosed        SafetyStatus = "closed"
)

func ParseSafetyStatus(s string) (SafetyStatus, error) {
	switch v := SafetyStatus(s); v {
	case SafetyOpen, SafetyInvestigating, SafetyResolved, SafetyClosed:
		return v, nil
	}
	return "", fmt.Errorf("unknown safety status %q", s)
}

// ApprovalStatus is the workflow state of a medical report.
type ApprovalStatus string

const (
	ApprovalPending          ApprovalStatus = "pending"
	ApprovalApproved         ApprovalStatus = "approved"
	ApprovalRejected         ApprovalStatus = "rejected"
	ApprovalRevisionRequired ApprovalStatus = "revision_required"
)

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch v := ApprovalStatus(s); v {
	case ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalRevisionRequired:
		return v, nil
	}
	return "", fmt.Errorf("unknown approval status %q", s)
}

// VisitorStatus is the workflow state of a visitor request.
type VisitorStatus string

const (
	VisitorPending   VisitorStatus = "pending"
	VisitorApproved  VisitorStatus = "approved"
	VisitorRejected  VisitorStatus = "rejected"
	VisitorCompleted VisitorStatus = "completed"
	VisitorCancelled VisitorStatus = "cancelled"
)

func ParseVisitorStatus(s string) (VisitorStatus, error) {
	switch v := VisitorStatus(s); v {
	case VisitorPending, VisitorApproved, VisitorRejected, VisitorCompleted, VisitorCancelled:
		return v, nil
	}
	return "", fmt.Errorf("unknown visitor status %q", s)
}

// ClearanceLevel is the security clearance requested for a visit.
type ClearanceLevel string

const (
	ClearanceBasic        ClearanceLevel = "basic"
	ClearanceRestricted   ClearanceLevel = "restricted"
	ClearanceConfidential ClearanceLevel = "confidential"
)

func ParseClearanceLevel(s string) (ClearanceLevel, error) {
	switch v := ClearanceLevel(s); v {
	case ClearanceBasic, ClearanceRestricted, ClearanceConfidential:
		return v, nil
	}
	return "", fmt.Errorf("unknown clearance level %q", s)
}

// CompetencyStatus is the certification state of an assessment.
type CompetencyStatus string

const (
	CompetencyActive         CompetencyStatus = "active"
	CompetencyExpired        CompetencyStatus = "expired"
	CompetencyPendingRenewal CompetencyStatus = "pending_renewal"
)

func ParseCompetencyStatus(s string) (CompetencyStatus, error) {
	switch v := CompetencyStatus(s); v {
	case CompetencyActive, CompetencyExpired, CompetencyPendingRenewal:
		return v, nil
	}
	return "", fmt.Errorf("unknown competency status %q", s)
}
