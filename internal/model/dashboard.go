package model

// DashboardStats aggregates counts across all record tables. The
// competency block is only filled for admins.
type DashboardStats struct {
	Safety     SafetyCounts
	Medical    MedicalCounts
	Visitor    VisitorCounts
	Competency CompetencyCounts
}

type SafetyCounts struct{ Total, Open, Resolved, Critical int }

type MedicalCounts struct{ Total, Pending, Approved, Rejected int }

type VisitorCounts struct{ Total, Pending, Approved, Today int }

type CompetencyCounts struct{ Total, Active, Expiring, Expired int }
