package model

import "time"

// VisitorRequest is a row of the `visitor_requests` table. The host
// employee is the creator; ApprovedBy is stamped on review.
type VisitorRequest struct {
	ID                     uint64
	VisitorName            string
	VisitorEmail           *string
	VisitorPhone           *string
	Company                *string
	PurposeOfVisit         string
	HostEmployee           uint64
	AreasToVisit           []string
	RequestedDate          time.Time
	DurationHours          int
	SpecialRequirements    *string
	SecurityClearanceLevel ClearanceLevel
	Status                 VisitorStatus
	ApprovedBy             *uint64
	ApprovalNotes          *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
