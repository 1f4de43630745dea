package handler

import (
	"strings"
	"time"

	"github.com/iliyamo/qshe-portal/internal/model"
)

// date accepts RFC 3339 timestamps as well as bare YYYY-MM-DD dates,
// which the date pickers of the web client send.
type date struct{ time.Time }

func (d *date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: s, Message: ": expected RFC 3339 timestamp or YYYY-MM-DD date"}
}

// ----- users -----

type userResponse struct {
	ID         uint64  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
	EmployeeID *string `json:"employeeId,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		Department: u.Department,
		EmployeeID: u.EmployeeID,
		Phone:      u.Phone,
	}
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type identityResponse struct {
	UserID uint64 `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// ----- safety metrics -----

type safetyMetricResponse struct {
	ID            uint64    `json:"id"`
	ReportedBy    uint64    `json:"reportedBy"`
	IncidentType  string    `json:"incidentType"`
	SeverityLevel string    `json:"severityLevel"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	DateOccurred  time.Time `json:"dateOccurred"`
	ActionsTaken  *string   `json:"actionsTaken,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newSafetyMetricResponse(m model.SafetyMetric) safetyMetricResponse {
	return safetyMetricResponse{
		ID:            m.ID,
		ReportedBy:    m.ReportedBy,
		IncidentType:  m.IncidentType,
		SeverityLevel: string(m.SeverityLevel),
		Description:   m.Description,
		Location:      m.Location,
		DateOccurred:  m.DateOccurred,
		ActionsTaken:  m.ActionsTaken,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ----- medical reports -----

type medicalReportResponse struct {
	ID                uint64    `json:"id"`
	PatientName       string    `json:"patientName"`
	EmployeeID        *string   `json:"employeeId,omitempty"`
	ReportType        string    `json:"reportType"`
	MedicalCondition  string    `json:"medicalCondition"`
	TreatmentProvided *string   `json:"treatmentProvided,omitempty"`
	Recommendations   *string   `json:"recommendations,omitempty"`
	ReportedBy        uint64    `json:"reportedBy"`
	ReviewedBy        *uint64   `json:"reviewedBy,omitempty"`
	ApprovalStatus    string    `json:"approvalStatus"`
	ApprovalNotes     *string   `json:"approvalNotes,omitempty"`
	DateOfIncident    time.Time `json:"dateOfIncident"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func newMedicalReportResponse(r model.MedicalReport) medicalReportResponse {
	return medicalReportResponse{
		ID:                r.ID,
		PatientName:       r.PatientName,
		EmployeeID:        r.EmployeeID,
		ReportType:        r.ReportType,
		MedicalCondition:  r.MedicalCondition,
		TreatmentProvided: r.TreatmentProvided,
		Recommendations:   r.Recommendations,
		ReportedBy:        r.ReportedBy,
		ReviewedBy:        r.ReviewedBy,
		ApprovalStatus:    string(r.ApprovalStatus),
		ApprovalNotes:     r.ApprovalNotes,
		DateOfIncident:    r.DateOfIncident,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ----- visitor requests -----

type visitorRequestResponse struct {
	ID                     uint64    `json:"id"`
	VisitorName            string    `json:"visitorName"`
	VisitorEmail           *string   `json:"visitorEmail,omitempty"`
	VisitorPhone           *string   `json:"visitorPhone,omitempty"`
	Company                *string   `json:"company,omitempty"`
	PurposeOfVisit         string    `json:"purposeOfVisit"`
	HostEmployee           uint64    `json:"hostEmployee"`
	AreasToVisit           []string  `json:"areasToVisit"`
	RequestedDate          time.Time `json:"requestedDate"`
	DurationHours          int       `json:"durationHours"`
	SpecialRequirements    *string   `json:"specialRequirements,omitempty"`
	SecurityClearanceLevel string    `json:"securityClearanceLevel"`
	Status                 string    `json:"status"`
	ApprovedBy             *uint64   `json:"approvedBy,omitempty"`
	ApprovalNotes          *string   `json:"approvalNotes,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func newVisitorRequestResponse(v model.VisitorRequest) visitorRequestResponse {
	areas := v.AreasToVisit
	if areas == nil {
		areas = []string{}
	}
	return visitorRequestResponse{
		ID:                     v.ID,
		VisitorName:            v.VisitorName,
		VisitorEmail:           v.VisitorEmail,
		VisitorPhone:           v.VisitorPhone,
		Company:                v.Company,
		PurposeOfVisit:         v.PurposeOfVisit,
		HostEmployee:           v.HostEmployee,
		AreasToVisit:           areas,
		RequestedDate:          v.RequestedDate,
		DurationHours:          v.DurationHours,
		SpecialRequirements:    v.SpecialRequirements,
		SecurityClearanceLevel: string(v.SecurityClearanceLevel),
		Status:                 string(v.Status),
		ApprovedBy:             v.ApprovedBy,
		ApprovalNotes:          v.ApprovalNotes,
		CreatedAt:              v.CreatedAt,
		UpdatedAt:              v.UpdatedAt,
	}
}

// ----- reference data -----

type assessmentResponse struct {
	ID                      uint64     `json:"id"`
	PersonnelID             uint64     `json:"personnelId"`
	CompetencyType          string     `json:"competencyType"`
	AssessmentDate          time.Time  `json:"assessmentDate"`
	Score                   int        `json:"score"`
	AssessorID              uint64     `json:"assessorId"`
	CertificationValidUntil *time.Time `json:"certificationValidUntil,omitempty"`
	Notes                   *string    `json:"notes,omitempty"`
	Status                  string     `json:"status"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

func newAssessmentResponse(a model.CompetencyAssessment) assessmentResponse {
	return assessmentResponse{
		ID:                      a.ID,
		PersonnelID:             a.PersonnelID,
		CompetencyType:          a.CompetencyType,
		AssessmentDate:          a.AssessmentDate,
		Score:                   a.Score,
		AssessorID:              a.AssessorID,
		CertificationValidUntil: a.CertificationValidUntil,
		Notes:                   a.Notes,
		Status:                  string(a.Status),
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.UpdatedAt,
	}
}

type personnelUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type personnelResponse struct {
	ID              uint64        `json:"id"`
	UserID          uint64        `json:"userId"`
	BadgeNumber     string        `json:"badgeNumber"`
	SecurityLevel   string        `json:"securityLevel"`
	HireDate        time.Time     `json:"hireDate"`
	ShiftAssignment string        `json:"shiftAssignment"`
	IsActive        bool          `json:"isActive"`
	User            personnelUser `json:"user"`
}

func newPersonnelResponse(p model.SecurityPersonnel) personnelResponse {
	return personnelResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		BadgeNumber:     p.BadgeNumber,
		SecurityLevel:   p.SecurityLevel,
		HireDate:        p.HireDate,
		ShiftAssignment: p.ShiftAssignment,
		IsActive:        p.IsActive,
		User:            personnelUser{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email},
	}
}

// ----- dashboard -----

type dashboardResponse struct {
	SafetyMetrics struct {
		Total    int `json:"total"`
		Open     int `json:"open"`
		Resolved int `json:"resolved"`
		Critical int `json:"critical"`
	} `json:"safetyMetrics"`
	MedicalReports struct {
		Total    int `json:"total"`
		Pending  int `json:"pending"`
		Approved int `json:"approved"`
		Rejected int `json:"rejected"`
	} `json:"medicalReports"`
	VisitorRequests struct {
		Total    int `json:"total"`
		Pending  int `json:"pending"`
		Approved int `json:"approved"`
		Today    int `json:"today"`
	} `json:"visitorRequests"`
	CompetencyAssessments struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Expiring int `json:"expiring"`
		Expired  int `json:"expired"`
	} `json:"competencyAssessments"`
}

func newDashboardResponse(s model.DashboardStats) dashboardResponse {
	var out dashboardResponse
	out.SafetyMetrics.Total = s.Safety.Total
	out.SafetyMetrics.Open = s.Safety.Open
	out.SafetyMetrics.Resolved = s.Safety.Resolved
	out.SafetyMetrics.Critical = s.Safety.Critical
	out.MedicalReports.Total = s.Medical.Total
	out.MedicalReports.Pending = s.Medical.Pending
	out.MedicalReports.Approved = s.Medical.Approved
	out.MedicalReports.Rejected = s.Medical.Rejected
	out.VisitorRequests.Total = s.Visitor.Total
	out.VisitorRequests.Pending = s.Visitor.Pending
	out.VisitorRequests.Approved = s.Visitor.Approved
	out.VisitorRequests.Today = s.Visitor.Today
	out.CompetencyAssessments.Total = s.Competency.Total
	out.CompetencyAssessments.Active = s.Competency.Active
	out.CompetencyAssessments.Expiring = s.Competency.Expiring
	out.CompetencyAssessments.Expired = s.Competency.Expired
	return out
}

func mapAll[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
