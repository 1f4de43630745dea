// Package queue defines message payloads exchanged over the message broker.
package queue

// RecordKind names the record store a review event came from.
type RecordKind string

const (
	KindSafetyMetric   RecordKind = "safety_metric"
	KindMedicalReport  RecordKind = "medical_report"
	KindVisitorRequest RecordKind = "visitor_request"
)

// ReviewQueueName is the durable queue carrying RecordReviewedEvent.
const ReviewQueueName = "record.reviewed"

// RecordReviewedEvent is published after an admin changes the workflow
// status of a record. It carries enough for the audit consumer to write
// a complete line without querying the database.
type RecordReviewedEvent struct {
	Kind       RecordKind `json:"kind"`
	RecordID   uint64     `json:"record_id"`
	Status     string     `json:"status"`
	ReviewerID uint64     `json:"reviewer_id"`
	Notes      string     `json:"notes,omitempty"`
	ReviewedAt string     `json:"reviewed_at"`
}
