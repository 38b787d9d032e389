package domain

import "time"

type Decision string

const (
	DecisionSimple      Decision = "Simple"
	DecisionComplex     Decision = "Complex"
	DecisionReviewQueue Decision = "Review_Queue"
)

// ComplaintInput is the inbound contract. Validation happens at the API
// boundary via binding tags; the pipeline assumes a well-formed input.
type ComplaintInput struct {
	ID   string `json:"id" binding:"required"`
	Text string `json:"text" binding:"required,min=5"`
}

// RoutingDecision is produced once by the router. The pipeline never mutates
// it; escalation builds a fresh copy with decision and reason replaced.
type RoutingDecision struct {
	Decision   Decision `json:"decision"`
	Confidence float64  `json:"confidence"`
	Tags       []string `json:"tags"`
	Reason     string   `json:"reason"`
}

// ResponseRecord is the externally visible result of processing one complaint.
type ResponseRecord struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Routing  RoutingDecision   `json:"routing"`
	Analysis *DetailedAnalysis `json:"analysis"`
	Status   string            `json:"status"`
}

// Pipeline outcome statuses surfaced to callers.
const (
	StatusAutoResolved = "Auto-Resolved (Simple)"
	StatusProcessed    = "Processed by Tier 1b"
	StatusFlagged      = "Flagged by AI Judge"
	StatusError        = "Error in Analysis"
)

// ReviewQueueEntry is a durable record of a complaint flagged for human
// review. Entries are append-only; they leave the queue only through the
// reviewer workflow.
type ReviewQueueEntry struct {
	ID          string     `json:"id"`
	ComplaintID string     `json:"complaint_id"`
	Text        string     `json:"text"`
	Reason      string     `json:"reason_for_flagging"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

const (
	ReviewStatusPending   = "pending"
	ReviewStatusCompleted = "completed"
)
