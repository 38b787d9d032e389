package domain

import "fmt"

type AnalysisStatus string

const (
	AnalysisSuccess     AnalysisStatus = "Success"
	AnalysisReviewQueue AnalysisStatus = "Review_Queue"
)

// SentimentAspect is one observation inside a DetailedAnalysis. Order follows
// the model's output order.
type SentimentAspect struct {
	Aspect    string `json:"aspect"`
	Sentiment string `json:"sentiment"`
	Severity  string `json:"severity"`
}

// DetailedAnalysis is the judge's verdict for a Complex complaint. It is
// immutable once accepted: a Success carries aspects, a Review_Queue carries
// a flag reason, never both.
type DetailedAnalysis struct {
	ComplaintID string            `json:"complaint_id"`
	Status      AnalysisStatus    `json:"status"`
	FlagReason  string            `json:"flag_reason,omitempty"`
	Aspects     []SentimentAspect `json:"aspects"`
	Summary     string            `json:"summary"`
}

// Validate enforces the verdict invariant. Outputs that violate it must be
// rejected at the judge boundary, never passed downstream.
func (a *DetailedAnalysis) Validate() error {
	switch a.Status {
	case AnalysisSuccess:
		if a.FlagReason != "" {
			return fmt.Errorf("status %q must not carry a flag_reason", a.Status)
		}
		if len(a.Aspects) == 0 {
			return fmt.Errorf("status %q requires at least one aspect", a.Status)
		}
	case AnalysisReviewQueue:
		if a.FlagReason == "" {
			return fmt.Errorf("status %q requires a flag_reason", a.Status)
		}
		if len(a.Aspects) != 0 {
			return fmt.Errorf("status %q must not carry aspects", a.Status)
		}
	default:
		return fmt.Errorf("unknown analysis status %q", a.Status)
	}
	return nil
}
