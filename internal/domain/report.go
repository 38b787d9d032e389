package domain

// TriageStats aggregates processing outcomes for the executive report.
type TriageStats struct {
	TotalComplaints int             `json:"total_complaints"`
	Period          string          `json:"period"`
	TriageBreakdown TriageBreakdown `json:"triage_breakdown"`
	TopIssues       []IssueCount    `json:"top_technical_issues"`
}

type TriageBreakdown struct {
	Simple      int `json:"simple_auto_resolved"`
	Complex     int `json:"complex_processed"`
	HumanReview int `json:"human_review"`
	Errors      int `json:"errors"`
}

// IssueCount is one row of the top-issues breakdown, counted over the
// aspects extracted by the judge.
type IssueCount struct {
	Issue    string `json:"issue"`
	Count    int    `json:"count"`
	Severity string `json:"severity"`
}
