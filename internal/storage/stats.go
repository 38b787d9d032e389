package storage

import (
	"context"
	"fmt"

	"github.com/thecodingmage/smartsift/internal/domain"
)

// StatsRepo aggregates triage outcomes for the executive report.
type StatsRepo struct {
	complaints *ComplaintRepo
	analyses   *AnalysisRepo
}

func NewStatsRepo(complaints *ComplaintRepo, analyses *AnalysisRepo) *StatsRepo {
	return &StatsRepo{complaints: complaints, analyses: analyses}
}

func (r *StatsRepo) TriageStats(ctx context.Context, period string, topIssues int) (*domain.TriageStats, error) {
	counts, err := r.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	issues, err := r.analyses.TopAspects(ctx, topIssues)
	if err != nil {
		return nil, fmt.Errorf("top aspects: %w", err)
	}

	stats := &domain.TriageStats{
		Period: period,
		TriageBreakdown: domain.TriageBreakdown{
			Simple:      counts[domain.StatusAutoResolved],
			Complex:     counts[domain.StatusProcessed],
			HumanReview: counts[domain.StatusFlagged],
			Errors:      counts[domain.StatusError],
		},
		TopIssues: issues,
	}

	for _, c := range counts {
		stats.TotalComplaints += c
	}

	return stats, nil
}
