// Package report turns aggregated triage statistics into an executive
// summary via the completion capability.
package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thecodingmage/smartsift/internal/domain"
	"github.com/thecodingmage/smartsift/internal/llm"
)

// StatsSource aggregates triage outcomes, typically backed by storage.
type StatsSource interface {
	TriageStats(ctx context.Context, period string, topIssues int) (*domain.TriageStats, error)
}

type Completer interface {
	Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
}

type Generator struct {
	stats     StatsSource
	client    Completer
	period    string
	topIssues int
}

func NewGenerator(stats StatsSource, client Completer, period string, topIssues int) *Generator {
	if topIssues <= 0 {
		topIssues = 5
	}
	return &Generator{
		stats:     stats,
		client:    client,
		period:    period,
		topIssues: topIssues,
	}
}

// Executive aggregates current statistics and asks the model for a strategy
// summary. Unlike the judge this call is lightly sampled: the report reads
// better with some variation, and nothing downstream parses it.
func (g *Generator) Executive(ctx context.Context) (string, *domain.TriageStats, error) {
	stats, err := g.stats.TriageStats(ctx, g.period, g.topIssues)
	if err != nil {
		return "", nil, fmt.Errorf("aggregate stats: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("marshal stats: %w", err)
	}

	prompt := fmt.Sprintf(`You are a senior product strategy executive.
Analyze the following defect statistics from our user complaints.

DATA:
%s

OUTPUT REQUIREMENTS:
1. Identify the top critical risk.
2. Propose 3 specific engineering actions.
3. Estimate the business impact if ignored.
4. Keep it professional, concise, and action-oriented.`, data)

	resp, err := g.client.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: prompt},
			{Role: "user", Content: "Generate the executive strategy report now."},
		},
		MaxTokens:   2048,
		Temperature: 0.3,
	})
	if err != nil {
		return "", nil, fmt.Errorf("generate report: %w", err)
	}

	return resp.Content, stats, nil
}
