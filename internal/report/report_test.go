package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thecodingmage/smartsift/internal/domain"
	"github.com/thecodingmage/smartsift/internal/llm"
)

type stubStats struct {
	stats *domain.TriageStats
	err   error
}

func (s *stubStats) TriageStats(_ context.Context, _ string, _ int) (*domain.TriageStats, error) {
	return s.stats, s.err
}

type stubCompleter struct {
	content string
	err     error
	lastReq *llm.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func TestExecutiveReport(t *testing.T) {
	stats := &domain.TriageStats{
		TotalComplaints: 12,
		Period:          "August 2026",
		TriageBreakdown: domain.TriageBreakdown{Simple: 7, Complex: 3, HumanReview: 2},
		TopIssues: []domain.IssueCount{
			{Issue: "Battery Overheating", Count: 3, Severity: "High"},
		},
	}
	completer := &stubCompleter{content: "Top risk: battery."}

	g := NewGenerator(&stubStats{stats: stats}, completer, "August 2026", 5)
	summary, gotStats, err := g.Executive(context.Background())
	if err != nil {
		t.Fatalf("Executive: %v", err)
	}

	if summary != "Top risk: battery." {
		t.Fatalf("unexpected summary %q", summary)
	}
	if gotStats.TotalComplaints != 12 {
		t.Fatalf("unexpected stats %+v", gotStats)
	}

	// The aggregated numbers must reach the model verbatim.
	system := completer.lastReq.Messages[0].Content
	if !strings.Contains(system, "Battery Overheating") {
		t.Fatalf("prompt missing aggregated data:\n%s", system)
	}
	if completer.lastReq.Temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", completer.lastReq.Temperature)
	}
	if completer.lastReq.JSONMode {
		t.Fatal("report output is prose, not JSON")
	}
}

func TestExecutiveReportStatsFailure(t *testing.T) {
	g := NewGenerator(&stubStats{err: errors.New("db down")}, &stubCompleter{}, "current", 5)
	if _, _, err := g.Executive(context.Background()); err == nil {
		t.Fatal("expected error when aggregation fails")
	}
}

func TestExecutiveReportCompletionFailure(t *testing.T) {
	g := NewGenerator(&stubStats{stats: &domain.TriageStats{}}, &stubCompleter{err: errors.New("timeout")}, "current", 5)
	if _, _, err := g.Executive(context.Background()); err == nil {
		t.Fatal("expected error when completion fails")
	}
}
