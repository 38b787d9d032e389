package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/thecodingmage/smartsift/internal/domain"
	"github.com/thecodingmage/smartsift/internal/router"
)

// stubEmbedder keeps every vector orthogonal to the anchors so routing in
// these tests is driven purely by keywords.
type stubEmbedder struct{}

func (stubEmbedder) Name() string { return "stub" }

func (stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0, 0, 1}, nil
}

func (s stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i], _ = s.Embed(ctx, texts[i])
	}
	return out, nil
}

// stubJudge adjudicates by text content, echoing the complaint id the way
// the real judge does.
type stubJudge struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubJudge) Adjudicate(_ context.Context, complaintID, text string) (*domain.DetailedAnalysis, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if strings.Contains(text, "Great job") {
		return &domain.DetailedAnalysis{
			ComplaintID: complaintID,
			Status:      domain.AnalysisReviewQueue,
			FlagReason:  "sarcastic tone",
		}, nil
	}
	return &domain.DetailedAnalysis{
		ComplaintID: complaintID,
		Status:      domain.AnalysisSuccess,
		Aspects: []domain.SentimentAspect{
			{Aspect: "Screen", Sentiment: "Negative", Severity: "Medium"},
		},
		Summary: "summary for " + complaintID,
	}, nil
}

type recordingSink struct {
	mu      sync.Mutex
	entries []domain.ReviewQueueEntry
	err     error
}

func (s *recordingSink) Append(_ context.Context, entry *domain.ReviewQueueEntry) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func newTestPipeline(t *testing.T, j Adjudicator, sink ReviewSink) *Pipeline {
	t.Helper()
	r, err := router.New(context.Background(), stubEmbedder{}, router.DefaultConfig(0.35))
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return New(r, j, sink)
}

func TestProcessSimpleComplaint(t *testing.T) {
	j := &stubJudge{}
	sink := &recordingSink{}
	p := newTestPipeline(t, j, sink)

	record, err := p.Process(context.Background(), domain.ComplaintInput{ID: "1", Text: "I forgot my password"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if record.Status != domain.StatusAutoResolved {
		t.Fatalf("expected %q, got %q", domain.StatusAutoResolved, record.Status)
	}
	if record.Analysis != nil {
		t.Fatal("simple complaints must not carry an analysis")
	}
	if j.calls != 0 {
		t.Fatalf("judge must not be invoked for a Simple complaint, got %d calls", j.calls)
	}
	if record.Routing.Decision != domain.DecisionSimple {
		t.Fatalf("unexpected decision %s", record.Routing.Decision)
	}
}

func TestProcessComplexComplaint(t *testing.T) {
	j := &stubJudge{}
	sink := &recordingSink{}
	p := newTestPipeline(t, j, sink)

	record, err := p.Process(context.Background(), domain.ComplaintInput{ID: "2", Text: "Screen flickers constantly after update"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if record.Status != domain.StatusProcessed {
		t.Fatalf("expected %q, got %q", domain.StatusProcessed, record.Status)
	}
	if record.Analysis == nil || len(record.Analysis.Aspects) == 0 {
		t.Fatal("expected an analysis with at least one aspect")
	}
	if record.Routing.Decision != domain.DecisionComplex {
		t.Fatalf("unexpected decision %s", record.Routing.Decision)
	}
	if len(sink.entries) != 0 {
		t.Fatalf("nothing should be escalated, got %d entries", len(sink.entries))
	}
}

func TestProcessSarcasticComplaintIsEscalated(t *testing.T) {
	j := &stubJudge{}
	sink := &recordingSink{}
	p := newTestPipeline(t, j, sink)

	record, err := p.Process(context.Background(), domain.ComplaintInput{ID: "3", Text: "Great job, useless app!"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if record.Status != domain.StatusFlagged {
		t.Fatalf("expected %q, got %q", domain.StatusFlagged, record.Status)
	}
	if record.Routing.Decision != domain.DecisionReviewQueue {
		t.Fatalf("routing decision must be overwritten to Review_Queue, got %s", record.Routing.Decision)
	}
	if record.Routing.Reason != "LLM Flagged: sarcastic tone" {
		t.Fatalf("unexpected routing reason %q", record.Routing.Reason)
	}
	// Escalation replaces decision and reason only.
	if record.Routing.Confidence != 0.0 {
		t.Fatalf("confidence must carry over from the router, got %v", record.Routing.Confidence)
	}
	if len(record.Routing.Tags) != 1 || record.Routing.Tags[0] != "Technical/Hardware" {
		t.Fatalf("tags must carry over from the router, got %v", record.Routing.Tags)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("expected exactly one queue append, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Text != "Great job, useless app!" || entry.Reason != "sarcastic tone" {
		t.Fatalf("unexpected queue entry %+v", entry)
	}
}

func TestProcessJudgeFailureIsTerminal(t *testing.T) {
	j := &stubJudge{err: fmt.Errorf("completion timed out: %w", context.DeadlineExceeded)}
	sink := &recordingSink{}
	p := newTestPipeline(t, j, sink)

	record, err := p.Process(context.Background(), domain.ComplaintInput{ID: "4", Text: "Device reboots in a loop since yesterday"})
	if err != nil {
		t.Fatalf("judge failure must yield a well-formed record, got error %v", err)
	}

	if record.Status != domain.StatusError {
		t.Fatalf("expected %q, got %q", domain.StatusError, record.Status)
	}
	if record.Analysis != nil {
		t.Fatal("failed analysis must not be attached")
	}
	if len(sink.entries) != 0 {
		t.Fatalf("a failed judge call must not escalate, got %d entries", len(sink.entries))
	}
}

func TestProcessQueueWriteFailureSurfaces(t *testing.T) {
	j := &stubJudge{}
	sink := &recordingSink{err: errors.New("disk full")}
	p := newTestPipeline(t, j, sink)

	_, err := p.Process(context.Background(), domain.ComplaintInput{ID: "5", Text: "Great job, useless app!"})
	if !errors.Is(err, ErrQueueWrite) {
		t.Fatalf("expected ErrQueueWrite, got %v", err)
	}
}

func TestProcessConcurrentComplaintsAreIndependent(t *testing.T) {
	j := &stubJudge{}
	sink := &recordingSink{}
	p := newTestPipeline(t, j, sink)

	const n = 20
	records := make([]*domain.ResponseRecord, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c-%d", i)
			records[i], errs[i] = p.Process(context.Background(), domain.ComplaintInput{
				ID:   id,
				Text: fmt.Sprintf("Unit %d overheats during normal use", i),
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("complaint %d: %v", i, errs[i])
		}
		wantID := fmt.Sprintf("c-%d", i)
		if records[i].ID != wantID {
			t.Fatalf("record %d attributed to %q", i, records[i].ID)
		}
		if records[i].Analysis == nil || records[i].Analysis.ComplaintID != wantID {
			t.Fatalf("analysis %d attributed to %q", i, records[i].Analysis.ComplaintID)
		}
	}
}
