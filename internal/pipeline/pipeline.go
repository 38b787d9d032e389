// Package pipeline sequences the two triage tiers and shapes the final
// response record for one complaint.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/thecodingmage/smartsift/internal/domain"
)

// ErrQueueWrite wraps a failed review-queue append. It is surfaced to the
// caller: a flagged complaint whose escalation did not durably register must
// not look successfully processed.
var ErrQueueWrite = errors.New("review queue write failed")

type Router interface {
	Route(ctx context.Context, text string) (domain.RoutingDecision, error)
}

type Adjudicator interface {
	Adjudicate(ctx context.Context, complaintID, text string) (*domain.DetailedAnalysis, error)
}

type ReviewSink interface {
	Append(ctx context.Context, entry *domain.ReviewQueueEntry) error
}

// Pipeline is stateless across requests; a single instance serves any number
// of concurrent complaints.
type Pipeline struct {
	router  Router
	judge   Adjudicator
	reviews ReviewSink
}

func New(router Router, judge Adjudicator, reviews ReviewSink) *Pipeline {
	return &Pipeline{
		router:  router,
		judge:   judge,
		reviews: reviews,
	}
}

// Process runs one complaint through routing and, for Complex items,
// adjudication. Judge failures terminate in a well-formed "Error in
// Analysis" record; a routing failure propagates because no decision can be
// made without a similarity score.
func (p *Pipeline) Process(ctx context.Context, in domain.ComplaintInput) (*domain.ResponseRecord, error) {
	routing, err := p.router.Route(ctx, in.Text)
	if err != nil {
		return nil, fmt.Errorf("route complaint %s: %w", in.ID, err)
	}

	record := &domain.ResponseRecord{
		ID:      in.ID,
		Text:    in.Text,
		Routing: routing,
	}

	if routing.Decision == domain.DecisionSimple {
		record.Status = domain.StatusAutoResolved
		return record, nil
	}

	analysis, err := p.judge.Adjudicate(ctx, in.ID, in.Text)
	if err != nil {
		log.Printf("Judge failed for complaint %s: %v", in.ID, err)
		record.Status = domain.StatusError
		return record, nil
	}

	if analysis.Status == domain.AnalysisReviewQueue {
		return p.escalate(ctx, record, analysis)
	}

	record.Analysis = analysis
	record.Status = domain.StatusProcessed
	return record, nil
}

// escalate appends the complaint to the review queue and rebuilds the
// routing decision to reflect the judge's rejection. The append happens only
// after a fully-parsed verdict is in hand, so a cancelled or failed request
// never leaves a partial entry.
func (p *Pipeline) escalate(ctx context.Context, record *domain.ResponseRecord, analysis *domain.DetailedAnalysis) (*domain.ResponseRecord, error) {
	entry := &domain.ReviewQueueEntry{
		ComplaintID: record.ID,
		Text:        record.Text,
		Reason:      analysis.FlagReason,
	}
	if err := p.reviews.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: complaint %s: %v", ErrQueueWrite, record.ID, err)
	}

	// Fresh copy of the routing decision with decision and reason replaced;
	// confidence and tags carry over from the router.
	record.Routing = domain.RoutingDecision{
		Decision:   domain.DecisionReviewQueue,
		Confidence: record.Routing.Confidence,
		Tags:       record.Routing.Tags,
		Reason:     "LLM Flagged: " + analysis.FlagReason,
	}
	record.Status = domain.StatusFlagged
	return record, nil
}
