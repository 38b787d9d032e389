// Package router implements the cheap first tier of complaint triage: a
// similarity check against a fixed set of administrative anchor phrases,
// backed by a keyword match, deciding Simple vs Complex.
package router

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/thecodingmage/smartsift/internal/domain"
	"github.com/thecodingmage/smartsift/internal/embedding"
)

// Anchor phrases representing simple administrative intents. Their vectors
// are computed once at construction and reused for the life of the process.
var defaultAnchors = []string{
	"I forgot my password",
	"reset password",
	"login issue",
	"cannot sign in",
	"send me the invoice",
	"billing error",
	"refund request",
	"cancel subscription",
	"how do I update my account",
	"payment failed",
	"where is my receipt",
}

// Keyword backstop for short or idiomatic phrasings the embedding model
// under-scores. Matching is case-insensitive substring.
var defaultKeywords = []string{
	"invoice", "password", "billing", "refund", "subscription", "login",
}

const (
	reasonSimple  = "Detected simple administrative query"
	reasonComplex = "Routing to Tier 1b for deep analysis and validation"
)

// Config holds the anchor set and decision threshold for a Router instance.
type Config struct {
	Anchors   []string
	Keywords  []string
	Threshold float64
}

// DefaultConfig returns the production anchor set with the given threshold.
func DefaultConfig(threshold float64) Config {
	return Config{
		Anchors:   defaultAnchors,
		Keywords:  defaultKeywords,
		Threshold: threshold,
	}
}

// Router routes a complaint to the Simple or Complex tier. It is safe for
// concurrent use: the anchor vectors are never mutated after construction.
type Router struct {
	embedder embedding.Embedder
	cfg      Config
	anchors  [][]float32
}

// New builds a Router and precomputes the anchor vectors. An empty anchor
// set or an unreachable embedding service is a startup failure, not a
// per-request one.
func New(ctx context.Context, embedder embedding.Embedder, cfg Config) (*Router, error) {
	if len(cfg.Anchors) == 0 {
		return nil, fmt.Errorf("router requires at least one anchor phrase")
	}

	anchors, err := embedder.EmbedBatch(ctx, cfg.Anchors)
	if err != nil {
		return nil, fmt.Errorf("embed anchors: %w", err)
	}

	return &Router{
		embedder: embedder,
		cfg:      cfg,
		anchors:  anchors,
	}, nil
}

// Route classifies text as Simple or Complex. It never emits Review_Queue;
// that decision belongs to the judge. An embedding failure propagates: with
// no similarity score there is no basis for a decision.
func (r *Router) Route(ctx context.Context, text string) (domain.RoutingDecision, error) {
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return domain.RoutingDecision{}, fmt.Errorf("embed text: %w", err)
	}

	bestScore := -1.0
	for _, anchor := range r.anchors {
		if score := cosineSimilarity(vec, anchor); score > bestScore {
			bestScore = score
		}
	}

	if bestScore > r.cfg.Threshold || r.matchKeyword(text) {
		return domain.RoutingDecision{
			Decision:   domain.DecisionSimple,
			Confidence: round2(bestScore),
			Tags:       []string{"Billing/Account"},
			Reason:     reasonSimple,
		}, nil
	}

	// Confidence 0.0 on this branch means "deferred to the judge", not
	// "zero similarity".
	return domain.RoutingDecision{
		Decision:   domain.DecisionComplex,
		Confidence: 0.0,
		Tags:       []string{"Technical/Hardware"},
		Reason:     reasonComplex,
	}, nil
}

func (r *Router) matchKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range r.cfg.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// cosineSimilarity returns the normalized dot product of two vectors, in
// [-1, 1]. Mismatched or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
