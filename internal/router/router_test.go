package router

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// stubEmbedder returns fixed vectors per text so routing is fully
// deterministic in tests. Unknown texts get a vector orthogonal to every
// anchor.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Name() string { return "stub" }

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func newTestRouter(t *testing.T, emb *stubEmbedder, cfg Config) *Router {
	t.Helper()
	r, err := New(context.Background(), emb, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNewRequiresAnchors(t *testing.T) {
	_, err := New(context.Background(), &stubEmbedder{}, Config{Threshold: 0.35})
	if err == nil {
		t.Fatal("expected error for empty anchor set")
	}
}

func TestNewPropagatesEmbedFailure(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("embedding service down")}
	_, err := New(context.Background(), emb, DefaultConfig(0.35))
	if err == nil {
		t.Fatal("expected error when anchor embedding fails")
	}
}

func TestRouteKeywordMatchIsCaseInsensitive(t *testing.T) {
	// Embedding is orthogonal to every anchor; only the keyword can match.
	r := newTestRouter(t, &stubEmbedder{}, DefaultConfig(0.35))

	decision, err := r.Route(context.Background(), "BILLING issue")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if decision.Decision != "Simple" {
		t.Fatalf("expected Simple, got %s", decision.Decision)
	}
	if got := decision.Tags; len(got) != 1 || got[0] != "Billing/Account" {
		t.Fatalf("unexpected tags %v", got)
	}
}

func TestRouteDefaultsToComplex(t *testing.T) {
	r := newTestRouter(t, &stubEmbedder{}, DefaultConfig(0.35))

	decision, err := r.Route(context.Background(), "Screen flickers constantly after update")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if decision.Decision != "Complex" {
		t.Fatalf("expected Complex, got %s", decision.Decision)
	}
	if decision.Confidence != 0.0 {
		t.Fatalf("expected confidence 0.0 on Complex branch, got %v", decision.Confidence)
	}
	if got := decision.Tags; len(got) != 1 || got[0] != "Technical/Hardware" {
		t.Fatalf("unexpected tags %v", got)
	}
}

func TestRouteThresholdIsStrict(t *testing.T) {
	// Anchor [1,0,0] against text [3,4,0] gives cosine 3/5 = 0.6 exactly
	// (all values and the norm are exact in binary floating point).
	emb := &stubEmbedder{vectors: map[string][]float32{
		"anchor phrase": {1, 0, 0},
		"borderline":    {3, 4, 0},
	}}
	cfg := Config{Anchors: []string{"anchor phrase"}, Threshold: 0.6}
	r := newTestRouter(t, emb, cfg)

	decision, err := r.Route(context.Background(), "borderline")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if decision.Decision != "Complex" {
		t.Fatalf("score equal to threshold must route Complex, got %s", decision.Decision)
	}

	cfg.Threshold = 0.59
	r = newTestRouter(t, emb, cfg)
	decision, err = r.Route(context.Background(), "borderline")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if decision.Decision != "Simple" {
		t.Fatalf("score above threshold must route Simple, got %s", decision.Decision)
	}
	if decision.Confidence != 0.6 {
		t.Fatalf("expected confidence 0.6, got %v", decision.Confidence)
	}
}

func TestRouteConfidenceRoundsToTwoDecimals(t *testing.T) {
	// cos([1,0,0],[1,1,0]) = 0.7071... which must surface as 0.71.
	emb := &stubEmbedder{vectors: map[string][]float32{
		"anchor phrase": {1, 0, 0},
		"close enough":  {1, 1, 0},
	}}
	r := newTestRouter(t, emb, Config{Anchors: []string{"anchor phrase"}, Threshold: 0.35})

	decision, err := r.Route(context.Background(), "close enough")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if decision.Confidence != 0.71 {
		t.Fatalf("expected confidence 0.71, got %v", decision.Confidence)
	}
}

func TestRouteBestScoreWinsAcrossAnchors(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"far anchor":  {0, 1, 0},
		"near anchor": {1, 0, 0},
		"query":       {3, 4, 0},
	}}
	cfg := Config{Anchors: []string{"far anchor", "near anchor"}, Threshold: 0.35}
	r := newTestRouter(t, emb, cfg)

	decision, err := r.Route(context.Background(), "query")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	// near anchor scores 0.6, far anchor 0.8; the max must win.
	if decision.Confidence != 0.8 {
		t.Fatalf("expected best score 0.8, got %v", decision.Confidence)
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	r := newTestRouter(t, &stubEmbedder{}, DefaultConfig(0.35))

	first, err := r.Route(context.Background(), "where is my invoice")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	second, err := r.Route(context.Background(), "where is my invoice")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical input must yield identical decisions: %+v vs %+v", first, second)
	}
}

func TestRoutePropagatesEmbedFailure(t *testing.T) {
	r := newTestRouter(t, &stubEmbedder{}, DefaultConfig(0.35))

	// Fail only after construction so the anchors are already cached.
	failing := &stubEmbedder{err: fmt.Errorf("connection refused")}
	r.embedder = failing

	if _, err := r.Route(context.Background(), "anything at all"); err == nil {
		t.Fatal("expected embed failure to propagate, not default to a decision")
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{3, 4, 0}, []float32{3, 4, 0}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tc := range cases {
		if got := cosineSimilarity(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
