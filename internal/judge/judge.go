// Package judge implements the second triage tier: an LLM adjudicator that
// either extracts an aspect-level sentiment breakdown from a complaint or
// rejects it into the human review queue.
package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thecodingmage/smartsift/internal/domain"
	"github.com/thecodingmage/smartsift/internal/llm"
)

// Failure kinds. The pipeline maps both to a terminal "Error in Analysis"
// outcome; neither is retried here.
var (
	// ErrUnavailable wraps transport failures and timeouts from the
	// completion service.
	ErrUnavailable = errors.New("judge service unavailable")
	// ErrParse wraps model output that does not parse into, or does not
	// satisfy, the DetailedAnalysis contract.
	ErrParse = errors.New("judge output invalid")
)

const systemPrompt = `You are an expert QA analyst. Analyze the customer complaint.

STEP 1: Check for sarcasm, ambiguity, or gibberish.
- If the text is sarcastic (e.g., "Great job breaking it"), ambiguous (e.g., "I don't know"), or lacks clear technical details, reject it.
- Set "status" to "Review_Queue" and "flag_reason" to explain why. Leave "aspects" empty.

STEP 2: If the complaint is valid and technical:
- Perform aspect-based sentiment analysis.
- Set "status" to "Success" and leave "flag_reason" empty.

Respond with a single JSON object and nothing else:
{
  "complaint_id": "...",
  "status": "Success" OR "Review_Queue",
  "flag_reason": "...",
  "aspects": [{"aspect": "Battery", "sentiment": "Negative", "severity": "High"}],
  "summary": "..."
}`

// Completer is the completion capability the judge depends on. *llm.Client
// satisfies it.
type Completer interface {
	Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
}

type Judge struct {
	client Completer
}

func New(client Completer) *Judge {
	return &Judge{client: client}
}

// Adjudicate issues a single deterministic completion call and parses the
// verdict. Temperature is pinned to zero so identical inputs reproduce.
func (j *Judge) Adjudicate(ctx context.Context, complaintID, text string) (*domain.DetailedAnalysis, error) {
	resp, err := j.client.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Complaint ID: %s\nText: %s", complaintID, text)},
		},
		MaxTokens:   1024,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	analysis, err := parseVerdict(resp.Content)
	if err != nil {
		return nil, err
	}

	// Attribute the verdict to the request, whatever the model echoed back.
	analysis.ComplaintID = complaintID

	return analysis, nil
}

func parseVerdict(content string) (*domain.DetailedAnalysis, error) {
	var analysis domain.DetailedAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", ErrParse, err)
	}

	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return &analysis, nil
}
