package chats

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docchat-backend/internal/llm"
)

type stubClient struct {
	reply string
	err   error
	calls int
}

func (s *stubClient) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestGatewayCompleteSuccess(t *testing.T) {
	stub := &stubClient{reply: "  The report covers revenue.  "}
	g := &Gateway{LLM: stub}
	got := g.Complete(context.Background(), testDoc(), "what about revenue?", nil)
	if got != "The report covers revenue." {
		t.Fatalf("expected trimmed reply, got %q", got)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one backend call, got %d", stub.calls)
	}
}

func TestGatewayCompleteFallbacks(t *testing.T) {
	doc := testDoc()
	question := "what changed?"

	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "auth",
			err:      &llm.APIError{StatusCode: 401, Message: "invalid key"},
			contains: []string{"authentication issues", doc.Title},
		},
		{
			name:     "rate limited",
			err:      &llm.APIError{StatusCode: 429, Message: "slow down"},
			contains: []string{"rate-limited", doc.Title, question},
		},
		{
			name:     "unavailable",
			err:      &llm.APIError{StatusCode: 503, Message: "down"},
			contains: []string{"currently loading", "20-30 seconds"},
		},
		{
			name:     "model loading",
			err:      &llm.APIError{StatusCode: 500, Message: "model is loading"},
			contains: []string{"currently loading"},
		},
		{
			name:     "other",
			err:      errors.New("connection refused"),
			contains: []string{"technical difficulties", doc.Title, question},
		},
		{
			name:     "not configured",
			err:      llm.ErrNotConfigured,
			contains: []string{"technical difficulties"},
		},
	}

	for _, tt := range tests {
		g := &Gateway{LLM: &stubClient{err: tt.err}}
		got := g.Complete(context.Background(), doc, question, nil)
		if got == "" {
			t.Fatalf("%s: fallback reply must be non-empty", tt.name)
		}
		for _, want := range tt.contains {
			if !strings.Contains(got, want) {
				t.Fatalf("%s: reply %q missing %q", tt.name, got, want)
			}
		}
	}
}

func TestGatewayFallbackTextsDistinct(t *testing.T) {
	doc := testDoc()
	errs := []error{
		&llm.APIError{StatusCode: 401, Message: "x"},
		&llm.APIError{StatusCode: 429, Message: "x"},
		&llm.APIError{StatusCode: 503, Message: "x"},
		errors.New("boom"),
	}
	seen := map[string]bool{}
	for _, e := range errs {
		g := &Gateway{LLM: &stubClient{err: e}}
		text := g.Complete(context.Background(), doc, "q", nil)
		if seen[text] {
			t.Fatalf("duplicate fallback text for distinct failure classes: %q", text)
		}
		seen[text] = true
	}
}

func TestGatewayEmptyReplyFallback(t *testing.T) {
	g := &Gateway{LLM: &stubClient{reply: "   \n  "}}
	doc := testDoc()
	got := g.Complete(context.Background(), doc, "q", nil)
	if !strings.Contains(got, doc.Title) {
		t.Fatalf("empty-reply fallback should mention the title, got %q", got)
	}
	if !strings.Contains(got, "I understand your question") {
		t.Fatalf("unexpected empty-reply fallback %q", got)
	}
}
