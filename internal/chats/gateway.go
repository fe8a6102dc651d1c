package chats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docchat-backend/internal/documents"
	"docchat-backend/internal/llm"
	"docchat-backend/internal/shared/metrics"
	"docchat-backend/internal/shared/telemetry"
)

const defaultCompletionTimeout = 2 * time.Minute

// Gateway invokes the completion backend and absorbs every failure into
// deterministic fallback text. Callers always receive a non-empty reply;
// a backend error never propagates to the user-visible turn.
type Gateway struct {
	LLM     llm.Client
	Timeout time.Duration
}

// Complete runs the completion and returns the assistant text. On any
// backend failure the reply is the fallback for the classified failure;
// an empty completion is replaced with a generic grounded reply.
func (g *Gateway) Complete(ctx context.Context, doc documents.Document, question string, messages []llm.Message) string {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.LLM.Complete(callCtx, messages)
	metrics.ObserveCompletionDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)

	if err != nil {
		class := llm.Classify(err)
		metrics.IncChatFallback(string(class))
		telemetry.Warn("chat.completion_fallback", map[string]any{
			"document_id": doc.ID,
			"class":       string(class),
			"error":       err.Error(),
		})
		return fallbackText(class, doc.Title, question)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		metrics.IncChatFallback("empty_reply")
		telemetry.Warn("chat.completion_fallback", map[string]any{
			"document_id": doc.ID,
			"class":       "empty_reply",
		})
		return emptyReplyFallback(doc.Title)
	}
	return reply
}

// fallbackText maps a failure class to its fixed user-visible reply.
func fallbackText(class llm.FailureClass, title, question string) string {
	switch class {
	case llm.FailureAuth:
		return fmt.Sprintf("I'm unable to connect to the AI service due to authentication issues. Please check your API key configuration. For now, I can tell you're asking about the document %q.", title)
	case llm.FailureRateLimited:
		return fmt.Sprintf("The AI service is currently rate-limited. Please try again in a moment. You asked about %q: %q.", title, question)
	case llm.FailureUnavailable:
		return "The AI model is currently loading. This usually takes 20-30 seconds. Please try again in a moment."
	default:
		return fmt.Sprintf("I'm experiencing technical difficulties connecting to the AI service. You're asking about the document %q: %q. Please try again shortly.", title, question)
	}
}

func emptyReplyFallback(title string) string {
	return fmt.Sprintf("I understand your question about %q. Based on the document information provided, I'm here to help answer your questions.", title)
}
