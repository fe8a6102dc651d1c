package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message is one entry in an ordered chat-completion request.
type Message struct {
	Role    string
	Content string
}

// Client abstracts chat-completion providers.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// FailureClass partitions backend failures into the fixed set of
// recoverable categories the chat layer substitutes fallback text for.
type FailureClass string

const (
	FailureAuth        FailureClass = "auth"
	FailureRateLimited FailureClass = "rate_limited"
	FailureUnavailable FailureClass = "unavailable"
	FailureOther       FailureClass = "other"
)

// APIError carries the HTTP status and message of a backend error reply.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm backend status %d: %s", e.StatusCode, e.Message)
}

// Classify maps a completion error to its failure class.
func Classify(err error) FailureClass {
	if err == nil {
		return FailureOther
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return FailureAuth
		case 429:
			return FailureRateLimited
		case 503:
			return FailureUnavailable
		}
		if strings.Contains(strings.ToLower(apiErr.Message), "loading") {
			return FailureUnavailable
		}
		return FailureOther
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureUnavailable
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "client.timeout") || strings.Contains(msg, "loading") {
		return FailureUnavailable
	}
	return FailureOther
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, messages []Message) (string, error) {
	_ = ctx
	_ = messages
	return "", ErrNotConfigured
}

var _ Client = PlaceholderClient{}
