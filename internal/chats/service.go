package chats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docchat-backend/internal/documents"
	"docchat-backend/internal/shared/metrics"
	"docchat-backend/internal/shared/telemetry"
)

// DocumentGetter is the slice of the documents repository the chat layer
// needs: owner-scoped lookup of the grounding document.
type DocumentGetter interface {
	GetByID(ctx context.Context, userID, documentID string) (documents.Document, error)
}

// Service orchestrates one chat turn: validate, load the document and
// conversation, assemble context, complete, persist, respond. Only input
// validation and document ownership can fail; the completion step cannot.
type Service struct {
	Docs    DocumentGetter
	Repo    Repo
	Gateway *Gateway
	Now     func() time.Time
}

// NewService constructs a Service.
func NewService(docs DocumentGetter, repo Repo, gateway *Gateway) *Service {
	return &Service{
		Docs:    docs,
		Repo:    repo,
		Gateway: gateway,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// SendResult is the outcome of one completed turn.
type SendResult struct {
	Message   string
	ChatID    string
	Timestamp time.Time
}

// SendMessage handles one inbound user message end to end. The user turn
// is appended before the context is assembled so the persisted log matches
// what the backend saw; the conversation is written once, after the
// assistant turn and the retention cap are applied.
func (s *Service) SendMessage(ctx context.Context, userID, documentID, message string) (SendResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return SendResult{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	doc, err := s.Docs.GetByID(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return SendResult{}, ErrNotFound
		}
		return SendResult{}, err
	}

	chat, err := s.Repo.Get(ctx, userID, documentID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return SendResult{}, err
		}
		chat = Chat{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			UserID:     userID,
			CreatedAt:  s.Now(),
		}
	}

	chat.Append(Turn{Role: RoleUser, Content: message, Timestamp: s.Now()})

	history := chat.RecentHistory(historyWindow)
	assembled := BuildMessages(doc, history, message)

	reply := s.Gateway.Complete(ctx, doc, message, assembled)

	now := s.Now()
	chat.Append(Turn{Role: RoleAssistant, Content: reply, Timestamp: now})
	chat.EnforceRetentionCap()
	chat.UpdatedAt = now

	if err := s.Repo.Upsert(ctx, chat); err != nil {
		return SendResult{}, err
	}

	metrics.IncChatTurn()
	telemetry.Info("chat.turn", map[string]any{
		"user_id":     userID,
		"document_id": documentID,
		"chat_id":     chat.ID,
		"turns":       len(chat.Turns),
	})

	return SendResult{Message: reply, ChatID: chat.ID, Timestamp: now}, nil
}

// HistoryResult carries a conversation's turns, or an empty log when no
// conversation exists yet.
type HistoryResult struct {
	Turns     []Turn
	Exists    bool
	UpdatedAt time.Time
}

// History returns the stored turns for the pair in original order.
func (s *Service) History(ctx context.Context, userID, documentID string) (HistoryResult, error) {
	chat, err := s.Repo.Get(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return HistoryResult{Turns: []Turn{}}, nil
		}
		return HistoryResult{}, err
	}
	return HistoryResult{Turns: chat.Turns, Exists: true, UpdatedAt: chat.UpdatedAt}, nil
}

// Clear deletes the conversation, or ErrNotFound when none exists.
func (s *Service) Clear(ctx context.Context, userID, documentID string) error {
	return s.Repo.Delete(ctx, userID, documentID)
}

// SummaryResult reports conversation statistics.
type SummaryResult struct {
	MessageCount      int
	UserMessages      int
	AssistantMessages int
	LastActivity      *time.Time
}

// Summary returns message counts and the last activity timestamp.
func (s *Service) Summary(ctx context.Context, userID, documentID string) (SummaryResult, error) {
	chat, err := s.Repo.Get(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SummaryResult{}, nil
		}
		return SummaryResult{}, err
	}

	out := SummaryResult{MessageCount: len(chat.Turns)}
	for _, turn := range chat.Turns {
		switch turn.Role {
		case RoleUser:
			out.UserMessages++
		case RoleAssistant:
			out.AssistantMessages++
		}
	}
	if len(chat.Turns) > 0 {
		last := chat.Turns[len(chat.Turns)-1].Timestamp
		out.LastActivity = &last
	}
	return out, nil
}
