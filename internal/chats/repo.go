package chats

import "context"

// Repo defines persistence for conversations. At most one conversation
// exists per (document, owner) pair.
type Repo interface {
	// Get returns the conversation for the pair, or ErrNotFound.
	Get(ctx context.Context, userID, documentID string) (Chat, error)
	// Upsert writes the conversation whole, replacing any stored turns.
	Upsert(ctx context.Context, chat Chat) error
	// Delete removes the conversation, or ErrNotFound when none exists.
	Delete(ctx context.Context, userID, documentID string) error
}
