package chats

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Chat // userID + "/" + documentID -> chat
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Chat),
	}
}

func chatKey(userID, documentID string) string {
	return userID + "/" + documentID
}

// Get returns the stored conversation for the pair.
func (r *MemoryRepo) Get(ctx context.Context, userID, documentID string) (Chat, error) {
	if err := ctx.Err(); err != nil {
		return Chat{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	chat, ok := r.data[chatKey(userID, documentID)]
	if !ok {
		return Chat{}, ErrNotFound
	}
	out := chat
	out.Turns = append([]Turn(nil), chat.Turns...)
	return out, nil
}

// Upsert stores the conversation whole.
func (r *MemoryRepo) Upsert(ctx context.Context, chat Chat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := chat
	stored.Turns = append([]Turn(nil), chat.Turns...)
	r.data[chatKey(chat.UserID, chat.DocumentID)] = stored
	return nil
}

// Delete removes the conversation for the pair.
func (r *MemoryRepo) Delete(ctx context.Context, userID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := chatKey(userID, documentID)
	if _, ok := r.data[key]; !ok {
		return ErrNotFound
	}
	delete(r.data, key)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
