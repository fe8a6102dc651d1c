package chats

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Turns are stored as one JSONB
// document per conversation so each Upsert replaces the log atomically.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the conversation for the pair.
func (r *PGRepo) Get(ctx context.Context, userID, documentID string) (Chat, error) {
	const query = `
SELECT id, document_id, user_id, messages, created_at, updated_at
FROM chats
WHERE user_id = $1 AND document_id = $2
LIMIT 1`
	var chat Chat
	var raw []byte
	err := r.DB.QueryRowContext(ctx, query, userID, documentID).Scan(
		&chat.ID,
		&chat.DocumentID,
		&chat.UserID,
		&raw,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Chat{}, ErrNotFound
		}
		return Chat{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &chat.Turns); err != nil {
			return Chat{}, fmt.Errorf("decode chat messages id=%s: %w", chat.ID, err)
		}
	}
	return chat, nil
}

// Upsert writes the conversation whole, keyed on (document, owner).
func (r *PGRepo) Upsert(ctx context.Context, chat Chat) error {
	const query = `
INSERT INTO chats (id, document_id, user_id, messages, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (document_id, user_id)
DO UPDATE SET messages = EXCLUDED.messages, updated_at = EXCLUDED.updated_at`

	raw, err := json.Marshal(chat.Turns)
	if err != nil {
		return fmt.Errorf("encode chat messages id=%s: %w", chat.ID, err)
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		chat.ID,
		chat.DocumentID,
		chat.UserID,
		raw,
		chat.CreatedAt,
		chat.UpdatedAt,
	)
	return err
}

// Delete removes the conversation for the pair.
func (r *PGRepo) Delete(ctx context.Context, userID, documentID string) error {
	const query = `
DELETE FROM chats
WHERE user_id = $1 AND document_id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
