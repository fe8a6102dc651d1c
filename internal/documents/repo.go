package documents

import "context"

// Repo defines persistence operations for documents. Every lookup is
// scoped by owner; a document belonging to another user is reported as
// ErrNotFound, identical to a missing one.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	Delete(ctx context.Context, userID, documentID string) error
}
