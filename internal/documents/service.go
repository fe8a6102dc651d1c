package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docchat-backend/internal/extract"
	"docchat-backend/internal/shared/metrics"
	"docchat-backend/internal/shared/storage/object"
	"docchat-backend/internal/shared/telemetry"
)

// ConversationDeleter removes the conversation attached to a document.
// Deleting when no conversation exists must succeed; wired in bootstrap.
type ConversationDeleter interface {
	Delete(ctx context.Context, userID, documentID string) error
}

// Service contains business logic for documents.
type Service struct {
	Repo          Repo
	Store         object.ObjectStore
	Conversations ConversationDeleter
}

// Upload extracts text from the payload and records the document. The raw
// upload is archived to the object store when one is configured; archive
// failures do not fail the upload.
func (s *Service) Upload(ctx context.Context, userID, title, fileName, mimeType string, data []byte) (Document, error) {
	if userID == "" {
		return Document{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if len(data) == 0 {
		return Document{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	mediaType, ok := MediaTypeFromMime(mimeType)
	if !ok {
		return Document{}, fmt.Errorf("%w: unsupported mime type: %s", extract.ErrExtractionFailed, mimeType)
	}

	content, err := extract.FromBytes(data, mimeType)
	if err != nil {
		return Document{}, err
	}

	if title == "" {
		title = fileName
	}

	doc := Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		FileName:  fileName,
		MediaType: mediaType,
		Content:   content,
		SizeBytes: int64(len(data)),
		CreatedAt: time.Now().UTC(),
	}

	if s.Store != nil {
		storageKey, _, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
		if err != nil {
			telemetry.Warn("document.archive_failed", map[string]any{
				"user_id":   userID,
				"file_name": fileName,
				"error":     err.Error(),
			})
		} else {
			doc.StorageKey = storageKey
		}
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	metrics.IncDocumentUploaded()
	return doc, nil
}

// Get returns a document owned by the user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List returns the user's document metadata, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Delete removes a document and its conversation, if any.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	if err := s.Repo.Delete(ctx, userID, documentID); err != nil {
		return err
	}
	if s.Conversations != nil {
		if err := s.Conversations.Delete(ctx, userID, documentID); err != nil {
			telemetry.Warn("document.conversation_cleanup_failed", map[string]any{
				"user_id":     userID,
				"document_id": documentID,
				"error":       err.Error(),
			})
		}
	}
	return nil
}
