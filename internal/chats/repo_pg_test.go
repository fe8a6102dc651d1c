package chats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetDecodesMessages(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	turns := turnSeq(2)
	raw, err := json.Marshal(turns)
	if err != nil {
		t.Fatalf("marshal turns: %v", err)
	}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "document_id", "user_id", "messages", "created_at", "updated_at"}).
		AddRow("chat-1", "doc-1", "user-1", raw, now, now)

	mock.ExpectQuery("SELECT (.+) FROM chats").
		WithArgs("user-1", "doc-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	chat, err := repo.Get(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if chat.ID != "chat-1" || len(chat.Turns) != 2 {
		t.Fatalf("unexpected chat: %+v", chat)
	}
	if chat.Turns[0].Role != RoleUser || chat.Turns[0].Content != "turn-0" {
		t.Fatalf("unexpected first turn: %+v", chat.Turns[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetEmptyMessages(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "document_id", "user_id", "messages", "created_at", "updated_at"}).
		AddRow("chat-1", "doc-1", "user-1", []byte("[]"), now, now)

	mock.ExpectQuery("SELECT (.+) FROM chats").
		WithArgs("user-1", "doc-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	chat, err := repo.Get(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(chat.Turns) != 0 {
		t.Fatalf("expected no turns, got %d", len(chat.Turns))
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM chats").
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "user_id", "messages", "created_at", "updated_at"}))

	repo := &PGRepo{DB: db}
	_, err = repo.Get(context.Background(), "user-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpsertEncodesMessages(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	chat := Chat{
		ID:         "chat-1",
		DocumentID: "doc-1",
		UserID:     "user-1",
		Turns:      turnSeq(2),
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	raw, err := json.Marshal(chat.Turns)
	if err != nil {
		t.Fatalf("marshal turns: %v", err)
	}

	mock.ExpectExec("INSERT INTO chats").
		WithArgs(
			chat.ID,
			chat.DocumentID,
			chat.UserID,
			raw,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Upsert(context.Background(), chat); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM chats").
		WithArgs("user-1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.Delete(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
