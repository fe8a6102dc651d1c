package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/chats"
	"docchat-backend/internal/documents"
	"docchat-backend/internal/llm"
	openai "docchat-backend/internal/llm/openai"
	"docchat-backend/internal/shared/config"
	"docchat-backend/internal/shared/server"
	"docchat-backend/internal/shared/storage/db"
	"docchat-backend/internal/shared/storage/object"
	localstore "docchat-backend/internal/shared/storage/object/local"
	s3store "docchat-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	DocumentsRepo    documents.Repo
	ChatsRepo        chats.Repo
	DocumentsService *documents.Service
	ChatsService     *chats.Service
	DocumentsHandler *documents.Handler
	ChatsHandler     *chats.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var docRepo documents.Repo
	var chatRepo chats.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
		chatRepo = &chats.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
		chatRepo = chats.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if cfg.LLMProvider == "openai" && strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel, cfg.LLMBaseURL)
		if err != nil {
			return nil, err
		}
		llmClient = client
	}

	docSvc := &documents.Service{
		Repo:          docRepo,
		Store:         store,
		Conversations: conversationCleanup{repo: chatRepo},
	}
	chatSvc := chats.NewService(docRepo, chatRepo, &chats.Gateway{LLM: llmClient})

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Store:            store,
		DocumentsRepo:    docRepo,
		ChatsRepo:        chatRepo,
		DocumentsService: docSvc,
		ChatsService:     chatSvc,
		DocumentsHandler: documents.NewHandler(docSvc),
		ChatsHandler:     chats.NewHandler(chatSvc),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		DocumentHandler: app.DocumentsHandler,
		ChatHandler:     app.ChatsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// conversationCleanup adapts the chats repo for document deletion: a
// missing conversation is not an error there.
type conversationCleanup struct {
	repo chats.Repo
}

func (c conversationCleanup) Delete(ctx context.Context, userID, documentID string) error {
	err := c.repo.Delete(ctx, userID, documentID)
	if errors.Is(err, chats.ErrNotFound) {
		return nil
	}
	return err
}
