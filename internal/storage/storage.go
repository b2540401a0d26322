package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaenox/eldric/internal/models"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrMissingParam = errors.New("storage: missing named parameter")
	ErrDuplicate    = errors.New("storage: duplicate key")
)

// Storage is the persistence surface used by the dialogue controller, auth and ingestion.
type Storage interface {
	TestStateStorage
	KnowledgeStorage
	ConversationStorage
	UserStorage
	Close() error
}

type TestStateStorage interface {
	// GetTestState returns ErrNotFound when the user has no row yet.
	GetTestState(ctx context.Context, userID string) (*models.TestState, error)
	SaveTestState(ctx context.Context, state *models.TestState) error
}

type KnowledgeStorage interface {
	// SearchKnowledge returns the content of up to limit chunks whose tags contain
	// any of the given tags (case-insensitive), in random order.
	SearchKnowledge(ctx context.Context, tags []string, limit int) ([]string, error)
	InsertKnowledge(ctx context.Context, chunk *models.KnowledgeChunk) error
	CountKnowledge(ctx context.Context) (int64, error)
}

type ConversationStorage interface {
	AppendConversation(ctx context.Context, entry *models.ConversationEntry) error
}

type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite file, or ":memory:".
	Path string
}

// Open selects the storage backend named by cfg.Driver.
func Open(ctx context.Context, cfg DatabaseConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		logger.Info("Using PostgreSQL storage", zap.String("host", cfg.Host), zap.String("dbname", cfg.DBName))
		return NewPostgresStorage(ctx, cfg, logger)
	case DriverSQLite:
		logger.Info("Using SQLite storage", zap.String("path", cfg.Path))
		return NewSQLiteStorage(ctx, cfg.Path, logger)
	case DriverMemory:
		logger.Info("Using in-memory storage")
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
