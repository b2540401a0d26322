// Package app wires configuration, storage, the LLM client and the dialogue
// controller for the command binaries.
package app

import (
	"context"
	"fmt"

	"github.com/xaenox/eldric/internal/classifier"
	"github.com/xaenox/eldric/internal/dialogue"
	"github.com/xaenox/eldric/internal/knowledge"
	"github.com/xaenox/eldric/internal/llm"
	"github.com/xaenox/eldric/internal/logging"
	"github.com/xaenox/eldric/internal/storage"
	"github.com/xaenox/eldric/pkg/config"
	"go.uber.org/zap"
)

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      storage.Storage
	Controller *dialogue.Controller
}

func New(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := storage.Open(ctx, DatabaseConfig(cfg), logger)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; free-form turns will fail")
	}
	completer := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	}, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Controller: NewController(cfg, store, completer, logger),
	}, nil
}

// NewController builds the dialogue controller from configuration.
func NewController(cfg *config.Config, store storage.Storage, completer llm.Completer, logger *zap.Logger) *dialogue.Controller {
	var scorer classifier.Scorer = classifier.LastQuestionScorer{}
	if cfg.Dialogue.WeightedScoring {
		scorer = classifier.WeightedScorer{}
	}

	return dialogue.New(
		store,
		knowledge.NewRetriever(store, logger),
		llm.NewRegistry(completer, cfg.Sessions.MaxSessions, cfg.Sessions.EvictBatch),
		dialogue.Options{
			GuestUserID:     cfg.Dialogue.GuestUserID,
			DefaultLanguage: cfg.Dialogue.DefaultLanguage,
			Scorer:          scorer,
		},
		logger,
	)
}

func DatabaseConfig(cfg *config.Config) storage.DatabaseConfig {
	return storage.DatabaseConfig{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		Path:     cfg.Database.Path,
	}
}

func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		a.Logger.Error("Failed to close storage", zap.Error(err))
	}
	a.Logger.Sync()
}
