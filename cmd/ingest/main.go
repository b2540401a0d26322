package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/xaenox/eldric/internal/app"
	"github.com/xaenox/eldric/internal/knowledge"
	"github.com/xaenox/eldric/internal/logging"
	"github.com/xaenox/eldric/internal/storage"
	"github.com/xaenox/eldric/pkg/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	file := flag.String("file", "", "knowledge corpus JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if *file == "" {
		logger.Fatal("-file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("Failed to open corpus", zap.Error(err), zap.String("path", *file))
	}
	defer f.Close()

	chunks, err := knowledge.LoadCorpus(f)
	if err != nil {
		logger.Fatal("Failed to parse corpus", zap.Error(err), zap.String("path", *file))
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, app.DatabaseConfig(cfg), logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	n, err := knowledge.Ingest(ctx, store, chunks)
	if err != nil {
		logger.Fatal("Failed to ingest corpus", zap.Error(err), zap.Int("inserted", n))
	}

	total, err := store.CountKnowledge(ctx)
	if err != nil {
		logger.Fatal("Failed to count knowledge", zap.Error(err))
	}
	logger.Info("Corpus ingested", zap.Int("inserted", n), zap.Int64("total", total))
}
