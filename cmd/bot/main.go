package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/xaenox/eldric/internal/app"
	"github.com/xaenox/eldric/internal/bot"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, "config.yaml")
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if a.Config.Telegram.Token == "" {
		a.Logger.Fatal("TELEGRAM_TOKEN is required")
	}

	b, err := bot.New(a.Config.Telegram.Token, a.Controller, a.Logger)
	if err != nil {
		a.Logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(ctx); err != nil {
		a.Logger.Fatal("Bot error", zap.Error(err))
	}
}
