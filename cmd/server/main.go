package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/xaenox/eldric/internal/app"
	"github.com/xaenox/eldric/internal/auth"
	"github.com/xaenox/eldric/internal/server"
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

	srv := server.New(
		server.Config{
			Addr:           a.Config.Server.Addr,
			AllowedOrigins: a.Config.Server.AllowedOrigins,
		},
		a.Controller,
		auth.NewService(a.Store, a.Logger),
		a.Logger,
	)

	if err := srv.Run(ctx); err != nil {
		a.Logger.Fatal("Server error", zap.Error(err))
	}
}
