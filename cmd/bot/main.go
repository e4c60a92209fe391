package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/daxzwashe/ref-bot/internal/app"
	"github.com/daxzwashe/ref-bot/internal/config"
	"github.com/daxzwashe/ref-bot/internal/infra/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("create app", zap.Error(err))
		os.Exit(1)
	}
	defer application.Close()

	log.Info("bot starting", zap.String("env", cfg.Env))
	if err := application.Run(ctx); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("bot stopped")
}
