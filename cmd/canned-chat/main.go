package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamvkosarev/canned-chat/config"
	"github.com/iamvkosarev/canned-chat/internal/app"
	"github.com/iamvkosarev/canned-chat/internal/logger"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "config/config.yml"

func main() {
	cfgPath := flag.String("config", defaultConfigPath, "path to YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	path := *cfgPath
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
		path = ""
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to parse log level: %v", err)
	}
	appLogger := logger.New(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("app stopped with error", "error", err)
		os.Exit(1)
	}
}
