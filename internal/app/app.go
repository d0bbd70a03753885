package app

import (
	"context"
	"errors"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/canned-chat/config"
	"github.com/iamvkosarev/canned-chat/internal/logger"
	"github.com/iamvkosarev/canned-chat/internal/server"
	in_memory "github.com/iamvkosarev/canned-chat/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/canned-chat/internal/storage/key-value"
	"github.com/iamvkosarev/canned-chat/internal/usecase"
	openai_tools "github.com/iamvkosarev/canned-chat/pkg/openai-tools"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"
)

// Run blocks until ctx is cancelled or a component fails.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	statsStorage, closeStorage, err := newStatsStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create stats storage: %w", err)
	}
	defer closeStorage()

	chatUsecase := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			Synthesizer:  usecase.NewSynthesizer(nil),
			StatsStorage: statsStorage,
			Logger:       log.With("component", "chat"),
		}, cfg.Responder,
	)

	completionUsecase := usecase.NewCompletionUsecase(
		usecase.CompletionUsecaseDeps{
			Chat:   chatUsecase,
			Tokens: openai_tools.Counter{},
			Logger: log.With("component", "completion"),
		},
	)

	httpServer := server.NewServer(
		server.ServerDeps{
			Chat:       chatUsecase,
			Completion: completionUsecase,
			Logger:     log.With("component", "http"),
		}, cfg.HTTP,
	)

	var telegramUsecase *usecase.TelegramUsecase
	if cfg.Telegram.Enabled() {
		bot, err := api.NewBotAPI(cfg.Telegram.TelegramAPIToken)
		if err != nil {
			return fmt.Errorf("failed to create new bot: %w", err)
		}
		log.Info("authorized on telegram account", "username", bot.Self.UserName)

		telegramUsecase, err = usecase.NewTelegramUsecase(
			cfg.Telegram, usecase.TelegramUsecaseDeps{
				Bot:    bot,
				Chat:   chatUsecase,
				Logger: log.With("component", "telegram"),
			},
		)
		if err != nil {
			return fmt.Errorf("failed to create telegram usecase: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var httpErr, telegramErr error
	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			if httpErr = httpServer.Run(ctx); httpErr != nil {
				cancel()
			}
		},
	)
	if telegramUsecase != nil {
		wg.Go(
			func() {
				if telegramErr = telegramUsecase.Run(ctx); telegramErr != nil {
					cancel()
				}
			},
		)
	}
	wg.Wait()

	return errors.Join(httpErr, telegramErr)
}

func newStatsStorage(ctx context.Context, cfg *config.Config) (usecase.StatsStorage, func(), error) {
	switch cfg.Stats.Storage {
	case config.StatsStorageRedis:
		rdb := redis.NewClient(
			&redis.Options{
				Addr:     cfg.Redis.Endpoint,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			},
		)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to ping redis %s: %w", cfg.Redis.Endpoint, err)
		}
		return key_value.NewStatsStorage(rdb, cfg.Redis.StatsKey), func() { _ = rdb.Close() }, nil
	case config.StatsStorageMemory, "":
		return in_memory.NewStatsStorage(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown stats storage %q", cfg.Stats.Storage)
	}
}
