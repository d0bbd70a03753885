package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iamvkosarev/canned-chat/config"
	"github.com/iamvkosarev/canned-chat/internal/logger"
	"github.com/iamvkosarev/canned-chat/internal/model"
)

type StatsStorage interface {
	IncrementBranch(ctx context.Context, branch model.Branch) error
	BranchCounts(ctx context.Context) (map[model.Branch]int64, error)
}

type ChatUsecaseDeps struct {
	Synthesizer  *Synthesizer
	StatsStorage StatsStorage
	Logger       logger.Logger
}

type ChatUsecase struct {
	ChatUsecaseDeps
	cfg config.Responder
}

func NewChatUsecase(deps ChatUsecaseDeps, cfg config.Responder) *ChatUsecase {
	if deps.Synthesizer == nil {
		deps.Synthesizer = NewSynthesizer(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &ChatUsecase{
		ChatUsecaseDeps: deps,
		cfg:             cfg,
	}
}

// Reply waits for the simulated latency and then synthesizes a reply.
// If ctx ends during the wait, ctx.Err() is returned and nothing is recorded.
func (c *ChatUsecase) Reply(ctx context.Context, history model.History) (model.Reply, error) {
	if len(history) == 0 {
		return model.Reply{}, model.ErrEmptyHistory
	}
	if err := sleepContext(ctx, c.nextDelay()); err != nil {
		return model.Reply{}, err
	}
	reply, err := c.Synthesizer.Synthesize(history)
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to synthesize reply: %w", err)
	}
	if c.StatsStorage != nil {
		if err = c.StatsStorage.IncrementBranch(ctx, reply.Branch); err != nil {
			c.Logger.Warn("failed to record reply stats", "branch", reply.Branch, "error", err)
		}
	}
	c.Logger.Debug("reply synthesized", "branch", reply.Branch, "history_len", len(history))
	return reply, nil
}

func (c *ChatUsecase) Stats(ctx context.Context) (model.ReplyStats, error) {
	if c.StatsStorage == nil {
		return model.NewReplyStats(nil), nil
	}
	counts, err := c.StatsStorage.BranchCounts(ctx)
	if err != nil {
		return model.ReplyStats{}, fmt.Errorf("failed to get branch counts: %w", err)
	}
	return model.NewReplyStats(counts), nil
}

func (c *ChatUsecase) nextDelay() time.Duration {
	spread := c.cfg.MaxDelay - c.cfg.MinDelay
	if spread <= 0 {
		return c.cfg.MinDelay
	}
	return c.cfg.MinDelay + time.Duration(rand.Int64N(int64(spread)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
