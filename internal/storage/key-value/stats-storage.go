package key_value

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iamvkosarev/canned-chat/internal/model"
	"github.com/redis/go-redis/v9"
)

// StatsStorage keeps per-branch reply counters in one Redis hash.
type StatsStorage struct {
	rdb *redis.Client
	key string
}

func NewStatsStorage(rdb *redis.Client, key string) *StatsStorage {
	return &StatsStorage{
		rdb: rdb,
		key: key,
	}
}

func (s *StatsStorage) IncrementBranch(ctx context.Context, branch model.Branch) error {
	if err := s.rdb.HIncrBy(ctx, s.key, string(branch), 1).Err(); err != nil {
		return fmt.Errorf("failed to increment branch %s in %s: %w", branch, s.key, err)
	}
	return nil
}

func (s *StatsStorage) BranchCounts(ctx context.Context) (map[model.Branch]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats %s: %w", s.key, err)
	}
	counts := make(map[model.Branch]int64, len(raw))
	for field, value := range raw {
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse count of %s: %w", field, err)
		}
		counts[model.Branch(field)] = count
	}
	return counts, nil
}
