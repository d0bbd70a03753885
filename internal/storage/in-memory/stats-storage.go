package in_memory

import (
	"context"
	"sync"

	"github.com/iamvkosarev/canned-chat/internal/model"
)

type StatsStorage struct {
	mu       sync.Mutex
	branches map[model.Branch]int64
}

func NewStatsStorage() *StatsStorage {
	return &StatsStorage{
		branches: make(map[model.Branch]int64),
	}
}

func (s *StatsStorage) IncrementBranch(_ context.Context, branch model.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[branch]++
	return nil
}

func (s *StatsStorage) BranchCounts(_ context.Context) (map[model.Branch]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[model.Branch]int64, len(s.branches))
	for branch, count := range s.branches {
		counts[branch] = count
	}
	return counts, nil
}
