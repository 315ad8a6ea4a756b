package memory

import (
	"sync"

	"github.com/samber/lo"
)

type UsageRepo struct {
	mu     sync.RWMutex
	counts map[string]map[int64]struct{}
}

func NewUsageRepo() *UsageRepo {
	return &UsageRepo{counts: make(map[string]map[int64]struct{})}
}

func (r *UsageRepo) Hit(mode string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.counts[mode]
	if !ok {
		m = make(map[int64]struct{})
		r.counts[mode] = m
	}
	m[userID] = struct{}{}
	return nil
}

func (r *UsageRepo) Counts() (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.MapValues(r.counts, func(set map[int64]struct{}, _ string) int {
		return len(set)
	}), nil
}
