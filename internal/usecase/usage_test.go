package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"study-assistant-telegram-bot/internal/domain"
)

type fakeUsageRepo struct {
	hits map[string]map[int64]struct{}
	err  error
}

func (f *fakeUsageRepo) Hit(mode string, userID int64) error {
	if f.hits == nil {
		f.hits = map[string]map[int64]struct{}{}
	}
	if f.hits[mode] == nil {
		f.hits[mode] = map[int64]struct{}{}
	}
	f.hits[mode][userID] = struct{}{}
	return nil
}

func (f *fakeUsageRepo) Counts() (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]int{}
	for mode, set := range f.hits {
		out[mode] = len(set)
	}
	return out, nil
}

func TestUsage_ReachCountsDistinctUsers(t *testing.T) {
	req := require.New(t)
	repo := &fakeUsageRepo{}
	uc := NewUsageUsecase(repo)

	uc.Reach(1, "notes")
	uc.Reach(1, "notes")
	uc.Reach(2, "notes")
	uc.Reach(2, "quiz")
	uc.Reach(3, "")

	labels, values, err := uc.GraphData()
	req.NoError(err)
	req.Contains(labels, "notes")
	req.Contains(labels, "quiz")
	counts := map[string]int{}
	for i, l := range labels {
		counts[l] = values[i]
	}
	req.Equal(2, counts["notes"])
	req.Equal(1, counts["quiz"])
	req.Zero(counts["solve"])
}

func TestUsage_ChartText(t *testing.T) {
	req := require.New(t)
	repo := &fakeUsageRepo{}
	uc := NewUsageUsecase(repo)
	uc.Reach(1, "notes")
	uc.Reach(2, "notes")
	uc.Reach(3, "default")

	out := uc.Chart()

	req.Contains(out, "Usage by mode")
	req.Contains(out, "notes: 2")
	req.Contains(out, "free chat: 1")
}

func TestUsage_ChartEmpty(t *testing.T) {
	uc := NewUsageUsecase(&fakeUsageRepo{})
	require.Equal(t, "No usage recorded yet", uc.Chart())
}

func TestUsage_ChartStoreDown(t *testing.T) {
	uc := NewUsageUsecase(&fakeUsageRepo{err: domain.ErrStoreUnavailable})
	require.Contains(t, uc.Chart(), "unavailable")
}
