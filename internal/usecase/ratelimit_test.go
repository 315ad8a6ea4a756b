package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_FirstInteractionAccepted(t *testing.T) {
	l := NewRateLimiter(5 * time.Second)
	require.Zero(t, l.CheckAndMark(42, time.Now()))
}

func TestRateLimiter_RejectsWithinCooldown(t *testing.T) {
	req := require.New(t)
	l := NewRateLimiter(5 * time.Second)
	t0 := time.Unix(1000, 0)

	req.Zero(l.CheckAndMark(42, t0))
	req.Equal(3*time.Second, l.CheckAndMark(42, t0.Add(2*time.Second)))
	// отклонённая попытка не сдвигает окно
	req.Equal(1*time.Second, l.CheckAndMark(42, t0.Add(4*time.Second)))
}

func TestRateLimiter_AcceptsAfterCooldown(t *testing.T) {
	req := require.New(t)
	l := NewRateLimiter(5 * time.Second)
	t0 := time.Unix(1000, 0)

	req.Zero(l.CheckAndMark(42, t0))
	req.Zero(l.CheckAndMark(42, t0.Add(5*time.Second)))
	req.Zero(l.CheckAndMark(42, t0.Add(11*time.Second)))
}

func TestRateLimiter_UsersIndependent(t *testing.T) {
	req := require.New(t)
	l := NewRateLimiter(5 * time.Second)
	t0 := time.Unix(1000, 0)

	req.Zero(l.CheckAndMark(1, t0))
	req.Zero(l.CheckAndMark(2, t0))
	req.NotZero(l.CheckAndMark(1, t0.Add(time.Second)))
	req.NotZero(l.CheckAndMark(2, t0.Add(time.Second)))
}

func TestRateLimiter_ConcurrentSameUserSingleWinner(t *testing.T) {
	req := require.New(t)
	l := NewRateLimiter(5 * time.Second)
	now := time.Unix(1000, 0)

	const n = 64
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.CheckAndMark(42, now) == 0 {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	// атомарность check-and-mark: из одновременных побеждает ровно один
	req.Equal(1, accepted)
}
