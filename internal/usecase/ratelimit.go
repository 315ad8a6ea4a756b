package usecase

import (
	"sync"
	"time"
)

// RateLimiter ограничивает частоту принятых обращений одного пользователя.
// Состояние живёт в памяти процесса: после рестарта все окна сбрасываются,
// это мягкая защита от спама, а не граница безопасности.
type RateLimiter struct {
	cooldown time.Duration
	entries  sync.Map // user id -> *rateEntry
}

type rateEntry struct {
	mu           sync.Mutex
	lastAccepted time.Time
}

func NewRateLimiter(cooldown time.Duration) *RateLimiter {
	return &RateLimiter{cooldown: cooldown}
}

// CheckAndMark атомарно проверяет окно пользователя. Возвращает 0 и помечает
// момент now как принятый, либо остаток ожидания до следующего приёма.
// Блокировка per-user: обращения разных пользователей не сериализуются между собой.
func (l *RateLimiter) CheckAndMark(userID int64, now time.Time) time.Duration {
	v, _ := l.entries.LoadOrStore(userID, &rateEntry{})
	e := v.(*rateEntry)
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.lastAccepted.IsZero() {
		if wait := l.cooldown - now.Sub(e.lastAccepted); wait > 0 {
			return wait
		}
	}
	e.lastAccepted = now
	return 0
}
