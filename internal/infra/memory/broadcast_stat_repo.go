package memory

import (
	"sync"
	"time"

	"study-assistant-telegram-bot/internal/usecase"
)

// statHistoryCap ограничивает историю в памяти: запасное хранилище живёт
// столько же, сколько процесс, бесконечный рост ему ни к чему.
const statHistoryCap = 100

type BroadcastStatRepo struct {
	mu    sync.RWMutex
	stats []usecase.BroadcastResult
}

func NewBroadcastStatRepo() *BroadcastStatRepo {
	return &BroadcastStatRepo{stats: make([]usecase.BroadcastResult, 0, 32)}
}

func (r *BroadcastStatRepo) Save(res usecase.BroadcastResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	r.stats = append(r.stats, res)
	if len(r.stats) > statHistoryCap {
		r.stats = r.stats[len(r.stats)-statHistoryCap:]
	}
	return nil
}

// ListRecent возвращает последние n в обратном хронологическом порядке
func (r *BroadcastStatRepo) ListRecent(n int) ([]usecase.BroadcastResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n <= 0 || n > len(r.stats) {
		n = len(r.stats)
	}
	res := make([]usecase.BroadcastResult, 0, n)
	for i := len(r.stats) - 1; i >= 0 && len(res) < n; i-- {
		res = append(res, r.stats[i])
	}
	return res, nil
}
