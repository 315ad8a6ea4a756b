package failover

import (
	"log/slog"
	"sync/atomic"

	"study-assistant-telegram-bot/internal/usecase"
)

// UsageRepo оборачивает основное хранилище счётчиков режимов запасным
// in-memory. Отметки о использовании пишутся best-effort, обрыв учёта из-за
// базы недопустим: при отказе основного хранилища Hit уходит в память,
// Counts отдаёт накопленное там.
type UsageRepo struct {
	primary  usecase.UsageRepository
	fallback usecase.UsageRepository
	mode     atomic.Int32
	logger   *slog.Logger
}

func NewUsageRepo(primary, fallback usecase.UsageRepository, logger *slog.Logger) *UsageRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageRepo{primary: primary, fallback: fallback, logger: logger}
}

func (r *UsageRepo) Hit(mode string, userID int64) error {
	if err := r.primary.Hit(mode, userID); err != nil {
		r.markDegraded(err)
		return r.fallback.Hit(mode, userID)
	}
	r.markConnected()
	return nil
}

func (r *UsageRepo) Counts() (map[string]int, error) {
	counts, err := r.primary.Counts()
	if err != nil {
		r.markDegraded(err)
		return r.fallback.Counts()
	}
	r.markConnected()
	return counts, nil
}

func (r *UsageRepo) Mode() Mode {
	return Mode(r.mode.Load())
}

func (r *UsageRepo) markDegraded(cause error) {
	if r.mode.Swap(int32(ModeDegraded)) != int32(ModeDegraded) {
		r.logger.Error("usage counters degraded, falling back to in-memory sets", "error", cause)
	}
}

func (r *UsageRepo) markConnected() {
	if r.mode.Swap(int32(ModeConnected)) != int32(ModeConnected) {
		r.logger.Info("usage counters recovered")
	}
}
