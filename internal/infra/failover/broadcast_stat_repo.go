package failover

import (
	"log/slog"
	"sync/atomic"

	"study-assistant-telegram-bot/internal/usecase"
)

// BroadcastStatRepo оборачивает основное хранилище истории рассылок запасным
// in-memory. Save никогда не теряет запись молча: при отказе основного
// хранилища она уходит в память. В отличие от реестра чатов, чтение при
// деградации не возвращает ошибку, а отдаёт накопленное в памяти — история
// рассылок вторична, и лучше показать владельцу хоть что-то.
type BroadcastStatRepo struct {
	primary  usecase.BroadcastStatRepository
	fallback usecase.BroadcastStatRepository
	mode     atomic.Int32
	logger   *slog.Logger
}

func NewBroadcastStatRepo(primary, fallback usecase.BroadcastStatRepository, logger *slog.Logger) *BroadcastStatRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &BroadcastStatRepo{primary: primary, fallback: fallback, logger: logger}
}

func (r *BroadcastStatRepo) Save(res usecase.BroadcastResult) error {
	if err := r.primary.Save(res); err != nil {
		r.markDegraded(err)
		return r.fallback.Save(res)
	}
	r.markConnected()
	return nil
}

func (r *BroadcastStatRepo) ListRecent(n int) ([]usecase.BroadcastResult, error) {
	runs, err := r.primary.ListRecent(n)
	if err != nil {
		r.markDegraded(err)
		return r.fallback.ListRecent(n)
	}
	r.markConnected()
	return runs, nil
}

func (r *BroadcastStatRepo) Mode() Mode {
	return Mode(r.mode.Load())
}

func (r *BroadcastStatRepo) markDegraded(cause error) {
	if r.mode.Swap(int32(ModeDegraded)) != int32(ModeDegraded) {
		r.logger.Error("broadcast stats degraded, falling back to in-memory history", "error", cause)
	}
}

func (r *BroadcastStatRepo) markConnected() {
	if r.mode.Swap(int32(ModeConnected)) != int32(ModeConnected) {
		r.logger.Info("broadcast stats recovered")
	}
}
