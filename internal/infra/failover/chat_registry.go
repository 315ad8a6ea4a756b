package failover

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"study-assistant-telegram-bot/internal/domain"
)

// Mode — явное состояние реестра: подключён к основному хранилищу
// или деградировал до набора в памяти.
type Mode int32

const (
	ModeConnected Mode = iota
	ModeDegraded
)

func (m Mode) String() string {
	if m == ModeDegraded {
		return "degraded"
	}
	return "connected"
}

// ChatRegistry оборачивает основной реестр запасным in-memory.
// Register никогда не роняет путь ответа: при недоступности основного
// хранилища запись уходит в память, отказ логируется. Чтения при
// деградации возвращают ErrStoreUnavailable — "ноль записей" и
// "база лежит" для отчётов разные ситуации.
type ChatRegistry struct {
	primary  domain.ChatRegistry
	fallback domain.ChatRegistry
	mode     atomic.Int32
	logger   *slog.Logger
}

func NewChatRegistry(primary, fallback domain.ChatRegistry, logger *slog.Logger) *ChatRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatRegistry{primary: primary, fallback: fallback, logger: logger}
}

func (r *ChatRegistry) Register(id int64, kind domain.ChatKind, displayName string, seenAt time.Time) error {
	if err := r.primary.Register(id, kind, displayName, seenAt); err != nil {
		r.markDegraded(err)
		return r.fallback.Register(id, kind, displayName, seenAt)
	}
	r.markConnected()
	return nil
}

func (r *ChatRegistry) CountByKind(kind domain.ChatKind) (int, error) {
	n, err := r.primary.CountByKind(kind)
	if err != nil {
		r.markDegraded(err)
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	r.markConnected()
	return n, nil
}

func (r *ChatRegistry) ListIDs(kind domain.ChatKind) ([]int64, error) {
	ids, err := r.primary.ListIDs(kind)
	if err != nil {
		r.markDegraded(err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	r.markConnected()
	return ids, nil
}

func (r *ChatRegistry) Mode() Mode {
	return Mode(r.mode.Load())
}

func (r *ChatRegistry) markDegraded(cause error) {
	if r.mode.Swap(int32(ModeDegraded)) != int32(ModeDegraded) {
		r.logger.Error("chat registry degraded, falling back to in-memory set", "error", cause)
	}
}

func (r *ChatRegistry) markConnected() {
	if r.mode.Swap(int32(ModeConnected)) != int32(ModeConnected) {
		r.logger.Info("chat registry recovered")
	}
}
