package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"study-assistant-telegram-bot/internal/domain"
)

// ErrNotOperator возвращается, когда рассылку запросил не владелец бота.
// Вызывающий обязан молча игнорировать её, не раскрывая существование команды.
var ErrNotOperator = errors.New("broadcast requester is not the operator")

// BroadcastResult — итог одной рассылки. Total фиксируется по списку на старте,
// Sent+Failed равно числу уже обработанных получателей.
type BroadcastResult struct {
	Total     int
	Sent      int
	Failed    int
	RunID     string
	CreatedAt time.Time
}

type BroadcastStatRepository interface {
	Save(res BroadcastResult) error
	ListRecent(n int) ([]BroadcastResult, error)
}

type BroadcastUsecase struct {
	registry domain.ChatRegistry
	sender   domain.MessageSender
	stats    BroadcastStatRepository
	ownerID  int64
	delay    time.Duration
	logger   *slog.Logger
}

func NewBroadcastUsecase(registry domain.ChatRegistry, sender domain.MessageSender, stats BroadcastStatRepository, ownerID int64, delay time.Duration, logger *slog.Logger) *BroadcastUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &BroadcastUsecase{
		registry: registry,
		sender:   sender,
		stats:    stats,
		ownerID:  ownerID,
		delay:    delay,
		logger:   logger,
	}
}

// Run рассылает text всем известным личным чатам по одному, с паузой между
// отправками. Ошибка доставки одному получателю считается и не прерывает
// остальных. Отмена ctx останавливает обход после текущего получателя.
func (u *BroadcastUsecase) Run(ctx context.Context, text string, requesterID int64) (BroadcastResult, error) {
	if requesterID != u.ownerID {
		return BroadcastResult{}, ErrNotOperator
	}

	ids, err := u.registry.ListIDs(domain.ChatKindPrivate)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("list broadcast targets: %w", err)
	}

	res := BroadcastResult{Total: len(ids), RunID: uuid.NewString(), CreatedAt: time.Now()}
	u.logger.Info("broadcast start", "run_id", res.RunID, "targets", res.Total)

	for _, id := range ids {
		if ctx.Err() != nil {
			u.logger.Warn("broadcast interrupted", "run_id", res.RunID, "processed", res.Sent+res.Failed)
			break
		}
		if err := u.sender.SendText(id, text); err != nil {
			res.Failed++
			reason := domain.SendFailureTransport
			var de *domain.DeliveryError
			if errors.As(err, &de) {
				reason = de.Reason
			}
			u.logger.Warn("broadcast send failed", "run_id", res.RunID, "chat_id", id, "reason", string(reason), "error", err)
		} else {
			res.Sent++
		}
		u.pause(ctx)
	}

	if err := u.stats.Save(res); err != nil {
		u.logger.Error("broadcast stat save failed", "run_id", res.RunID, "error", err)
	}
	u.logger.Info("broadcast done", "run_id", res.RunID, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}

// pause выдерживает межотправочную задержку, не переживая отмену контекста
func (u *BroadcastUsecase) pause(ctx context.Context) {
	if u.delay <= 0 {
		return
	}
	t := time.NewTimer(u.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Report форматирует итог рассылки для ответа владельцу.
func (r BroadcastResult) Report() string {
	return fmt.Sprintf("Sent: %d, Failed: %d (of %d targets)", r.Sent, r.Failed, r.Total)
}
