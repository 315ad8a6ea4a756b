package telegram

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-assistant-telegram-bot/internal/domain"
	"study-assistant-telegram-bot/internal/usecase"
)

// Предел одновременно обрабатываемых событий; приём из long-poll остаётся последовательным
const dispatchConcurrency = 16

type Handler struct {
	bot    *tgbotapi.BotAPI
	router *usecase.Router
	usage  *usecase.UsageUsecase
	owner  int64
	logger *slog.Logger
}

func NewHandler(bot *tgbotapi.BotAPI, router *usecase.Router, usage *usecase.UsageUsecase, ownerID int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		bot:    bot,
		router: router,
		usage:  usage,
		owner:  ownerID,
		logger: logger,
	}
}

// Run крутит цикл long-poll до отмены ctx. Каждое событие уходит в свою
// горутину (не больше dispatchConcurrency разом); на выходе дожидаемся,
// пока начатые ответы и идущая рассылка завершатся сами.
func (h *Handler) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := h.bot.GetUpdatesChan(u)

	var wg sync.WaitGroup
	sem := make(chan struct{}, dispatchConcurrency)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			wg.Wait()
			return
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return
			}
			m := update.Message
			if m == nil || m.Text == "" {
				// не-текстовые события этот бот не обслуживает
				continue
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				continue
			}
			wg.Add(1)
			go func(m *tgbotapi.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				h.dispatch(ctx, m)
			}(m)
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, m *tgbotapi.Message) {
	msg := eventFromMessage(m, h.bot.Self.ID)
	d := h.router.Handle(ctx, msg)
	if d.Outcome == usecase.OutcomeSilent {
		// /usage живёт в адаптере: ему нужен рендер графика с текстовым фолбэком
		if servesUsage(m, h.owner) && h.usage != nil {
			h.replyUsage(m)
		}
		return
	}
	h.reply(m, d.Reply)
}

// servesUsage пускает к /usage только владельца и только в личке: боковой
// путь в адаптере не должен обходить групповой гейтинг по упоминанию
func servesUsage(m *tgbotapi.Message, ownerID int64) bool {
	return isUsageCommand(m.Text) &&
		m.Chat != nil && m.Chat.IsPrivate() &&
		m.From != nil && m.From.ID == ownerID
}

func isUsageCommand(text string) bool {
	cmd := strings.TrimSpace(text)
	if i := strings.IndexAny(cmd, " \t\n"); i >= 0 {
		cmd = cmd[:i]
	}
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.EqualFold(cmd, "/usage")
}

func (h *Handler) replyUsage(m *tgbotapi.Message) {
	labels, values, err := h.usage.GraphData()
	if err == nil {
		if err = h.sendUsageChart(m.Chat.ID, labels, values); err == nil {
			return
		}
		h.logger.Error("usage chart failed", "error", err)
	}
	h.reply(m, h.usage.Chart())
}

func (h *Handler) reply(m *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(m.Chat.ID, text)
	msg.ReplyToMessageID = m.MessageID
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("reply send failed", "chat_id", m.Chat.ID, "error", err)
	}
}

// eventFromMessage переводит апдейт Telegram в транспортно-независимое событие
func eventFromMessage(m *tgbotapi.Message, selfID int64) usecase.InboundMessage {
	kind := domain.ChatKindGroup
	displayName := m.Chat.Title
	if m.Chat.IsPrivate() {
		kind = domain.ChatKindPrivate
		if m.From != nil {
			displayName = m.From.UserName
		}
	}
	msg := usecase.InboundMessage{
		ChatID:      m.Chat.ID,
		ChatKind:    kind,
		DisplayName: displayName,
		Text:        m.Text,
	}
	if m.From != nil {
		msg.SenderID = m.From.ID
		msg.FromSelf = m.From.ID == selfID
	}
	if rm := m.ReplyToMessage; rm != nil {
		q := &usecase.QuotedMessage{Text: rm.Text}
		if rm.From != nil {
			q.SenderID = rm.From.ID
			q.FromSelf = rm.From.ID == selfID
		}
		msg.ReplyTo = q
	}
	return msg
}
