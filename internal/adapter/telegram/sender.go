package telegram

import (
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-assistant-telegram-bot/internal/domain"
)

// Реализация отправителя для юзкейсов
type Sender struct{ bot *tgbotapi.BotAPI }

func NewSender(bot *tgbotapi.BotAPI) *Sender { return &Sender{bot: bot} }

func (s *Sender) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := s.bot.Send(msg)
	return classifySendError(chatID, err)
}

// classifySendError превращает сырую ошибку API в типизированную DeliveryError,
// чтобы рассылка могла различать заблокировавших бота, удалённые аккаунты
// и транспортные сбои.
func classifySendError(chatID int64, err error) error {
	if err == nil {
		return nil
	}
	reason := domain.SendFailureTransport
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		msg := strings.ToLower(tgErr.Message)
		switch {
		case strings.Contains(msg, "blocked"):
			reason = domain.SendFailureBlocked
		case strings.Contains(msg, "deactivated"):
			reason = domain.SendFailureDeactivated
		case strings.Contains(msg, "chat not found"):
			reason = domain.SendFailureNotFound
		}
	}
	return &domain.DeliveryError{ChatID: chatID, Reason: reason, Err: err}
}
