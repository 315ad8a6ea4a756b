package domain

import "fmt"

// Abstraction for sending messages (implemented by Telegram adapter)
type MessageSender interface {
	SendText(chatID int64, text string) error
}

// SendFailureReason классифицирует причину неудачной доставки.
type SendFailureReason string

const (
	SendFailureBlocked     SendFailureReason = "blocked"     // пользователь заблокировал бота
	SendFailureDeactivated SendFailureReason = "deactivated" // аккаунт удалён
	SendFailureNotFound    SendFailureReason = "not_found"   // чат не найден
	SendFailureTransport   SendFailureReason = "transport"   // сетевая/прочая ошибка
)

// DeliveryError — типизированный результат неудачной отправки одному получателю.
type DeliveryError struct {
	ChatID int64
	Reason SendFailureReason
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("send to chat %d failed (%s): %v", e.ChatID, e.Reason, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
