package telegram

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"study-assistant-telegram-bot/internal/domain"
)

const selfID int64 = 1

func TestEventFromMessage_Private(t *testing.T) {
	req := require.New(t)
	m := &tgbotapi.Message{
		MessageID: 7,
		Chat:      &tgbotapi.Chat{ID: 42, Type: "private"},
		From:      &tgbotapi.User{ID: 42, UserName: "alice"},
		Text:      "hello",
	}

	msg := eventFromMessage(m, selfID)

	req.Equal(int64(42), msg.ChatID)
	req.Equal(domain.ChatKindPrivate, msg.ChatKind)
	req.Equal("alice", msg.DisplayName)
	req.Equal(int64(42), msg.SenderID)
	req.False(msg.FromSelf)
	req.Equal("hello", msg.Text)
	req.Nil(msg.ReplyTo)
}

func TestEventFromMessage_GroupWithReply(t *testing.T) {
	req := require.New(t)
	m := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: -100, Type: "supergroup", Title: "study group"},
		From: &tgbotapi.User{ID: 42},
		Text: "why?",
		ReplyToMessage: &tgbotapi.Message{
			From: &tgbotapi.User{ID: selfID},
			Text: "previous answer",
		},
	}

	msg := eventFromMessage(m, selfID)

	req.Equal(domain.ChatKindGroup, msg.ChatKind)
	req.Equal("study group", msg.DisplayName)
	req.NotNil(msg.ReplyTo)
	req.True(msg.ReplyTo.FromSelf)
	req.Equal("previous answer", msg.ReplyTo.Text)
}

func TestEventFromMessage_SelfFlag(t *testing.T) {
	m := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42, Type: "private"},
		From: &tgbotapi.User{ID: selfID, UserName: "studybot"},
		Text: "echo",
	}
	require.True(t, eventFromMessage(m, selfID).FromSelf)
}

func TestClassifySendError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		reason domain.SendFailureReason
	}{
		{"blocked", &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}, domain.SendFailureBlocked},
		{"deactivated", &tgbotapi.Error{Code: 403, Message: "Forbidden: user is deactivated"}, domain.SendFailureDeactivated},
		{"not found", &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}, domain.SendFailureNotFound},
		{"transport", errors.New("connection reset"), domain.SendFailureTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			err := classifySendError(5, tc.err)
			var de *domain.DeliveryError
			req.ErrorAs(err, &de)
			req.Equal(tc.reason, de.Reason)
			req.Equal(int64(5), de.ChatID)
		})
	}
}

func TestClassifySendError_NilPassesThrough(t *testing.T) {
	require.NoError(t, classifySendError(5, nil))
}

func TestIsUsageCommand(t *testing.T) {
	req := require.New(t)
	req.True(isUsageCommand("/usage"))
	req.True(isUsageCommand("/usage extra"))
	req.True(isUsageCommand("/usage@StudyBot"))
	req.False(isUsageCommand("/stats"))
	req.False(isUsageCommand("usage"))
}

func TestServesUsage(t *testing.T) {
	const owner int64 = 777
	private := &tgbotapi.Chat{ID: owner, Type: "private"}
	group := &tgbotapi.Chat{ID: -100, Type: "supergroup", Title: "study group"}

	cases := []struct {
		name string
		msg  *tgbotapi.Message
		want bool
	}{
		{"owner in private", &tgbotapi.Message{Chat: private, From: &tgbotapi.User{ID: owner}, Text: "/usage"}, true},
		{"owner addressed form", &tgbotapi.Message{Chat: private, From: &tgbotapi.User{ID: owner}, Text: "/usage@StudyBot"}, true},
		{"owner in group stays gated", &tgbotapi.Message{Chat: group, From: &tgbotapi.User{ID: owner}, Text: "/usage"}, false},
		{"non-owner in private", &tgbotapi.Message{Chat: private, From: &tgbotapi.User{ID: 42}, Text: "/usage"}, false},
		{"other command", &tgbotapi.Message{Chat: private, From: &tgbotapi.User{ID: owner}, Text: "/stats"}, false},
		{"missing sender", &tgbotapi.Message{Chat: private, Text: "/usage"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, servesUsage(tc.msg, owner))
		})
	}
}
