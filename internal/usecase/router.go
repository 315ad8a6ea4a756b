package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"study-assistant-telegram-bot/internal/domain"
)

// Входящее событие транспорта, уже независимое от Telegram

type InboundMessage struct {
	ChatID      int64
	ChatKind    domain.ChatKind
	DisplayName string
	SenderID    int64
	FromSelf    bool
	Text        string
	ReplyTo     *QuotedMessage
}

// QuotedMessage — сообщение, на которое отвечает входящее (если есть)
type QuotedMessage struct {
	SenderID int64
	FromSelf bool
	Text     string
}

type Outcome int

const (
	OutcomeSilent Outcome = iota
	OutcomeAnswered
	OutcomeNotice
)

// Decision — терминальное решение по одному событию: молчание либо ровно один ответ.
type Decision struct {
	Outcome Outcome
	Reply   string
}

// Completer — шлюз к генерации текста. Всегда возвращает готовую строку,
// при сбоях провайдера — фиксированную заглушку (ошибки наружу не выходят).
type Completer interface {
	Complete(ctx context.Context, prompt, mode string) string
}

// Broadcaster запускает рассылку от имени запрашивающего.
type Broadcaster interface {
	Run(ctx context.Context, text string, requesterID int64) (BroadcastResult, error)
}

// UsageRecorder копит статистику по режимам для владельца; необязательный.
type UsageRecorder interface {
	Reach(userID int64, mode string)
}

type studyCommand struct {
	mode          string
	usage         string
	fixedPrompt   string
	replyFallback bool // брать текст процитированного сообщения, если аргументов нет
}

var studyCommands = map[string]studyCommand{
	"notes":          {mode: "notes", usage: "Use: /notes <topic>"},
	"explain":        {mode: "explain", usage: "Use: /explain <topic>"},
	"mcq":            {mode: "mcq", usage: "Use: /mcq <topic>"},
	"summary":        {mode: "summary", usage: "Reply or /summary <text>", replyFallback: true},
	"solve":          {mode: "solve", usage: "Use: /solve <question>"},
	"quiz":           {mode: "quiz", usage: "Use: /quiz <topic>"},
	"currentaffairs": {mode: "current", fixedPrompt: "current affairs"},
}

const welcomeText = "Hey! I am an AI study bot.\n" +
	"Send me a question directly in private.\n" +
	"In groups, mention me with your question."

func helpText() string {
	return "Commands:\n" +
		"/notes <topic>\n" +
		"/explain <topic>\n" +
		"/mcq <topic>\n" +
		"/summary <text or reply>\n" +
		"/solve <question>\n" +
		"/quiz <topic>\n" +
		"/currentaffairs\n\n" +
		"Owner:\n" +
		"/stats\n" +
		"/broadcast <msg>"
}

// Router принимает каждое входящее событие и решает: молчать, ответить
// уведомлением или ответить сгенерированным текстом.
type Router struct {
	registry    domain.ChatRegistry
	limiter     *RateLimiter
	completer   Completer
	broadcaster Broadcaster
	stats       BroadcastStatRepository
	usage       UsageRecorder
	botHandle   string
	ownerID     int64
	logger      *slog.Logger
	now         func() time.Time
}

func NewRouter(registry domain.ChatRegistry, limiter *RateLimiter, completer Completer, broadcaster Broadcaster, stats BroadcastStatRepository, usage UsageRecorder, botHandle string, ownerID int64, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry:    registry,
		limiter:     limiter,
		completer:   completer,
		broadcaster: broadcaster,
		stats:       stats,
		usage:       usage,
		botHandle:   strings.TrimPrefix(botHandle, "@"),
		ownerID:     ownerID,
		logger:      logger,
		now:         time.Now,
	}
}

func (r *Router) Handle(ctx context.Context, msg InboundMessage) Decision {
	// Присутствие чата фиксируется всегда, даже если сообщение будет проигнорировано
	r.register(msg)

	if msg.FromSelf {
		return Decision{Outcome: OutcomeSilent}
	}

	text := strings.TrimSpace(msg.Text)
	mention := "@" + r.botHandle

	if msg.ChatKind != domain.ChatKindPrivate {
		mentioned := strings.Contains(strings.ToLower(text), strings.ToLower(mention))
		replyToBot := msg.ReplyTo != nil && msg.ReplyTo.FromSelf
		if !mentioned && !replyToBot {
			return Decision{Outcome: OutcomeSilent}
		}
		// Голое упоминание без вопроса — подсказка без списания кулдауна
		if strings.EqualFold(text, mention) {
			return notice(fmt.Sprintf("Add your question after the mention, e.g. %s explain gravity.", mention))
		}
	}

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(ctx, msg, text)
	}
	return r.answer(ctx, msg, text, "default")
}

func (r *Router) handleCommand(ctx context.Context, msg InboundMessage, text string) Decision {
	cmd, args := splitCommand(text, r.botHandle)
	switch cmd {
	case "start":
		return Decision{Outcome: OutcomeAnswered, Reply: welcomeText}
	case "help":
		return Decision{Outcome: OutcomeAnswered, Reply: helpText()}
	case "stats":
		if msg.SenderID != r.ownerID {
			return Decision{Outcome: OutcomeSilent}
		}
		return r.statsReply()
	case "broadcast":
		if msg.SenderID != r.ownerID {
			return Decision{Outcome: OutcomeSilent}
		}
		if args == "" {
			return notice("Use: /broadcast <msg>")
		}
		res, err := r.broadcaster.Run(ctx, args, msg.SenderID)
		switch {
		case errors.Is(err, ErrNotOperator):
			return Decision{Outcome: OutcomeSilent}
		case err != nil:
			r.logger.Error("broadcast failed", "error", err)
			return notice("Broadcast aborted: user list unavailable.")
		}
		return notice(res.Report())
	}

	sc, ok := studyCommands[cmd]
	if !ok {
		return Decision{Outcome: OutcomeSilent}
	}
	prompt := args
	if prompt == "" && sc.replyFallback && msg.ReplyTo != nil {
		prompt = strings.TrimSpace(msg.ReplyTo.Text)
	}
	if prompt == "" {
		prompt = sc.fixedPrompt
	}
	// Ошибка использования не списывает кулдаун и не доходит до шлюза
	if prompt == "" {
		return notice(sc.usage)
	}
	return r.answer(ctx, msg, prompt, sc.mode)
}

// answer — единственный путь, который тратит кулдаун и обращается к шлюзу
func (r *Router) answer(ctx context.Context, msg InboundMessage, prompt, mode string) Decision {
	if wait := r.limiter.CheckAndMark(msg.SenderID, r.now()); wait > 0 {
		secs := int((wait + time.Second - 1) / time.Second)
		return notice(fmt.Sprintf("Slow down… %d sec wait.", secs))
	}
	reply := r.completer.Complete(ctx, prompt, mode)
	if r.usage != nil {
		r.usage.Reach(msg.SenderID, mode)
	}
	return Decision{Outcome: OutcomeAnswered, Reply: reply}
}

func (r *Router) statsReply() Decision {
	users, err := r.registry.CountByKind(domain.ChatKindPrivate)
	if err != nil {
		return notice("Stats unavailable: chat store is down.")
	}
	groups, err := r.registry.CountByKind(domain.ChatKindGroup)
	if err != nil {
		return notice("Stats unavailable: chat store is down.")
	}
	reply := fmt.Sprintf("Users: %d\nGroups: %d", users, groups)
	if recent := r.recentBroadcasts(recentRunsShown); recent != "" {
		reply += "\n\n" + recent
	}
	return notice(reply)
}

// recentRunsShown — сколько последних рассылок показываем в /stats.
const recentRunsShown = 5

func (r *Router) recentBroadcasts(n int) string {
	if r.stats == nil {
		return ""
	}
	runs, err := r.stats.ListRecent(n)
	if err != nil {
		// история рассылок вторична, счётчики чатов важнее
		r.logger.Error("broadcast history unavailable", "error", err)
		return ""
	}
	if len(runs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent broadcasts:")
	for i, run := range runs {
		fmt.Fprintf(&b, "\n%d) %s - sent: %d, failed: %d (of %d)",
			i+1, run.CreatedAt.Format("2006-01-02 15:04"), run.Sent, run.Failed, run.Total)
	}
	return b.String()
}

func (r *Router) register(msg InboundMessage) {
	if err := r.registry.Register(msg.ChatID, msg.ChatKind, msg.DisplayName, r.now()); err != nil {
		// ответ пользователю не блокируем
		r.logger.Error("chat register failed", "chat_id", msg.ChatID, "error", err)
	}
}

func notice(text string) Decision {
	return Decision{Outcome: OutcomeNotice, Reply: text}
}

// splitCommand отделяет токен команды от аргументов и срезает адресный суффикс
// "@имябота" (телеграмная форма команд в группах). Чужой суффикс не срезается —
// такая команда адресована другому боту и останется неизвестной.
func splitCommand(text, botHandle string) (string, string) {
	cmd, args := text, ""
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		cmd, args = text[:i], strings.TrimSpace(text[i+1:])
	}
	cmd = strings.TrimPrefix(cmd, "/")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		if botHandle != "" && strings.EqualFold(cmd[i+1:], botHandle) {
			cmd = cmd[:i]
		}
	}
	return strings.ToLower(cmd), args
}
