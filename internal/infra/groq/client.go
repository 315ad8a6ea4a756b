package groq

import (
	"context"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// FallbackReply возвращается пользователю при любом сбое провайдера.
// Диагностика остаётся в логах, наружу выходит только эта строка.
const FallbackReply = "AI error. Try later."

// Режим выбирает системную инструкцию; запись default гарантирована.
var modes = map[string]string{
	"notes":   "Short clean notes.",
	"explain": "Explain simple Hinglish.",
	"mcq":     "Make 5 MCQs + answer key.",
	"summary": "Summarize short bullet points.",
	"solve":   "Solve step by step.",
	"quiz":    "Make quiz 5 questions.",
	"current": "Current affairs Q&A.",
	"default": "Helpful AI assistant.",
}

// Client — шлюз к Groq (OpenAI-совместимый API).
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	logger    *slog.Logger
}

func NewClient(apiKey, baseURL, model string, maxTokens int, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = baseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Complete всегда возвращает готовый текст ответа; ошибок не бывает
// с точки зрения вызывающего — путь Answered у роутера тотален.
func (c *Client) Complete(ctx context.Context, prompt, mode string) string {
	system, ok := modes[mode]
	if !ok {
		system = modes["default"]
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Error("completion failed", "mode", mode, "error", err)
		return FallbackReply
	}
	if len(resp.Choices) == 0 {
		c.logger.Error("completion returned no choices", "mode", mode)
		return FallbackReply
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
