package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	telegramAdapter "study-assistant-telegram-bot/internal/adapter/telegram"
	"study-assistant-telegram-bot/internal/config"
	"study-assistant-telegram-bot/internal/infra/failover"
	"study-assistant-telegram-bot/internal/infra/groq"
	"study-assistant-telegram-bot/internal/infra/memory"
	sqliteRepo "study-assistant-telegram-bot/internal/infra/sqlite"
	"study-assistant-telegram-bot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := newLogger(cfg.LogLevel)

	go func() {
		_ = http.ListenAndServe(cfg.HealthAddr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
	}()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("bot init error: %v", err)
	}
	bot.Debug = false
	logger.Info("authorized", "username", bot.Self.UserName)

	db, err := sqliteRepo.Open(cfg.SQLiteDSN)
	if err != nil {
		log.Fatalf("sqlite init error: %v", err)
	}
	defer db.Close()

	chatRepo, err := sqliteRepo.NewChatRepo(db)
	if err != nil {
		log.Fatalf("chat repo init error: %v", err)
	}
	// При отказе sqlite реестр деградирует до набора в памяти, ответы не блокируются
	registry := failover.NewChatRegistry(chatRepo, memory.NewChatRepo(), logger)

	sqliteStats, err := sqliteRepo.NewBroadcastStatRepo(db)
	if err != nil {
		log.Fatalf("broadcast stat repo init error: %v", err)
	}
	statRepo := failover.NewBroadcastStatRepo(sqliteStats, memory.NewBroadcastStatRepo(), logger)

	sqliteUsage, err := sqliteRepo.NewUsageRepo(db)
	if err != nil {
		log.Fatalf("usage repo init error: %v", err)
	}
	usageRepo := failover.NewUsageRepo(sqliteUsage, memory.NewUsageRepo(), logger)

	completer := groq.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName, cfg.MaxCompletionTokens, logger)
	sender := telegramAdapter.NewSender(bot)
	limiter := usecase.NewRateLimiter(cfg.Cooldown())
	usageUC := usecase.NewUsageUsecase(usageRepo)
	broadcastUC := usecase.NewBroadcastUsecase(registry, sender, statRepo, cfg.OwnerID, cfg.BroadcastDelay(), logger)
	router := usecase.NewRouter(registry, limiter, completer, broadcastUC, statRepo, usageUC, bot.Self.UserName, cfg.OwnerID, logger)

	handler := telegramAdapter.NewHandler(bot, router, usageUC, cfg.OwnerID, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("bot started")
	handler.Run(ctx)
	logger.Info("bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
