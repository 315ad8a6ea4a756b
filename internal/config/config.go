package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.groq.com/openai/v1"`
	ModelName     string `envconfig:"MODEL_NAME" default:"llama-3.1-8b-instant"`
	// Верхняя граница ответа провайдера
	MaxCompletionTokens int `envconfig:"MAX_COMPLETION_TOKENS" default:"700"`

	// Единственный оператор, которому доступны /stats, /broadcast и /usage
	OwnerID int64 `envconfig:"OWNER_ID"`

	CooldownSeconds  int `envconfig:"COOLDOWN_SECONDS" default:"5"`
	BroadcastDelayMS int `envconfig:"BROADCAST_DELAY_MS" default:"30"`

	SQLiteDSN string `envconfig:"CHATS_SQLITE_DSN" default:"chats.db"`

	HealthAddr string `envconfig:"HEALTH_ADDR" default:":8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c Config) BroadcastDelay() time.Duration {
	return time.Duration(c.BroadcastDelayMS) * time.Millisecond
}
