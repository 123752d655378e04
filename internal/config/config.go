package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port string `env:"POCKET_CHAT_PORT" envDefault:"8080"`

	// StoreBackend selects the key-value backend: memory, ekv or postgres.
	StoreBackend  string `env:"POCKET_CHAT_STORE" envDefault:"memory"`
	StoreDir      string `env:"POCKET_CHAT_STORE_DIR" envDefault:".pocket-chat"`
	StorePassword string `env:"POCKET_CHAT_STORE_PASSWORD" envDefault:"pocket-chat-dev"`
	PostgresDSN   string `env:"POCKET_CHAT_POSTGRES_DSN"`

	AMQPURL      string `env:"POCKET_CHAT_AMQP_URL"`
	AMQPExchange string `env:"POCKET_CHAT_AMQP_EXCHANGE" envDefault:"chat.events"`

	UsersPollInterval    time.Duration `env:"POCKET_CHAT_USERS_POLL" envDefault:"5s"`
	ChatsPollInterval    time.Duration `env:"POCKET_CHAT_CHATS_POLL" envDefault:"3s"`
	MessagesPollInterval time.Duration `env:"POCKET_CHAT_MESSAGES_POLL" envDefault:"2s"`

	AutoReply      bool          `env:"POCKET_CHAT_AUTO_REPLY" envDefault:"true"`
	AutoReplyDelay time.Duration `env:"POCKET_CHAT_AUTO_REPLY_DELAY" envDefault:"2s"`

	Debug bool `env:"POCKET_CHAT_DEBUG" envDefault:"false"`

	OTLPEndpoint string `env:"POCKET_CHAT_OTLP_ENDPOINT"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreBackend {
	case "memory", "ekv", "postgres":
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend == "postgres" && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("postgres backend requires POCKET_CHAT_POSTGRES_DSN")
	}
	return cfg, nil
}
