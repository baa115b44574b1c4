package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	SQLite  SQLiteConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	// Secret signs the session cookie token. Required outside development.
	Secret string `env:"SESSION_SECRET, default=dev-session-secret"`
	// TTL bounds how long an idle session stays valid.
	TTL time.Duration `env:"SESSION_TTL, default=24h"`
	// Backend selects the server-side session store: memory or redis.
	Backend string `env:"SESSION_BACKEND, default=memory"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=todo_database.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
