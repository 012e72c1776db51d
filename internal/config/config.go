package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	FrontendURL string `env:"FRONTEND_URL"`

	OwnedCacheTTL time.Duration `env:"OWNED_CACHE_TTL" envDefault:"5m"`

	// BaseScopeIncludeSubscribed switches base personalization to the
	// union-with-subscribed policy. Default is ownership-only.
	BaseScopeIncludeSubscribed bool `env:"BASE_SCOPE_INCLUDE_SUBSCRIBED" envDefault:"false"`

	NotifyBatchSize  int `env:"NOTIFY_BATCH_SIZE" envDefault:"50"`
	NotifyMaxRetries int `env:"NOTIFY_MAX_RETRIES" envDefault:"3"`
}

// Load reads .env when present, then parses the typed config from the
// environment. DATABASE_URL and REDIS_URL stay with the db package.
func Load() (Config, error) {
	godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
