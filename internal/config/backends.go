package config

import "time"

type Postgres struct {
	DSN             string        `env:"DATABASE_URL" envDefault:"postgres://user:password@db:5432/pr_reviews?sslmode=disable" validate:"required"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"4"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"16"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type Redis struct {
	Addr        string `env:"REDIS_ADDR" envDefault:"localhost:6379" validate:"required"`
	Concurrency int    `env:"WORKER_CONCURRENCY" envDefault:"4" validate:"gte=1"`
}

type Forge struct {
	Kind    string `env:"FORGE_KIND" envDefault:"github" validate:"oneof=github gitlab"`
	Token   string `env:"FORGE_TOKEN"`
	BaseURL string `env:"FORGE_API_URL"`
}

type Anthropic struct {
	APIKey string `env:"ANTHROPIC_API_KEY"`
	Model  string `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku-4-5-20251001"`
}
