package config

import (
	"fmt"
	"time"

	"github.com/iamvkosarev/canned-chat/internal/validation"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StatsStorageMemory = "memory"
	StatsStorageRedis  = "redis"
)

type HTTP struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":3000" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"HTTP_MAX_BODY_BYTES" env-default:"1048576" validate:"gt=0"`
}

// Responder controls the simulated latency before every reply.
// The delay is drawn uniformly from [MinDelay, MaxDelay).
type Responder struct {
	MinDelay time.Duration `yaml:"min_delay" env:"RESPONDER_MIN_DELAY" env-default:"500ms" validate:"gte=0"`
	MaxDelay time.Duration `yaml:"max_delay" env:"RESPONDER_MAX_DELAY" env-default:"1500ms" validate:"gtefield=MinDelay"`
}

type Stats struct {
	Storage string `yaml:"storage" env:"STATS_STORAGE" env-default:"memory" validate:"oneof=memory redis"`
}

type Redis struct {
	Endpoint string `yaml:"endpoint" env:"REDIS_ENDPOINT" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0" validate:"gte=0"`
	StatsKey string `yaml:"stats_key" env:"REDIS_STATS_KEY" env-default:"reply_stats" validate:"required"`
}

type Telegram struct {
	TelegramAPIToken string        `env:"TELEGRAM_APITOKEN"`
	PollTimeout      int           `yaml:"poll_timeout_seconds" env:"TELEGRAM_POLL_TIMEOUT" env-default:"60" validate:"gt=0"`
	SendInterval     time.Duration `yaml:"send_interval" env:"TELEGRAM_SEND_INTERVAL" env-default:"1s" validate:"gt=0"`
	SendBurst        int           `yaml:"send_burst" env:"TELEGRAM_SEND_BURST" env-default:"3" validate:"min=1"`
}

func (t Telegram) Enabled() bool {
	return t.TelegramAPIToken != ""
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=off error warn warning info debug OFF ERROR WARN WARNING INFO DEBUG"`
}

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Responder Responder `yaml:"responder"`
	Stats     Stats     `yaml:"stats"`
	Redis     Redis     `yaml:"redis"`
	Telegram  Telegram  `yaml:"telegram"`
	Log       Log       `yaml:"log"`
}

// LoadConfig reads cfgPath (when not empty) and then the environment.
// Environment variables win over the file.
func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath != "" {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgPath, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
	}
	if err := validation.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
