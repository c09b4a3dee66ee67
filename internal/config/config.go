package config

import (
	"errors"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI  string `env:"MONGODB_URI" env-required:"true"`
	DBName    string `env:"DB_NAME" env-default:"qr_feedback"`
	JWTSecret string `env:"JWT_SECRET" env-required:"true"`
	Port      string `env:"PORT" env-default:"5000"`

	// BaseURL is the public origin encoded into QR codes.
	BaseURL   string        `env:"BASE_URL" env-default:"http://localhost:5000"`
	QRCodeDir string        `env:"QR_CODE_DIR" env-default:"public/qrcodes"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"1h"`

	RedisURL            string        `env:"REDIS_URL"`
	PerformanceCacheTTL time.Duration `env:"PERFORMANCE_CACHE_TTL" env-default:"30s"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"FROM_EMAIL"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads .env (ignored when absent) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.QRCodeDir == "" {
		return errors.New("QR_CODE_DIR must not be empty")
	}
	return nil
}
