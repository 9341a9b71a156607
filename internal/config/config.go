package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`
	BaseURL    string `env:"BASE_URL" env-default:"http://localhost:8080"`

	MySQLDSN string `env:"MYSQL_DSN" env-default:"user:password@tcp(localhost:3306)/quill?charset=utf8mb4&parseTime=True&loc=Local"`

	RedisAddr string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" env-default:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	// SecretKey signs both session cookies and password reset tokens.
	SecretKey     string        `env:"SECRET_KEY" env-default:"change-me"`
	SessionTTL    time.Duration `env:"SESSION_TTL" env-default:"24h"`
	RememberTTL   time.Duration `env:"REMEMBER_TTL" env-default:"720h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" env-default:"30m"`

	SMTPHost     string `env:"SMTP_HOST" env-default:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailSender   string `env:"MAIL_SENDER" env-default:"no-reply@quill.local"`

	UploadDir string `env:"UPLOAD_DIR" env-default:"static/headshots"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
