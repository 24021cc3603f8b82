package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"ImpactReport"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Report struct {
		Locale string  `envconfig:"REPORT_LOCALE" default:"ja"`
		Alpha  float64 `envconfig:"REPORT_ALPHA" default:"0.05"`
	}

	Model struct {
		URL     string        `envconfig:"MODEL_URL"`
		Token   string        `envconfig:"MODEL_TOKEN"`
		Timeout time.Duration `envconfig:"MODEL_TIMEOUT" default:"120s"`
	}

	DB struct {
		Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"impactreport"`
	}

	Server struct {
		Timeout       time.Duration `envconfig:"SERVER_TIMEOUT" default:"180s"`
		MaxUploadSize int64         `envconfig:"SERVER_MAX_UPLOAD_BYTES" default:"33554432"`
	}

	Auth struct {
		// JWTSecret enables bearer authentication on the API when set.
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	Log struct {
		// File receives diagnostics from the TUI, which cannot log to the terminal.
		File string `envconfig:"LOG_FILE"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
