package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config captures the environment driven configuration for the room lending
// service. A YAML file may supply the same fields; environment variables win.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr" env:"ROOMLENDING_HTTP_ADDR" env-default:":8080"`
	HorizonDays     int           `yaml:"horizon_days" env:"ROOMLENDING_HORIZON_DAYS" env-default:"3"`
	SessionTTL      time.Duration `yaml:"session_ttl" env:"ROOMLENDING_SESSION_TTL" env-default:"24h"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"ROOMLENDING_SHUTDOWN_TIMEOUT" env-default:"10s"`
	LogLevel        string        `yaml:"log_level" env:"ROOMLENDING_LOG_LEVEL" env-default:"info"`
}

// Horizon returns the slot grid horizon as a duration.
func (c Config) Horizon() time.Duration {
	return time.Duration(c.HorizonDays) * 24 * time.Hour
}

// Load reads configuration from the environment, optionally layered over the
// YAML file named by ROOMLENDING_CONFIG_PATH.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv("ROOMLENDING_CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from environment: %w", err)
	}

	if cfg.HorizonDays <= 0 {
		return Config{}, fmt.Errorf("horizon days must be positive, got %d", cfg.HorizonDays)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("session ttl must be positive, got %s", cfg.SessionTTL)
	}

	return cfg, nil
}
