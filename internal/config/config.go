package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/head2head/internal/ledger"
)

// DefaultRoster is used when ROSTER is not set.
var DefaultRoster = ledger.Roster{"Fatih", "Oğuz", "Abdullah", "Bahadır"}

// Load reads configuration from environment variables and .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the signature of os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	cfg := Config{
		Port:    getEnv("PORT", "8080"),
		Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		DBName:  getEnv("DB_NAME", "head2head.db"),
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
			Key:  getEnv("REDIS_KEY", ""),
		},
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnv("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		},
		ProjectID:   getEnv("GCP_PROJECT", ""),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	if cfg.Backend != BackendSQLite && cfg.Backend != BackendRedis {
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}

	cfg.Roster = DefaultRoster
	if raw := getEnv("ROSTER", ""); raw != "" {
		roster, err := ledger.NewRoster(strings.Split(raw, ","))
		if err != nil {
			return Config{}, fmt.Errorf("invalid ROSTER: %w", err)
		}
		cfg.Roster = roster
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Europe/Istanbul"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
