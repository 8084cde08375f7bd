package config

import (
	"time"

	"github.com/mauv0809/head2head/internal/ledger"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all configuration for the application.
type Config struct {
	Port        string
	Roster      ledger.Roster
	Location    *time.Location
	Backend     string
	DBName      string
	Turso       TursoConfig
	Redis       RedisConfig
	Slack       SlackConfig
	ProjectID   string
	CORSOrigins []string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RedisConfig struct {
	Addr string
	Key  string
}
