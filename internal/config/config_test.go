package config

import (
	"testing"

	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "head2head.db", cfg.DBName)
	assert.Equal(t, DefaultRoster, cfg.Roster)
	assert.Equal(t, "Europe/Istanbul", cfg.Location.String())
	assert.Empty(t, cfg.CORSOrigins)
	assert.Empty(t, cfg.Slack.Token)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":                 "9090",
		"STORE_BACKEND":        "Redis",
		"REDIS_ADDR":           "cache:6379",
		"ROSTER":               " Ann , Bob,Cem ",
		"TIMEZONE":             "UTC",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000, https://h2h.example.com,",
		"SLACK_CHANNEL_ID":     "C1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, ledger.Roster{"Ann", "Bob", "Cem"}, cfg.Roster)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, []string{"http://localhost:3000", "https://h2h.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "C1", cfg.Slack.ChannelID)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"backend":          {"STORE_BACKEND": "postgres"},
		"duplicate player": {"ROSTER": "Ann,Ann"},
		"empty player":     {"ROSTER": "Ann,,Bob"},
		"timezone":         {"TIMEZONE": "Mars/Olympus"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}
