package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_DSN":         "postgres://localhost/blocks",
		"TELEGRAM_TOKEN": "token",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Zero(t, cfg.APITimeout)
	assert.Equal(t, 10, cfg.TablePageSize)
	assert.Equal(t, 30*24*time.Hour, cfg.ViewRetention())
	assert.Equal(t, "postgres://localhost/blocks", cfg.GetDBDSN())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_DSN":              "dsn",
		"TELEGRAM_TOKEN":      "token",
		"ENV":                 "production",
		"API_BASE_URL":        "http://localhost:8000/api/",
		"API_TIMEOUT":         "15s",
		"TABLE_PAGE_SIZE":     "5",
		"VIEW_RETENTION_DAYS": "7",
	}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "http://localhost:8000/api/", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 5, cfg.TablePageSize)
	assert.Equal(t, 7, cfg.ViewRetentionDays)
}

func TestFromEnvErrors(t *testing.T) {
	base := map[string]string{"DB_DSN": "dsn", "TELEGRAM_TOKEN": "token"}

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing dsn", "DB_DSN", ""},
		{"missing token", "TELEGRAM_TOKEN", ""},
		{"bad timeout", "API_TIMEOUT", "soon"},
		{"negative timeout", "API_TIMEOUT", "-1s"},
		{"bad page size", "TABLE_PAGE_SIZE", "0"},
		{"bad retention", "VIEW_RETENTION_DAYS", "week"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make(map[string]string, len(base)+1)
			for k, v := range base {
				values[k] = v
			}
			values[tt.key] = tt.val

			_, err := FromEnv(env(values))
			assert.Error(t, err)
		})
	}
}
