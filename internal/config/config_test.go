package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
database:
  host: localhost
  name: dealwarden
  user: dw
itad:
  api_key: test-key
auth:
  jwt_secret: test-secret
`

func TestLoad_MinimalWithDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.PoolSize)
	assert.Equal(t, "https://api.isthereanydeal.com", cfg.ITAD.BaseURL)
	assert.Equal(t, 200, cfg.ITAD.BatchSize)
	assert.Equal(t, 4.0, cfg.ITAD.RateLimit.PerSecond)
	assert.Equal(t, time.Hour, cfg.Schedule.RefreshInterval)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DW_TEST_API_KEY", "expanded-key")
	t.Setenv("DW_TEST_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
database:
  host: localhost
  name: dealwarden
  user: dw
  password: ${DW_TEST_DB_PASSWORD}
itad:
  api_key: ${DW_TEST_API_KEY}
auth:
  jwt_secret: test-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-key", cfg.ITAD.APIKey)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing database host",
			content: `
database:
  name: dealwarden
  user: dw
itad:
  api_key: k
auth:
  jwt_secret: s
`,
			wantErr: "database.host is required",
		},
		{
			name: "missing itad api key",
			content: `
database:
  host: localhost
  name: dealwarden
  user: dw
auth:
  jwt_secret: s
`,
			wantErr: "itad.api_key is required",
		},
		{
			name: "missing jwt secret",
			content: `
database:
  host: localhost
  name: dealwarden
  user: dw
itad:
  api_key: k
`,
			wantErr: "auth.jwt_secret is required",
		},
		{
			name: "discord enabled without webhook",
			content: `
database:
  host: localhost
  name: dealwarden
  user: dw
itad:
  api_key: k
auth:
  jwt_secret: s
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	d := DatabaseConfig{
		Host: "db", Port: 5433, Name: "dealwarden",
		User: "dw", Password: "pw", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db port=5433 dbname=dealwarden user=dw password=pw sslmode=require",
		d.DSN(),
	)
}
