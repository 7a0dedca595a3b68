package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
server:
  host: "127.0.0.1"
  port: 8080
database:
  host: "db"
  port: 5432
  user: "rentals"
  password: "secret"
  database: "appliance_rentals"
jwt:
  secret: "0123456789abcdef0123456789abcdef"
storage:
  upload_dir: "/tmp/uploads"
rental:
  tx_timeout: 2s
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Storage.Type)
	assert.Equal(t, 8081, cfg.GRPC.Port)
	assert.Equal(t, 30, cfg.Rental.MinDurationDays)
	assert.Equal(t, 2*time.Second, cfg.Rental.TxTimeout)
	assert.Equal(t, "inr", cfg.Stripe.Currency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "0 0 8 * * *", cfg.Scheduler.SendReturnReminders)
	assert.Equal(t, "postgres://rentals:secret@db:5432/appliance_rentals?sslmode=disable", cfg.GetDatabaseConnectionString())
	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
	assert.Equal(t, "127.0.0.1:8081", cfg.GetGRPCAddress())
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "override-host")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RENTAL_MIN_DURATION_DAYS", "45")
	t.Setenv("STORAGE_ALLOWED_TYPES", "image/png,image/webp")

	cfg, err := Parse([]byte(baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "override-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 45, cfg.Rental.MinDurationDays)
	assert.Equal(t, []string{"image/png", "image/webp"}, cfg.Storage.AllowedTypes)
	// Untouched by env
	assert.Equal(t, "rentals", cfg.Database.User)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{"Bad port", "server:\n  port: 0\n", "invalid server port"},
		{"Missing database", "server:\n  port: 8080\n", "database host is required"},
		{"Short secret", strings.Replace(baseYAML, "0123456789abcdef0123456789abcdef", "short", 1), "at least 32 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("Unsupported storage", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "azure")
		_, err := Parse([]byte(baseYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported storage type")
	})

	t.Run("S3 requires bucket", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "s3")
		_, err := Parse([]byte(baseYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3 bucket is required")
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(baseYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
