package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shopfront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "3000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Type)
		assert.Equal(t, "shopfront.sqlite", cfg.Database.Path)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "shopfront-auth-token", cfg.Auth.AuthTokenHeader)
		assert.Equal(t, "shopfront-token", cfg.API.ChannelTokenHeader)
		assert.Equal(t, "/shop-api", cfg.API.ShopAPIPath)
		assert.Equal(t, "/admin-api", cfg.API.AdminAPIPath)
		assert.Equal(t, 365*24*time.Hour, cfg.Auth.SessionDuration)
		assert.True(t, cfg.Auth.RequireVerification)
		assert.Equal(t, "superadmin", cfg.Auth.SuperadminUsername)
		assert.False(t, cfg.Jobs.Enabled)
		assert.Equal(t, time.Hour, cfg.Jobs.SessionCleanupInterval)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, "shopfront", cfg.Telemetry.ServiceName)
	})

	t.Run("explicit zero sampling ratio is kept", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SHOP_TELEMETRY_ENABLED", "true")
		t.Setenv("SHOP_TELEMETRY_SAMPLING_RATIO", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.Enabled)
		assert.Zero(t, cfg.Telemetry.SamplingRatio)
	})

	t.Run("loads values from environment variables with SHOP prefix", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SHOP_APP_PORT", "9000")
		t.Setenv("SHOP_DATABASE_TYPE", "postgres")
		t.Setenv("SHOP_DATABASE_HOST", "db.local")
		t.Setenv("SHOP_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("SHOP_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("SHOP_AUTH_REQUIRE_VERIFICATION", "false")
		t.Setenv("SHOP_ORDER_MAX_QUANTITY_PER_LINE", "5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Type)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Auth.RequireVerification)
		assert.Equal(t, 5, cfg.Order.MaxQuantityPerLine)
	})

	t.Run("rejects unknown database type", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SHOP_DATABASE_TYPE", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.type")
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.toml")
	content := `
[app]
name = "garden-shop"

[database]
type = "sqlite"
path = ":memory:"

[api]
prices_include_tax = true
currency_code = "EUR"

[log]
level = "debug"

[jobs]
enabled = true
session_cleanup_interval = "15m"

[telemetry]
enabled = true
collector_endpoint = "otel-collector:4317"
sampling_ratio = 0.25
db_trace_enabled = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "garden-shop", cfg.App.Name)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.True(t, cfg.API.PricesIncludeTax)
	assert.Equal(t, "EUR", cfg.API.CurrencyCode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Jobs.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Jobs.SessionCleanupInterval)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.True(t, cfg.Telemetry.DBTraceEnabled)
	assert.Equal(t, "otel-collector:4317", cfg.Telemetry.CollectorEndpoint)
	assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, "garden-shop", cfg.Telemetry.ServiceName)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"idle exceeds open", func(c *Config) { c.Database.MaxIdleConns = 100 }, "max_idle_conns"},
		{"enabled jobs need workers", func(c *Config) {
			c.Jobs.Enabled = true
			c.Jobs.Workers = -1
		}, "jobs.workers"},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 2 }, "bcrypt_cost"},
		{"sampling ratio above one", func(c *Config) { c.Telemetry.SamplingRatio = 1.5 }, "sampling_ratio"},
		{"production hides sql variables", func(c *Config) {
			c.App.Env = "production"
			c.Auth.TokenSecret = "0123456789abcdef0123456789abcdef"
			c.Auth.SuperadminPassword = "s3cret"
			c.Telemetry.DBLogFullSQL = true
		}, "db_log_full_sql"},
		{"production needs secret", func(c *Config) { c.App.Env = "production" }, "token_secret"},
		{"production needs new superadmin password", func(c *Config) {
			c.App.Env = "production"
			c.Auth.TokenSecret = "0123456789abcdef0123456789abcdef"
		}, "superadmin_password"},
		{"production postgres needs ssl", func(c *Config) {
			c.App.Env = "production"
			c.Auth.TokenSecret = "0123456789abcdef0123456789abcdef"
			c.Auth.SuperadminPassword = "s3cret"
			c.Database.Type = "postgres"
		}, "sslmode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "shop", Password: "p@ss word", DBName: "shopfront", SSLMode: "require"}
	assert.Equal(t, "postgres://shop:p%40ss%20word@db:5432/shopfront?sslmode=require", d.DSN())
}
