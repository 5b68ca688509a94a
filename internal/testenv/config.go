package testenv

import (
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"golang.org/x/crypto/bcrypt"
)

// Headers and paths used by test environments
const (
	AuthTokenHeader     = "shopfront-auth-token"
	ChannelTokenHeader  = "shopfront-token"
	DefaultChannelToken = "e2e-default-channel"
	SuperadminUsername  = "superadmin"
	SuperadminPassword  = "superadmin"
)

// TestConfig returns the base configuration of a test environment: an sqlite
// database, no Redis, quiet logging and cheap password hashing.
func TestConfig() *config.Config {
	cfg := &config.Config{
		App: config.AppConfig{Name: "shopfront-test", Env: "test"},
		Database: config.DatabaseConfig{
			Type:           "sqlite",
			Path:           ":memory:",
			ConnectTimeout: 5 * time.Second,
			SlowQuery:      time.Second,
		},
		Auth: config.AuthConfig{
			TokenSecret:        "test-token-secret",
			SessionDuration:    24 * time.Hour,
			SessionCacheTTL:    time.Minute,
			AuthTokenHeader:    AuthTokenHeader,
			BcryptCost:         bcrypt.MinCost,
			SuperadminUsername: SuperadminUsername,
			SuperadminPassword: SuperadminPassword,
		},
		Log: config.LogConfig{Level: "error", Format: "console", Output: "stdout"},
		API: config.APIConfig{
			ChannelTokenHeader:  ChannelTokenHeader,
			DefaultChannelToken: DefaultChannelToken,
			CurrencyCode:        "USD",
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

// MergeConfig returns a copy of base with the non-zero fields of override applied.
// Zero values in override keep the base value.
func MergeConfig(base, override *config.Config) (*config.Config, error) {
	merged := *base
	if override == nil {
		return &merged, nil
	}
	if err := mergo.Merge(&merged, *override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}
	return &merged, nil
}
