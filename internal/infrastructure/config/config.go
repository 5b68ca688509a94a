package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Log       LogConfig
	HTTP      HTTPConfig
	API       APIConfig
	Order     OrderConfig
	Jobs      JobsConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type            string // sqlite, postgres
	Path            string // sqlite file, or ":memory:"
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	SlowQuery       time.Duration
	ConnectTimeout  time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DefaultSessionDuration is the session lifetime when none is configured
const DefaultSessionDuration = 365 * 24 * time.Hour

// AuthConfig holds session, bearer token and superadmin settings
type AuthConfig struct {
	TokenSecret         string
	TokenIssuer         string
	SessionDuration     time.Duration
	SessionCacheTTL     time.Duration
	AuthTokenHeader     string
	RequireVerification bool
	BcryptCost          int
	SuperadminUsername  string
	SuperadminPassword  string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxBodySize     int64
}

// APIConfig holds the GraphQL endpoint settings
type APIConfig struct {
	ShopAPIPath         string
	AdminAPIPath        string
	ChannelTokenHeader  string
	DefaultChannelToken string
	CurrencyCode        string
	PricesIncludeTax    bool
}

// OrderConfig holds order limits
type OrderConfig struct {
	MaxItemsPerOrder   int
	MaxQuantityPerLine int
}

// JobsConfig holds background maintenance job settings
type JobsConfig struct {
	Enabled                bool
	Workers                int
	JobTimeout             time.Duration
	RetryAttempts          int
	RetryDelay             time.Duration
	SessionCleanupInterval time.Duration
}

// TelemetryConfig holds OpenTelemetry trace and log export settings.
// Everything is off unless Enabled is set.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string // OTLP gRPC host:port
	Insecure          bool
	SamplingRatio     float64 // 0.0 to 1.0
	ServiceName       string
	DBTraceEnabled    bool
	DBLogFullSQL      bool // keeps bound variables in statement spans
	LogsEnabled       bool // ships zap records through the OTLP log bridge
}

// Load loads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SHOP_ prefix (e.g., SHOP_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from the given TOML file, or from config.toml
// in the usual locations when path is empty.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/app")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Type:            v.GetString("database.type"),
			Path:            v.GetString("database.path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			SlowQuery:       v.GetDuration("database.slow_query"),
			ConnectTimeout:  v.GetDuration("database.connect_timeout"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			TokenSecret:         v.GetString("auth.token_secret"),
			TokenIssuer:         v.GetString("auth.token_issuer"),
			SessionDuration:     v.GetDuration("auth.session_duration"),
			SessionCacheTTL:     v.GetDuration("auth.session_cache_ttl"),
			AuthTokenHeader:     v.GetString("auth.auth_token_header"),
			RequireVerification: v.GetBool("auth.require_verification"),
			BcryptCost:          v.GetInt("auth.bcrypt_cost"),
			SuperadminUsername:  v.GetString("auth.superadmin_username"),
			SuperadminPassword:  v.GetString("auth.superadmin_password"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:  v.GetInt("http.max_header_bytes"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
		},
		API: APIConfig{
			ShopAPIPath:         v.GetString("api.shop_api_path"),
			AdminAPIPath:        v.GetString("api.admin_api_path"),
			ChannelTokenHeader:  v.GetString("api.channel_token_header"),
			DefaultChannelToken: v.GetString("api.default_channel_token"),
			CurrencyCode:        v.GetString("api.currency_code"),
			PricesIncludeTax:    v.GetBool("api.prices_include_tax"),
		},
		Order: OrderConfig{
			MaxItemsPerOrder:   v.GetInt("order.max_items_per_order"),
			MaxQuantityPerLine: v.GetInt("order.max_quantity_per_line"),
		},
		Jobs: JobsConfig{
			Enabled:                v.GetBool("jobs.enabled"),
			Workers:                v.GetInt("jobs.workers"),
			JobTimeout:             v.GetDuration("jobs.job_timeout"),
			RetryAttempts:          v.GetInt("jobs.retry_attempts"),
			RetryDelay:             v.GetDuration("jobs.retry_delay"),
			SessionCleanupInterval: v.GetDuration("jobs.session_cleanup_interval"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			Insecure:          v.GetBool("telemetry.insecure"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
	}

	// "require_verification" defaults to true, so an unset key must not read as false
	if !v.IsSet("auth.require_verification") {
		cfg.Auth.RequireVerification = true
	}
	// an explicit 0 turns sampling off; unset samples everything
	if !v.IsSet("telemetry.sampling_ratio") {
		cfg.Telemetry.SamplingRatio = 1.0
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults sets default values for any empty config fields
func ApplyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopfront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "shopfront.sqlite"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "shopfront"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.SlowQuery == 0 {
		cfg.Database.SlowQuery = 200 * time.Millisecond
	}
	if cfg.Database.ConnectTimeout == 0 {
		cfg.Database.ConnectTimeout = 30 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = "shopfront"
	}
	if cfg.Auth.SessionDuration <= 0 {
		cfg.Auth.SessionDuration = DefaultSessionDuration
	}
	if cfg.Auth.SessionCacheTTL == 0 {
		cfg.Auth.SessionCacheTTL = 5 * time.Minute
	}
	if cfg.Auth.AuthTokenHeader == "" {
		cfg.Auth.AuthTokenHeader = "shopfront-auth-token"
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 12
	}
	if cfg.Auth.SuperadminUsername == "" {
		cfg.Auth.SuperadminUsername = "superadmin"
	}
	if cfg.Auth.SuperadminPassword == "" {
		cfg.Auth.SuperadminPassword = "superadmin"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20 // 2MB
	}
	if cfg.API.ShopAPIPath == "" {
		cfg.API.ShopAPIPath = "/shop-api"
	}
	if cfg.API.AdminAPIPath == "" {
		cfg.API.AdminAPIPath = "/admin-api"
	}
	if cfg.API.ChannelTokenHeader == "" {
		cfg.API.ChannelTokenHeader = "shopfront-token"
	}
	if cfg.API.DefaultChannelToken == "" {
		cfg.API.DefaultChannelToken = "default-channel-token"
	}
	if cfg.API.CurrencyCode == "" {
		cfg.API.CurrencyCode = "USD"
	}
	if cfg.Order.MaxItemsPerOrder == 0 {
		cfg.Order.MaxItemsPerOrder = 999
	}
	if cfg.Order.MaxQuantityPerLine == 0 {
		cfg.Order.MaxQuantityPerLine = 999
	}
	if cfg.Jobs.Workers == 0 {
		cfg.Jobs.Workers = 1
	}
	if cfg.Jobs.JobTimeout == 0 {
		cfg.Jobs.JobTimeout = 5 * time.Minute
	}
	if cfg.Jobs.RetryAttempts == 0 {
		cfg.Jobs.RetryAttempts = 3
	}
	if cfg.Jobs.RetryDelay == 0 {
		cfg.Jobs.RetryDelay = time.Minute
	}
	if cfg.Jobs.SessionCleanupInterval == 0 {
		cfg.Jobs.SessionCleanupInterval = time.Hour
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.type must be sqlite or postgres, got %q", c.Database.Type)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if c.Order.MaxQuantityPerLine < 1 {
		return fmt.Errorf("order.max_quantity_per_line must be positive")
	}
	if c.Jobs.Enabled && c.Jobs.Workers < 1 {
		return fmt.Errorf("jobs.workers must be positive when jobs are enabled")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if len(c.Auth.TokenSecret) < 32 {
			return fmt.Errorf("auth.token_secret must be at least 32 characters in production")
		}
		if c.Auth.SuperadminPassword == "superadmin" {
			return fmt.Errorf("auth.superadmin_password must be changed in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
		if c.Database.Type == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
