package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	KeyPolicy KeyPolicyConfig `yaml:"key_policy"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SendGridConfig contains email notification settings
type SendGridConfig struct {
	APIKey      string `yaml:"api_key"`
	FromEmail   string `yaml:"from_email"`
	FromName    string `yaml:"from_name"`
	NotifyEmail string `yaml:"notify_email"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// KeyPolicyConfig holds the key lifecycle knobs. The defaults match
// the locksmith convention the portal grew up with: at most three flex
// generations, three keys cut per batch.
type KeyPolicyConfig struct {
	MaxFlexNumber          int32 `yaml:"max_flex_number"`
	DefaultFlexBatchCount  int32 `yaml:"default_flex_batch_count"`
	DisposalUndoWindowSecs int   `yaml:"disposal_undo_window_seconds"`
}

func (k KeyPolicyConfig) UndoWindow() time.Duration {
	return time.Duration(k.DisposalUndoWindowSecs) * time.Second
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RemindStaleOrders     string `yaml:"remind_stale_orders"`
	RemindUnretrievedLoans string `yaml:"remind_unretrieved_loans"`
	StaleOrderAgeDays     int    `yaml:"stale_order_age_days"`
	UnretrievedAgeDays    int    `yaml:"unretrieved_age_days"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}
	if val := os.Getenv("SENDGRID_NOTIFY_EMAIL"); val != "" {
		c.SendGrid.NotifyEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Key policy defaults
	if c.KeyPolicy.MaxFlexNumber == 0 {
		c.KeyPolicy.MaxFlexNumber = 3
	}
	if c.KeyPolicy.DefaultFlexBatchCount == 0 {
		c.KeyPolicy.DefaultFlexBatchCount = 3
	}
	if c.KeyPolicy.DisposalUndoWindowSecs == 0 {
		c.KeyPolicy.DisposalUndoWindowSecs = 300 // 5 minutes
	}

	// Scheduler defaults
	if c.Scheduler.RemindStaleOrders == "" {
		c.Scheduler.RemindStaleOrders = "0 0 7 * * *" // 7 AM UTC
	}
	if c.Scheduler.RemindUnretrievedLoans == "" {
		c.Scheduler.RemindUnretrievedLoans = "0 30 7 * * *" // 7:30 AM UTC
	}
	if c.Scheduler.StaleOrderAgeDays == 0 {
		c.Scheduler.StaleOrderAgeDays = 14
	}
	if c.Scheduler.UnretrievedAgeDays == 0 {
		c.Scheduler.UnretrievedAgeDays = 7
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
