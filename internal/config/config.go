package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Database DatabaseConfig `mapstructure:"database"`
	Relay    RelayConfig    `mapstructure:"relay"`
}

// Telegram bot configuration
type BotConfig struct {
	Token    string        `mapstructure:"token"`
	Username string        `mapstructure:"username"`
	Mode     string        `mapstructure:"mode"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
}

// webhook server configuration, the listener also serves metrics in polling mode
type WebhookConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ListenPort  string `mapstructure:"listen_port"`
	DebugPath   string `mapstructure:"debug_path"`
	MetricsPath string `mapstructure:"metrics_path"`
	CertFile    string `mapstructure:"cert_file"`
	KeyFile     string `mapstructure:"key_file"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
	Level     string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	SSLMode      string `mapstructure:"sslmode"`
	Path         string `mapstructure:"path"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// RelayConfig holds the moderation workflow knobs. Durations are in seconds,
// MaxDelay is exclusive. PendingTTL 0 keeps undecided items until restart.
type RelayConfig struct {
	MinDelay      int    `mapstructure:"min_delay"`
	MaxDelay      int    `mapstructure:"max_delay"`
	MaxErrors     int    `mapstructure:"max_errors"`
	Language      string `mapstructure:"language"`
	PendingTTL    int    `mapstructure:"pending_ttl"`
	SweepInterval int    `mapstructure:"sweep_interval"`
}

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetEnvPrefix("COGNITO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := loaded.Validate(); err != nil {
		return nil, err
	}

	cfg = loaded
	return cfg, nil
}

// Validate checks the values a running bot cannot do without.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token is required")
	}

	switch c.Bot.Mode {
	case ModeWebhook:
		if c.Bot.Webhook.Endpoint == "" {
			return fmt.Errorf("webhook endpoint is required in webhook mode")
		}
	case ModePolling:
	default:
		return fmt.Errorf("unknown bot mode %q", c.Bot.Mode)
	}

	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Relay.MinDelay < 0 || c.Relay.MinDelay >= c.Relay.MaxDelay {
		return fmt.Errorf("relay delay range [%d, %d) is empty", c.Relay.MinDelay, c.Relay.MaxDelay)
	}
	if c.Relay.MaxErrors < 0 {
		return fmt.Errorf("relay max_errors must not be negative")
	}
	if c.Relay.PendingTTL < 0 || c.Relay.SweepInterval < 0 {
		return fmt.Errorf("relay pending_ttl and sweep_interval must not be negative")
	}
	if c.Relay.PendingTTL > 0 && c.Relay.PendingTTL <= c.Relay.MaxDelay {
		return fmt.Errorf("relay pending_ttl %d must exceed max_delay %d", c.Relay.PendingTTL, c.Relay.MaxDelay)
	}

	return nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.mode", ModeWebhook)
	v.SetDefault("bot.webhook.listen_port", "8443")
	v.SetDefault("bot.webhook.debug_path", "/debug")
	v.SetDefault("bot.webhook.metrics_path", "/metrics")
	v.SetDefault("bot.webhook.cert_file", "")
	v.SetDefault("bot.webhook.key_file", "")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "data/cognito.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)

	v.SetDefault("relay.min_delay", 3)
	v.SetDefault("relay.max_delay", 723)
	v.SetDefault("relay.max_errors", 3)
	v.SetDefault("relay.language", "ru")
	v.SetDefault("relay.pending_ttl", 86400)
	v.SetDefault("relay.sweep_interval", 600)
}
