package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	Server struct {
		Port int    `mapstructure:"port"`
		Host string `mapstructure:"host"`
	} `mapstructure:"server"`
	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	WhatsApp struct {
		AccessToken   string `mapstructure:"access_token"`
		PhoneNumberID string `mapstructure:"phone_number_id"`
		VerifyToken   string `mapstructure:"verify_token"`
		GraphVersion  string `mapstructure:"graph_version"`
	} `mapstructure:"whatsapp"`
	Email struct {
		Host           string        `mapstructure:"host"`
		Port           int           `mapstructure:"port"`
		User           string        `mapstructure:"user"`
		Password       string        `mapstructure:"password"`
		HRAddress      string        `mapstructure:"hr_address"`
		DigestInterval time.Duration `mapstructure:"digest_interval"`
	} `mapstructure:"email"`
	Logging struct {
		Level string `mapstructure:"level"`
		Path  string `mapstructure:"path"`
	} `mapstructure:"logging"`
	Seed struct {
		Enable bool `mapstructure:"enable"`
	} `mapstructure:"seed"`
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables use the WAHR_ prefix with underscores for nesting,
// e.g. WAHR_WHATSAPP_ACCESS_TOKEN.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("WAHR")
	v.AutomaticEnv()
	bindEnvKeys(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("database.dsn", "file:wahr.db?cache=shared&mode=rwc")
	v.SetDefault("whatsapp.graph_version", "v18.0")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.digest_interval", time.Hour)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "server.log")
	v.SetDefault("seed.enable", false)
}

// AutomaticEnv alone does not see nested keys that were never Set, so each key
// is bound explicitly.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.port", "server.host",
		"database.dsn",
		"whatsapp.access_token", "whatsapp.phone_number_id",
		"whatsapp.verify_token", "whatsapp.graph_version",
		"email.host", "email.port", "email.user", "email.password",
		"email.hr_address", "email.digest_interval",
		"logging.level", "logging.path",
		"seed.enable",
	}
	for _, key := range keys {
		// Error only possible with zero arguments
		_ = v.BindEnv(key)
	}
}

// Validate checks settings the server cannot run without
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.WhatsApp.VerifyToken == "" {
		return fmt.Errorf("whatsapp verify token is required")
	}
	if c.WhatsApp.AccessToken == "" {
		return fmt.Errorf("whatsapp access token is required")
	}
	if c.WhatsApp.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp phone number id is required")
	}
	return nil
}

// DefaultConfig returns a configuration suitable for local development and tests
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Server.Host = "localhost"
	config.Database.DSN = "file:wahr.db?cache=shared&mode=rwc"
	config.WhatsApp.AccessToken = "test-access-token"
	config.WhatsApp.PhoneNumberID = "0000000000"
	config.WhatsApp.VerifyToken = "test-verify-token"
	config.WhatsApp.GraphVersion = "v18.0"
	config.Email.Host = "localhost"
	config.Email.Port = 587
	config.Email.HRAddress = "hr@example.com"
	config.Email.DigestInterval = time.Hour
	config.Logging.Level = "info"
	config.Logging.Path = "server.log"
	return config
}
