package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	ML       MLConfig       `mapstructure:"ml"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds the MySQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig holds the SMTP settings used for bill reminders.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// MLConfig holds the settings for the external ML microservice.
type MLConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ReminderConfig holds the bill reminder scheduler settings.
type ReminderConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	CheckIntervalMinutes int  `mapstructure:"check_interval_minutes"`
	DueSoonDays          int  `mapstructure:"due_soon_days"`
}

var (
	// GlobalConfig is the process-wide configuration instance.
	GlobalConfig *Config
)

// LoadConfig loads configuration with the following precedence:
// environment variables > external config file > embedded defaults.
// configPath is an optional explicit path to an external file.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Embedded defaults first.
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			logrus.WithError(err).Warnf("cannot read config file %s, keeping defaults", configPath)
		} else {
			logrus.Infof("merged config file: %s", configPath)
		}
	} else {
		// Look for an optional config.yaml in the usual places.
		external := viper.New()
		external.SetConfigName("config")
		external.SetConfigType("yaml")
		external.AddConfigPath(".")
		external.AddConfigPath("./config")
		external.AddConfigPath("/etc/budgetbuddy")
		external.AddConfigPath("$HOME/.budgetbuddy")

		if err := external.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(external.AllSettings()); err != nil {
				logrus.WithError(err).Warn("cannot merge external config")
			} else {
				logrus.Infof("merged config file: %s", external.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("BUDGETBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if cfg.ML.TimeoutSeconds <= 0 {
		cfg.ML.TimeoutSeconds = 30
	}
	if cfg.Reminder.CheckIntervalMinutes <= 0 {
		cfg.Reminder.CheckIntervalMinutes = 60
	}
	if cfg.Reminder.DueSoonDays <= 0 {
		cfg.Reminder.DueSoonDays = 3
	}

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig loads configuration and panics on failure.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}

// GetConfig returns the global configuration.
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("config not initialized, call LoadConfig first")
	}
	return GlobalConfig
}

// PrintConfig logs the effective configuration, hiding secrets.
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	logrus.Infof("server: %s (mode: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	logrus.Infof("database: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	logrus.Infof("ml service: %s", GlobalConfig.ML.BaseURL)
	logrus.Infof("email reminders: %v", GlobalConfig.Email.Enabled && GlobalConfig.Reminder.Enabled)
}
