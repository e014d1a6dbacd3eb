// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// NotifierKind identifies the outbound email provider.
type NotifierKind string

const (
	NotifierDisabled NotifierKind = "disabled"
	NotifierMailgun  NotifierKind = "mailgun"
	NotifierSMTP     NotifierKind = "smtp"
)

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host string `mapstructure:"smtp_host"`
	Port int    `mapstructure:"smtp_port"`
	User string `mapstructure:"smtp_user"`
	Pass string `mapstructure:"smtp_pass"`
	SSL  bool   `mapstructure:"smtp_ssl"`
}

// MailgunConfig holds the Mailgun API credential.
type MailgunConfig struct {
	APIKey string `mapstructure:"mailgun_api_key"`
	Domain string `mapstructure:"mailgun_domain"`
}

// Config is the full runtime configuration of the backend.
type Config struct {
	HTTPAddr    string `mapstructure:"http_addr"`
	FrontendURL string `mapstructure:"frontend_url"`
	SiteURL     string `mapstructure:"site_url"`
	LogLevel    string `mapstructure:"log_level"`

	DatabaseURL string `mapstructure:"database_url"`
	RedisURL    string `mapstructure:"redis_url"`

	RateLimitMax      int           `mapstructure:"rate_limit_max"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	TrustedProxyCount int           `mapstructure:"trusted_proxy_count"`
	MaxBodyKB         int           `mapstructure:"max_body_kb"`

	ContactToEmail   string        `mapstructure:"contact_to_email"`
	ContactFromEmail string        `mapstructure:"contact_from_email"`
	NotifyTimeout    time.Duration `mapstructure:"notify_timeout"`
	NotifyPerMinute  int           `mapstructure:"notify_per_minute"`

	Mailgun MailgunConfig `mapstructure:",squash"`
	SMTP    SMTPConfig    `mapstructure:",squash"`
}

var defaults = map[string]any{
	"http_addr":           ":8080",
	"frontend_url":        "http://localhost:5173",
	"site_url":            "",
	"log_level":           "INFO",
	"database_url":        "",
	"redis_url":           "",
	"rate_limit_max":      5,
	"rate_limit_window":   15 * time.Minute,
	"trusted_proxy_count": 1,
	"max_body_kb":         64,
	"contact_to_email":    "hello@metrixmedia.com",
	"contact_from_email":  "noreply@metrixmedia.com",
	"notify_timeout":      10 * time.Second,
	"notify_per_minute":   30,
	"mailgun_api_key":     "",
	"mailgun_domain":      "",
	"smtp_host":           "",
	"smtp_port":           587,
	"smtp_user":           "",
	"smtp_pass":           "",
	"smtp_ssl":            false,
}

// Load reads .env (if any) and the process environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	return &cfg, nil
}

// NotifierKind reports which email provider is configured. Mailgun wins when
// both Mailgun and SMTP credentials are present.
func (c *Config) NotifierKind() NotifierKind {
	switch {
	case c.Mailgun.APIKey != "" && c.Mailgun.Domain != "":
		return NotifierMailgun
	case c.SMTP.Host != "":
		return NotifierSMTP
	default:
		return NotifierDisabled
	}
}

// MaxBodyBytes is the request body cap for the contact endpoint.
func (c *Config) MaxBodyBytes() int64 {
	if c.MaxBodyKB <= 0 {
		return 64 * 1024
	}
	return int64(c.MaxBodyKB) * 1024
}
