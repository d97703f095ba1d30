// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Templates TemplateConfig  `mapstructure:"templates"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
	CORS              CORSConfig    `mapstructure:"cors"`
}

// Address returns the listen address for net/http.
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

// CORSConfig lists the origins echoed back by /send-email. /send-sms is
// always open.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Provider Configuration ---

const (
	EmailDriverResend = "resend"
	EmailDriverSES    = "ses"
	SMSDriverTwilio   = "twilio"
	SMSDriverSNS      = "sns"
)

type ProvidersConfig struct {
	Email EmailProviderConfig `mapstructure:"email"`
	SMS   SMSProviderConfig   `mapstructure:"sms"`
}

// EmailProviderConfig selects exactly one email driver for the process.
type EmailProviderConfig struct {
	Driver  string        `mapstructure:"driver"`
	From    string        `mapstructure:"from"`
	Timeout time.Duration `mapstructure:"timeout"`
	Resend  struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
	} `mapstructure:"resend"`
	SES struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"ses"`
}

// SMSProviderConfig selects exactly one SMS driver for the process.
type SMSProviderConfig struct {
	Driver  string        `mapstructure:"driver"`
	Timeout time.Duration `mapstructure:"timeout"`
	Twilio  struct {
		BaseURL     string `mapstructure:"base_url"`
		AccountSID  string `mapstructure:"account_sid"`
		AuthToken   string `mapstructure:"auth_token"`
		PhoneNumber string `mapstructure:"phone_number"`
	} `mapstructure:"twilio"`
	SNS struct {
		Region   string `mapstructure:"region"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sns"`
}

// --- Rate limiting ---

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Backend       string        `mapstructure:"backend"`
	MaxRequests   int           `mapstructure:"max_requests"`
	Window        time.Duration `mapstructure:"window"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// TemplateConfig holds the links rendered into the email call-to-action buttons.
type TemplateConfig struct {
	AdminURL  string `mapstructure:"admin_url"`
	PortalURL string `mapstructure:"portal_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ResendConfigured reports whether the Resend API key is present.
func (c *Config) ResendConfigured() bool {
	return c.Providers.Email.Resend.APIKey != ""
}

// TwilioConfigured reports whether every Twilio credential is present.
func (c *Config) TwilioConfigured() bool {
	t := c.Providers.SMS.Twilio
	return t.AccountSID != "" && t.AuthToken != "" && t.PhoneNumber != ""
}
