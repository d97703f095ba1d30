// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	// bools cannot be defaulted after unmarshal
	v.SetDefault("rate_limit.enabled", true)
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			v.Set(key, os.ExpandEnv(strVal))
		}
	}
}

// overrideEmptyConfig fills provider secrets from their canonical env names.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Providers.Email.Resend.APIKey, "RESEND_API_KEY")
	setIfEmpty(&cfg.Providers.SMS.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	setIfEmpty(&cfg.Providers.SMS.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	setIfEmpty(&cfg.Providers.SMS.Twilio.PhoneNumber, "TWILIO_PHONE_NUMBER")
	setIfEmpty(&cfg.Redis.Password, "REDIS_PASSWORD")
}

func setIfEmpty(dst *string, envKey string) {
	if *dst != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*dst = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "notification-relay"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 64 << 10
	}

	email := &cfg.Providers.Email
	if email.Driver == "" {
		email.Driver = EmailDriverResend
	}
	if email.From == "" {
		email.From = "Rentably <noreply@rentably.io>"
	}
	if email.Timeout == 0 {
		email.Timeout = 10 * time.Second
	}
	if email.Resend.BaseURL == "" {
		email.Resend.BaseURL = "https://api.resend.com"
	}
	if email.SES.Region == "" {
		email.SES.Region = "us-east-1"
	}

	sms := &cfg.Providers.SMS
	if sms.Driver == "" {
		sms.Driver = SMSDriverTwilio
	}
	if sms.Timeout == 0 {
		sms.Timeout = 10 * time.Second
	}
	if sms.Twilio.BaseURL == "" {
		sms.Twilio.BaseURL = "https://api.twilio.com"
	}
	if sms.SNS.Region == "" {
		sms.SNS.Region = "us-east-1"
	}

	rl := &cfg.RateLimit
	if rl.Backend == "" {
		rl.Backend = RateLimitBackendMemory
	}
	if rl.MaxRequests == 0 {
		rl.MaxRequests = 100
	}
	if rl.Window == 0 {
		rl.Window = time.Hour
	}
	if rl.SweepInterval == 0 {
		rl.SweepInterval = time.Hour
	}

	if cfg.Templates.AdminURL == "" {
		cfg.Templates.AdminURL = "https://rentably.io/admin"
	}
	if cfg.Templates.PortalURL == "" {
		cfg.Templates.PortalURL = "https://rentably.io/portal"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks structural settings. Provider secrets are not checked
// here; a missing secret is reported per request.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Providers.Email.Driver {
	case EmailDriverResend, EmailDriverSES:
	default:
		return fmt.Errorf("providers.email.driver %q is not supported", c.Providers.Email.Driver)
	}
	switch c.Providers.SMS.Driver {
	case SMSDriverTwilio, SMSDriverSNS:
	default:
		return fmt.Errorf("providers.sms.driver %q is not supported", c.Providers.SMS.Driver)
	}
	switch c.RateLimit.Backend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the redis rate limit backend")
		}
	default:
		return fmt.Errorf("rate_limit.backend %q is not supported", c.RateLimit.Backend)
	}
	if c.RateLimit.MaxRequests < 0 {
		return fmt.Errorf("rate_limit.max_requests must not be negative")
	}
	if c.RateLimit.Window < 0 {
		return fmt.Errorf("rate_limit.window must not be negative")
	}
	return nil
}
