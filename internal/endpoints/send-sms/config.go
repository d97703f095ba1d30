package sendsms

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		MaxBodyBytes: 64 << 10,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}
