package config

import (
	"time"

	redisclient "github.com/a-nagdy/anasityshop-sub000/internal/infra/redis"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	API      APIConfig          `yaml:"api"`
	Services []ServiceConfig    `yaml:"services"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Checkout CheckoutConfig     `yaml:"checkout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// APIConfig holds settings for the upstream commerce API.
type APIConfig struct {
	BaseURL        string            `yaml:"base_url"`
	Timeout        time.Duration     `yaml:"timeout"`
	MaxRetries     int               `yaml:"max_retries"`
	RetryBaseDelay time.Duration     `yaml:"retry_base_delay"`
	RateLimit      float64           `yaml:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst      int               `yaml:"rate_burst"`
	Headers        map[string]string `yaml:"headers"`
}

// ServiceConfig overrides request behavior for one domain service.
type ServiceConfig struct {
	Name       string        `yaml:"name"        mapstructure:"name"` // catalog, orders, auth, cart, checkout
	BasePath   string        `yaml:"base_path"   mapstructure:"base_path"`
	Timeout    time.Duration `yaml:"timeout"     mapstructure:"timeout"`
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"` // 0 = inherit api default
}

// CheckoutConfig controls draft persistence.
type CheckoutConfig struct {
	DraftTTL      time.Duration `yaml:"draft_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Service returns the override block for a named service, if configured.
func (c *AppConfig) Service(name string) (ServiceConfig, bool) {
	for _, svc := range c.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return ServiceConfig{}, false
}
