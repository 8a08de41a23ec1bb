package transport

import (
	"os"
	"time"

	"github.com/marmos91/sequencer/internal/logger"
)

// EnvAdminSecret is the environment variable for the admin API's JWT
// signing secret, taking precedence over any value set in the config file.
const EnvAdminSecret = "SEQUENCER_ADMIN_SECRET"

// Config configures the Sequencer's HTTP transport.
type Config struct {
	// Port is the HTTP listen port. Default: 8080.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	Admin AdminConfig `mapstructure:"admin" yaml:"admin"`
}

// AdminConfig configures the JWT-gated admin routes.
type AdminConfig struct {
	// Secret is the HMAC signing key for admin tokens. Must be at least
	// 32 characters. Can also be set via SEQUENCER_ADMIN_SECRET.
	Secret string `mapstructure:"secret" yaml:"secret"`

	// TokenDuration is the lifetime of minted admin tokens. Default: 1h.
	TokenDuration time.Duration `mapstructure:"token_duration" yaml:"token_duration"`
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.Admin.TokenDuration == 0 {
		c.Admin.TokenDuration = time.Hour
	}
}

// AdminSecret returns the admin JWT secret, preferring the environment
// variable over the config file value.
func (c *Config) AdminSecret() string {
	if env := os.Getenv(EnvAdminSecret); env != "" {
		if c.Admin.Secret != "" && c.Admin.Secret != env {
			logger.Warn("admin JWT secret from environment overrides config file value",
				"env_var", EnvAdminSecret)
		}
		return env
	}
	return c.Admin.Secret
}
