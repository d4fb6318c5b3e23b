package pubcontent

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all configuration for a pubcontent process.
type Config struct {
	ContentDir   string `mapstructure:"contentDir" validate:"required"`   // Collections root (default "src/content")
	PublicDir    string `mapstructure:"publicDir"`                        // Root for "/..." cover images (default "public")
	DatabasePath string `mapstructure:"databasePath" validate:"required"` // SQLite index path (default "data/content.db")
	Addr         string `mapstructure:"addr" validate:"required"`         // Report server listen address (default ":3000")

	CheckCoverImages  bool          `mapstructure:"checkCoverImages"`
	ValidateRateLimit int           `mapstructure:"validateRateLimit" validate:"gte=0"` // POST /validate requests per IP per minute (default 60)
	CacheTTL          time.Duration `mapstructure:"cacheTTL" validate:"gte=0"`          // Entry cache TTL (default 5min)
	WatchDebounce     time.Duration `mapstructure:"watchDebounce" validate:"gte=0"`     // Re-check delay after a change (default 500ms)

	LogLevel  string `mapstructure:"logLevel" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat string `mapstructure:"logFormat" validate:"omitempty,oneof=json console"`
}

// SetDefaults fills every unset field with its default.
func (c *Config) SetDefaults() {
	if c.ContentDir == "" {
		c.ContentDir = "src/content"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/content.db"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.WatchDebounce == 0 {
		c.WatchDebounce = 500 * time.Millisecond
	}
	if c.ValidateRateLimit == 0 {
		c.ValidateRateLimit = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("pubcontent: invalid config: %w", err)
	}
	return nil
}

// CheckOptions returns the CheckCollection options implied by the config.
func (c *Config) CheckOptions(m *Metrics) []CheckOption {
	var opts []CheckOption
	if c.CheckCoverImages {
		opts = append(opts, WithCoverImageCheck(c.PublicDir))
	}
	if m != nil {
		opts = append(opts, WithMetrics(m))
	}
	return opts
}
