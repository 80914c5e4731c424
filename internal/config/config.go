// Package config provides configuration management.
//
// Precedence, lowest to highest: built-in defaults, optional HCL config
// file, environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"gutter-api/adapters/eagleview"
	"gutter-api/core/estimate"
	"gutter-api/internal/errors"
	"gutter-api/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Provider contains measurement-provider client settings
	Provider eagleview.Config `json:"provider"`

	// Pricing contains the estimate rates
	Pricing estimate.Config `json:"pricing"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// AllowedOrigins is the CORS allow list; ["*"] allows any origin
	AllowedOrigins []string `json:"allowed_origins"`

	// WebhookSecret enables webhook signature verification when set
	WebhookSecret string `json:"webhook_secret"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Provider: eagleview.DefaultConfig(),
		Pricing:  estimate.DefaultConfig(),
		Logging:  logging.DefaultConfig(),
	}
}

// fileConfig is the HCL file shape. Every attribute is optional so a file
// can override a single rate without restating the rest.
type fileConfig struct {
	Addr           *string  `hcl:"addr,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
	WebhookSecret  *string  `hcl:"webhook_secret,optional"`

	Provider *providerBlock `hcl:"provider,block"`
	Pricing  *pricingBlock  `hcl:"pricing,block"`
	Logging  *loggingBlock  `hcl:"logging,block"`
}

type providerBlock struct {
	BaseURL        *string `hcl:"base_url,optional"`
	ClientID       *string `hcl:"client_id,optional"`
	ClientSecret   *string `hcl:"client_secret,optional"`
	TimeoutSeconds *int    `hcl:"timeout_seconds,optional"`
	RetryCount     *int    `hcl:"retry_count,optional"`
}

type pricingBlock struct {
	PricePerFt      *float64 `hcl:"price_per_ft,optional"`
	LaborPerFt      *float64 `hcl:"labor_per_ft,optional"`
	DownspoutEach   *float64 `hcl:"downspout_each,optional"`
	MiterEach       *float64 `hcl:"miter_each,optional"`
	PitchMultiplier *float64 `hcl:"pitch_multiplier,optional"`
	StoryMultiplier *float64 `hcl:"story_multiplier,optional"`
	OverheadPct     *float64 `hcl:"overhead_pct,optional"`
	ProfitPct       *float64 `hcl:"profit_pct,optional"`
	SalesTaxPct     *float64 `hcl:"sales_tax_pct,optional"`
}

type loggingBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
	Output *string `hcl:"output,optional"`
}

// Load builds the configuration from defaults, an optional HCL file and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays an HCL config file onto the current values.
func (c *Config) applyFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Newf(errors.TypeConfig, "config file not found: %s", path)
	}

	var file fileConfig
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return errors.Wrap(errors.TypeConfig, "parsing config file", err)
	}

	setString(&c.Server.Addr, file.Addr)
	if file.AllowedOrigins != nil {
		c.Server.AllowedOrigins = file.AllowedOrigins
	}
	setString(&c.Server.WebhookSecret, file.WebhookSecret)

	if p := file.Provider; p != nil {
		setString(&c.Provider.BaseURL, p.BaseURL)
		setString(&c.Provider.ClientID, p.ClientID)
		setString(&c.Provider.ClientSecret, p.ClientSecret)
		if p.TimeoutSeconds != nil {
			c.Provider.Timeout = time.Duration(*p.TimeoutSeconds) * time.Second
		}
		if p.RetryCount != nil {
			c.Provider.RetryCount = *p.RetryCount
		}
	}

	if p := file.Pricing; p != nil {
		setFloat(&c.Pricing.PricePerFt, p.PricePerFt)
		setFloat(&c.Pricing.LaborPerFt, p.LaborPerFt)
		setFloat(&c.Pricing.DownspoutEach, p.DownspoutEach)
		setFloat(&c.Pricing.MiterEach, p.MiterEach)
		setFloat(&c.Pricing.PitchMultiplier, p.PitchMultiplier)
		setFloat(&c.Pricing.StoryMultiplier, p.StoryMultiplier)
		setFloat(&c.Pricing.OverheadPct, p.OverheadPct)
		setFloat(&c.Pricing.ProfitPct, p.ProfitPct)
		setFloat(&c.Pricing.SalesTaxPct, p.SalesTaxPct)
	}

	if l := file.Logging; l != nil {
		setString(&c.Logging.Level, l.Level)
		setString(&c.Logging.Format, l.Format)
		setString(&c.Logging.Output, l.Output)
	}

	return nil
}

// applyEnv overlays environment variables. The EV_* names match what the
// provider's onboarding docs hand out.
func (c *Config) applyEnv() {
	if v := os.Getenv("EV_BASE"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("EV_CLIENT_ID"); v != "" {
		c.Provider.ClientID = v
	}
	if v := os.Getenv("EV_CLIENT_SECRET"); v != "" {
		c.Provider.ClientSecret = v
	}
	if v := os.Getenv("ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		c.Server.WebhookSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PROVIDER_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Provider.Timeout = time.Duration(secs) * time.Second
		}
	}
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.Config("server addr must not be empty")
	}
	if c.Provider.BaseURL == "" {
		return errors.Config("provider base_url must not be empty")
	}
	return c.Pricing.Validate()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
