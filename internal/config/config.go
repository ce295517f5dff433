package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/shopgen/internal/database"
	"github.com/Lumos-Labs-HQ/shopgen/internal/synth"
	"github.com/spf13/viper"
)

const (
	FileName = "shopgen.config.json"

	// AnchorNow selects the wall clock instead of a fixed anchor.
	AnchorNow = "now"
)

type Config struct {
	DataDir  string   `json:"data_dir" mapstructure:"data_dir"`
	Database Database `json:"database" mapstructure:"database"`
	Generate Generate `json:"generate" mapstructure:"generate"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	URL      string `json:"url,omitempty" mapstructure:"url"`
}

type Generate struct {
	Customers int    `json:"customers" mapstructure:"customers"`
	Products  int    `json:"products" mapstructure:"products"`
	Orders    int    `json:"orders" mapstructure:"orders"`
	Seed      int64  `json:"seed" mapstructure:"seed"`
	Anchor    string `json:"anchor" mapstructure:"anchor"`
}

// Default returns the configuration used when no file or flag says otherwise.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Database: Database{
			Provider: "sqlite",
			URLEnv:   "DATABASE_URL",
			URL:      "sqlite://ecom.db",
		},
		Generate: Generate{
			Customers: 60,
			Products:  30,
			Orders:    120,
			Seed:      42,
			Anchor:    synth.DefaultAnchor.Format(synth.TimeLayout),
		},
	}
}

// SetDefaults registers defaults with viper so that explicit zero values in a
// file or flag still win.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("database.provider", d.Database.Provider)
	v.SetDefault("database.url_env", d.Database.URLEnv)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("generate.customers", d.Generate.Customers)
	v.SetDefault("generate.products", d.Generate.Products)
	v.SetDefault("generate.orders", d.Generate.Orders)
	v.SetDefault("generate.seed", d.Generate.Seed)
	v.SetDefault("generate.anchor", d.Generate.Anchor)
}

func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Database.Provider = strings.ToLower(cfg.Database.Provider)

	return &cfg, nil
}

func (c *Config) Validate() error {
	if !database.IsSupported(c.Database.Provider) {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, database.SupportedProviders)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}

	if err := c.SynthOptions().Validate(); err != nil {
		return fmt.Errorf("invalid generate settings: %w", err)
	}

	if _, err := c.AnchorTime(); err != nil {
		return err
	}

	return nil
}

// AnchorTime parses generate.anchor as UTC. "now" and an empty anchor both
// resolve to the current time.
func (c *Config) AnchorTime() (time.Time, error) {
	anchor := strings.TrimSpace(c.Generate.Anchor)
	if anchor == "" || strings.EqualFold(anchor, AnchorNow) {
		return time.Now().UTC().Truncate(time.Second), nil
	}
	t, err := time.ParseInLocation(synth.TimeLayout, anchor, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid generate.anchor %q: expected YYYY-MM-DD HH:MM:SS or %q", anchor, AnchorNow)
	}
	return t, nil
}

// SynthOptions maps the generate section onto synthesizer options. The anchor
// is left zero; callers resolve it with AnchorTime.
func (c *Config) SynthOptions() synth.Options {
	return synth.Options{
		Customers: c.Generate.Customers,
		Products:  c.Generate.Products,
		Orders:    c.Generate.Orders,
		Seed:      c.Generate.Seed,
	}
}

// GetDatabaseURL prefers the environment variable named by url_env and falls
// back to database.url.
func (c *Config) GetDatabaseURL() (string, error) {
	if c.Database.URLEnv != "" {
		if dbURL := os.Getenv(c.Database.URLEnv); dbURL != "" {
			return dbURL, nil
		}
	}
	if c.Database.URL != "" {
		return c.Database.URL, nil
	}
	return "", fmt.Errorf("database URL not found in environment variable %s or database.url", c.Database.URLEnv)
}

func (c *Config) EnsureDataDir() error {
	if c.DataDir == "" || c.DataDir == "." {
		return nil
	}
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.DataDir, err)
	}
	return nil
}
