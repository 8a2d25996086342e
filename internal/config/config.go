// Package config loads agentlog settings from defaults, an optional config
// file, AGENTLOG_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atikulmunna/agentlog/internal/docs"
	apperr "github.com/atikulmunna/agentlog/internal/errors"
	"github.com/atikulmunna/agentlog/internal/ingest"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. AGENTLOG_SERVER_PORT.
const EnvPrefix = "AGENTLOG"

// Config is the full runtime configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Docs   DocsConfig   `mapstructure:"docs"`
	Watch  WatchConfig  `mapstructure:"watch"`
	Ingest IngestConfig `mapstructure:"ingest"`
	Stats  StatsConfig  `mapstructure:"stats"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port       string `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors_origin"`
	AccessLog  bool   `mapstructure:"access_log"`

	// TrustedProxies are CIDRs or IPs allowed to set X-Forwarded-For.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// LogConfig locates the conversation log.
type LogConfig struct {
	Path     string `mapstructure:"path"`
	Location string `mapstructure:"location"` // IANA zone for timestamps, "" = local
}

// DocsConfig controls the document endpoint.
type DocsConfig struct {
	Dirs    []string `mapstructure:"dirs"`
	Allowed []string `mapstructure:"allowed"`
}

// WatchConfig lists doublestar globs relayed as file-update events.
type WatchConfig struct {
	Patterns []string `mapstructure:"patterns"`
}

// IngestConfig tunes duplicate detection and rate admission.
type IngestConfig struct {
	RecentCapacity int           `mapstructure:"recent_capacity"`
	RateLimit      int           `mapstructure:"rate_limit"`
	RateWindow     time.Duration `mapstructure:"rate_window"`
	RateMaxKeys    int           `mapstructure:"rate_max_keys"`
}

// StatsConfig points at the directory summarized by /api/stats.
type StatsConfig struct {
	Dir string `mapstructure:"dir"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.cors_origin", "http://localhost:5173")
	v.SetDefault("server.access_log", false)
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("log.path", "agent-conversation.log")
	v.SetDefault("log.location", "")
	v.SetDefault("docs.dirs", []string{"."})
	v.SetDefault("docs.allowed", docs.DefaultAllowed)
	v.SetDefault("watch.patterns", []string{})
	v.SetDefault("ingest.recent_capacity", ingest.DefaultRecentCapacity)
	v.SetDefault("ingest.rate_limit", ingest.DefaultRateLimit)
	v.SetDefault("ingest.rate_window", ingest.DefaultRateWindow)
	v.SetDefault("ingest.rate_max_keys", ingest.DefaultRateMaxKeys)
	v.SetDefault("stats.dir", ".")
}

// Init prepares v to read cfgFile, or .agentlog.{yaml,toml,json} from the
// home and working directories when cfgFile is empty.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".agentlog")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return apperr.Wrap(apperr.EInvalidConfig, "reading config", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Wrap(apperr.EInvalidConfig, "decoding config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Log.Path) == "":
		return apperr.New(apperr.EInvalidConfig, "log.path must not be empty")
	case c.Server.Port == "":
		return apperr.New(apperr.EInvalidConfig, "server.port must not be empty")
	case c.Ingest.RecentCapacity <= 0:
		return apperr.New(apperr.EInvalidConfig, "ingest.recent_capacity must be positive")
	case c.Ingest.RateLimit <= 0:
		return apperr.New(apperr.EInvalidConfig, "ingest.rate_limit must be positive")
	case c.Ingest.RateWindow <= 0:
		return apperr.New(apperr.EInvalidConfig, "ingest.rate_window must be positive")
	case c.Ingest.RateMaxKeys <= 0:
		return apperr.New(apperr.EInvalidConfig, "ingest.rate_max_keys must be positive")
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// TimeLocation resolves Log.Location.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Log.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Log.Location)
	if err != nil {
		return nil, apperr.Wrap(apperr.EInvalidConfig, fmt.Sprintf("unknown log.location %q", c.Log.Location), err)
	}
	return loc, nil
}

// IngestOptions converts the ingest section for ingest.New.
func (c *Config) IngestOptions() (ingest.Options, error) {
	loc, err := c.TimeLocation()
	if err != nil {
		return ingest.Options{}, err
	}
	return ingest.Options{
		RecentCapacity: c.Ingest.RecentCapacity,
		RateLimit:      c.Ingest.RateLimit,
		RateWindow:     c.Ingest.RateWindow,
		RateMaxKeys:    c.Ingest.RateMaxKeys,
		Location:       loc,
	}, nil
}
