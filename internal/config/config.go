package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. BRIEFING_FEED_PRIMARY_URL.
const EnvPrefix = "BRIEFING"

// Config is the application configuration
type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`

	Feed    FeedConfig    `mapstructure:"feed"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Serve   ServeConfig   `mapstructure:"serve"`

	// File is the config file that was read, empty when none was.
	File string `mapstructure:"-"`
}

// FeedConfig says where snapshots come from
type FeedConfig struct {
	PrimaryURL  string        `mapstructure:"primary_url"`
	FallbackURL string        `mapstructure:"fallback_url"`
	Timeout     time.Duration `mapstructure:"timeout"` // 0 = no timeout
	UserAgent   string        `mapstructure:"user_agent"`
}

// StorageConfig selects the bookmark backend
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, bbolt, memory
	Path   string `mapstructure:"path"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	HighlightLimit int  `mapstructure:"highlight_limit"`
	AltScreen      bool `mapstructure:"alt_screen"`
}

// ServeConfig configures `briefing serve`
type ServeConfig struct {
	Addr      string  `mapstructure:"addr"`
	DataFile  string  `mapstructure:"data_file"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second
	Burst     int     `mapstructure:"burst"`
}

// DefaultDataDir is ~/.briefing, or ./.briefing when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".briefing"
	}
	return filepath.Join(home, ".briefing")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log_level", "info")

	v.SetDefault("feed.primary_url", "http://localhost:8787/data.json")
	v.SetDefault("feed.fallback_url", "") // derived from data_dir
	v.SetDefault("feed.timeout", "0s")
	v.SetDefault("feed.user_agent", "")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "") // derived from data_dir

	v.SetDefault("ui.highlight_limit", 3)
	v.SetDefault("ui.alt_screen", true)

	v.SetDefault("serve.addr", ":8787")
	v.SetDefault("serve.data_file", "./data.json")
	v.SetDefault("serve.rate_limit", 20)
	v.SetDefault("serve.burst", 40)
}

// Load builds the configuration from defaults, an optional YAML file,
// a .env file in the working directory and BRIEFING_* variables, in
// increasing precedence.
//
// configFile may be empty, in which case <data_dir>/config.yaml is read
// if it exists. An explicitly named file must exist.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(expandHome(v.GetString("data_dir")), "config.yaml")
	}
	if _, err := os.Stat(configFile); err == nil || explicit {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", configFile, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(cfg.DataDir, "briefing.db")
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	// The fallback is a local copy of the snapshot unless configured otherwise.
	cfg.Feed.FallbackURL = expandHome(strings.TrimSpace(cfg.Feed.FallbackURL))
	if cfg.Feed.FallbackURL == "" {
		cfg.Feed.FallbackURL = filepath.Join(cfg.DataDir, "data.json")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "", "sqlite", "bbolt", "bolt", "memory", "none":
	default:
		return fmt.Errorf("invalid storage.driver %q (want sqlite, bbolt or memory)", c.Storage.Driver)
	}
	if c.UI.HighlightLimit <= 0 {
		return fmt.Errorf("invalid ui.highlight_limit %d (must be positive)", c.UI.HighlightLimit)
	}
	if c.Feed.Timeout < 0 {
		return fmt.Errorf("invalid feed.timeout %s (must not be negative)", c.Feed.Timeout)
	}
	if strings.TrimSpace(c.Feed.PrimaryURL) == "" {
		return errors.New("feed.primary_url is required")
	}
	if strings.TrimSpace(c.Feed.FallbackURL) == strings.TrimSpace(c.Feed.PrimaryURL) {
		return errors.New("feed.fallback_url must differ from feed.primary_url")
	}
	if c.Serve.RateLimit < 0 || c.Serve.Burst < 0 {
		return errors.New("serve.rate_limit and serve.burst must not be negative")
	}
	return nil
}

// LogDir is where daily log files go.
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
