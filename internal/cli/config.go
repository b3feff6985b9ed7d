package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/MohammadRaziei/pip-browse/pkg/pypi"
)

// Config is the on-disk configuration, read from
// ~/.config/pip-browse/config.toml (or $XDG_CONFIG_HOME/pip-browse/config.toml).
// Every field is optional; command-line flags override the file.
type Config struct {
	// TimeoutSeconds is the HTTP request timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// CacheTTLHours is how long cached responses stay valid.
	CacheTTLHours int `toml:"cache_ttl_hours"`

	// CacheDir overrides the XDG cache location.
	CacheDir string `toml:"cache_dir"`

	// JSONBaseURL and BrowserBaseURL override the upstream endpoints,
	// mainly useful for mirrors.
	JSONBaseURL    string `toml:"json_base_url"`
	BrowserBaseURL string `toml:"browser_base_url"`
}

const defaultCacheTTLHours = 24

// Timeout returns the configured HTTP timeout, or the client default.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return pypi.DefaultTimeout
}

// CacheTTL returns the configured cache lifetime, defaulting to 24 hours.
func (c Config) CacheTTL() time.Duration {
	hours := c.CacheTTLHours
	if hours <= 0 {
		hours = defaultCacheTTLHours
	}
	return time.Duration(hours) * time.Hour
}

// LoadConfig reads and decodes a TOML config file. A missing file yields the
// zero Config and no error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfigOrDefault reads the default config file, falling back to the
// zero Config on any error.
func LoadConfigOrDefault() Config {
	path, err := configPath()
	if err != nil {
		return Config{}
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}
	}
	return cfg
}

// configPath returns the config file location using XDG standard
// (~/.config/pip-browse/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
