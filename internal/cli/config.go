package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/easelhq/easel/pkg/repair"
	"github.com/easelhq/easel/pkg/validate"
)

// Config is the easel.toml configuration. All sections are optional;
// missing values fall back to defaults, and the gateway token can come
// from the environment instead of the file.
type Config struct {
	Gateway GatewayConfig `toml:"gateway"`
	Cache   CacheConfig   `toml:"cache"`
	Store   StoreConfig   `toml:"store"`

	// Policy overrides the validation rule set. Absent means defaults.
	Policy *validate.Policy `toml:"policy"`

	// Repair overrides the repair limits. Absent means defaults.
	Repair *repair.Options `toml:"repair"`
}

// GatewayConfig locates the model gateway.
type GatewayConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// CacheConfig selects the pipeline cache backend: "file" (default),
// "redis", or "none".
type CacheConfig struct {
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url"`
	Dir      string `toml:"dir"`
}

// StoreConfig selects the banner archive backend: "file" (default) or
// "mongo".
type StoreConfig struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Dir      string `toml:"dir"`
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error: defaults apply.
// EASEL_GATEWAY_URL and EASEL_GATEWAY_TOKEN override the file so tokens
// can stay out of dotfiles.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if path == "" {
		var err error
		path, err = configPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if url := os.Getenv("EASEL_GATEWAY_URL"); url != "" {
		cfg.Gateway.URL = url
	}
	if token := os.Getenv("EASEL_GATEWAY_TOKEN"); token != "" {
		cfg.Gateway.Token = token
	}

	return cfg, nil
}

// Validator builds the validator from the configured policy.
func (c *Config) Validator() *validate.Validator {
	if c.Policy == nil {
		return validate.Default()
	}
	return validate.New(*c.Policy)
}

// RepairOptions returns the configured repair limits.
func (c *Config) RepairOptions() repair.Options {
	if c.Repair == nil {
		return repair.DefaultOptions()
	}
	return *c.Repair
}

// configPath returns the default config file location
// (~/.config/easel/easel.toml, honoring XDG_CONFIG_HOME).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "easel.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "easel.toml"), nil
}
