package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the user's kindred configuration, loaded from
// ~/.config/kindred/config.toml. Every field is optional: flags override
// config values, and config values override built-in defaults.
type Config struct {
	// Layout defaults
	Orientation   string  `toml:"orientation"`
	GenerationGap float64 `toml:"generation_gap"`
	SiblingGap    float64 `toml:"sibling_gap"`
	PartnerGap    float64 `toml:"partner_gap"`

	// Render defaults
	Formats    []string `toml:"formats"`
	NodeRadius float64  `toml:"node_radius"`

	Server ServerConfig `toml:"server"`
}

// ServerConfig configures the serve command's backends.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// RedisURL selects the redis cache backend when set; the file cache
	// is used otherwise.
	RedisURL string `toml:"redis_url"`

	// MongoURI selects the mongo tree store when set; trees are held in
	// memory otherwise.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// configPath returns the config file location using the XDG standard
// (~/.config/kindred/config.toml).
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

// LoadConfig reads the user's config file. A missing file is not an
// error and yields the zero config.
func LoadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	return LoadConfigFile(path)
}

// LoadConfigFile reads a config file from an explicit path.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
