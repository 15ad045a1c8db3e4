package cache

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/BurntSushi/toml"
)

// Config describes one version of the offline assets.
type Config struct {
	// Name identifies the version. Changing it is the only way to refresh the cached assets.
	Name string `toml:"name"`
	// Origin is the base URL the assets are fetched from.
	Origin string `toml:"origin"`
	// Manifest lists the asset paths stored at install time.
	Manifest []string `toml:"manifest"`
}

// DefaultConfig returns the configuration of the signing page.
func DefaultConfig() Config {
	return Config{
		Name:   "assinatura-digital-v1",
		Origin: "http://localhost:8000",
		Manifest: []string{
			"/",
			"/index.html",
			"/style.css",
			"/app.js",
			"/icon.png",
		},
	}
}

// LoadConfig reads a TOML file. Missing fields keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the version is named and the origin is an absolute URL.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("cache name is required")
	}
	u, err := url.Parse(c.Origin)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("origin %q must be an absolute URL", c.Origin)
	}
	return nil
}
