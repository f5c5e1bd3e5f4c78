// Package config loads the optional TOML configuration of the what CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPath names the environment variable consulted when --config is unset.
const EnvPath = "WHAT_CONFIG"

// Partition holds the filter settings for one kind of match.
type Partition struct {
	Rarity  string   `koanf:"rarity"`
	Include []string `koanf:"include"`
	Exclude []string `koanf:"exclude"`
}

// Config mirrors the CLI flags. Zero values mean "not set".
type Config struct {
	Partition    `koanf:",squash"`
	Boundaryless Partition `koanf:"boundaryless"`

	Key              string        `koanf:"key"`
	Reverse          bool          `koanf:"reverse"`
	Format           string        `koanf:"format"`
	Signatures       string        `koanf:"signatures"`
	MaxBlobSize      int           `koanf:"max_blob_size"`
	SignatureTimeout time.Duration `koanf:"signature_timeout"`

	keys *koanf.Koanf
}

// Set reports whether key appeared in the loaded configuration.
func (c *Config) Set(key string) bool {
	return c.keys != nil && c.keys.Exists(key)
}

// Parse decodes TOML configuration data.
func Parse(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), toml.Parser()); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := &Config{keys: k}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Load reads the configuration at path. With an empty path it falls back to
// $WHAT_CONFIG; when neither is set it returns an empty Config.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
