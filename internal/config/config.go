// Package config loads the settings used by the roundtrip tool from a YAML
// file.
//
// Example:
//
//	message:
//	  decodeFilename: true
//	  ignoreMissingEndBoundary: false
//	limits:
//	  maxHeaderLength: ${MAX_HEADER}
//	  chunkSize: 4096
//
// Environment variables in the file are expanded before it is parsed. Any key
// that is left out keeps its default.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-mime/message"
)

// Config is the top-level configuration.
type Config struct {
	Message message.Config `yaml:"message"`
	Limits  Limits         `yaml:"limits"`
}

// Limits sets the sizes used by the parser.
type Limits struct {
	MaxHeaderLength int `yaml:"maxHeaderLength"`
	MaxPartLength   int `yaml:"maxPartLength"`
	ChunkSize       int `yaml:"chunkSize"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Message: message.DefaultConfig(),
		Limits: Limits{
			MaxHeaderLength: message.DefaultMaxHeaderLength,
			MaxPartLength:   message.DefaultMaxPartLength,
			ChunkSize:       message.DefaultChunkSize,
		},
	}
}

// Load reads the configuration from the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse reads the configuration from YAML data.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Limits.ChunkSize <= 0 {
		return fmt.Errorf("limits.chunkSize must be positive, got %d", c.Limits.ChunkSize)
	}
	return nil
}

// Options returns the parse options that apply this configuration.
func (c *Config) Options() []message.ParseOption {
	return []message.ParseOption{
		message.WithConfig(c.Message),
		message.WithMaxHeaderLength(c.Limits.MaxHeaderLength),
		message.WithMaxPartLength(c.Limits.MaxPartLength),
		message.WithChunkSize(c.Limits.ChunkSize),
	}
}
