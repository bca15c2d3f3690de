package rdf

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config describes a store opened from a YAML file.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	// ModelOptions is passed to NewModel.
	ModelOptions string `yaml:"model_options"`
	// Format is the default syntax for reading and writing.
	Format string `yaml:"format"`
	// BaseURI resolves relative IRIs while parsing.
	BaseURI string `yaml:"base_uri"`
	// Namespaces maps prefixes to namespace URIs for serialization.
	Namespaces map[string]string `yaml:"namespaces"`
	// MaxObjects caps live engine objects (0 = no limit).
	MaxObjects int `yaml:"max_objects"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Name    string `yaml:"name"`
	Options string `yaml:"options"`
}

// DefaultConfig returns an in-memory Turtle configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendMemory,
		},
		Format:   "turtle",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !slices.Contains(Backends(), c.Storage.Backend) {
		return fmt.Errorf("storage.backend %q is not one of %v", c.Storage.Backend, Backends())
	}
	if !CheckParserName(c.Format) || !CheckSerializerName(c.Format) {
		return fmt.Errorf("format %q is not supported", c.Format)
	}
	if c.MaxObjects < 0 {
		return fmt.Errorf("max_objects must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// NamespaceTable returns the configured prefixes.
func (c *Config) NamespaceTable() *Namespaces {
	ns := NewNamespaces()
	for prefix, uri := range c.Namespaces {
		ns.Add(prefix, uri)
	}
	return ns
}

// Store bundles the world, storage and model opened from a Config.
type Store struct {
	World   *World
	Storage *Storage
	Model   *Model
}

// Close frees the model, the storage and the world, in that order.
func (s *Store) Close() {
	s.Model.Close()
	s.Storage.Close()
	s.World.Close()
}

// Open creates a world, storage and model as configured. opts are applied
// after the configured object limit.
func (c *Config) Open(opts ...Option) (*Store, error) {
	world, err := NewWorld(append([]Option{OptMaxObjects(c.MaxObjects)}, opts...)...)
	if err != nil {
		return nil, err
	}
	storage, err := NewStorage(world, c.Storage.Backend, c.Storage.Name, c.Storage.Options)
	if err != nil {
		world.Close()
		return nil, err
	}
	model, err := NewModel(world, storage, c.ModelOptions)
	if err != nil {
		storage.Close()
		world.Close()
		return nil, err
	}
	return &Store{World: world, Storage: storage, Model: model}, nil
}
