// Package config loads the CLI and server configuration.
//
// A config file (YAML or JSON) is decoded into a generic map and then into Config
// with mapstructure, starting from Default so absent keys keep their defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the complete runtime configuration.
type Config struct {
	Execution domain.ExecutionConfig `mapstructure:",squash"`

	// MaxStates rejects automata larger than this at the HTTP boundary. Zero disables the check.
	MaxStates            int           `mapstructure:"max_states"`
	RequireDeterministic bool          `mapstructure:"require_deterministic"`
	AnimationInterval    time.Duration `mapstructure:"animation_interval"`

	Log   LogConfig   `mapstructure:"log"`
	Store StoreConfig `mapstructure:"store"`
	Redis RedisConfig `mapstructure:"redis"`
	HTTP  HTTPConfig  `mapstructure:"http"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StoreConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Execution:         domain.DefaultExecutionConfig(),
		AnimationInterval: 500 * time.Millisecond,
		Log:               LogConfig{Level: "info", Format: "text"},
		Store:             StoreConfig{Kind: StoreFile, Path: ".automaton/designs"},
		Redis:             RedisConfig{Addr: "localhost:6379", Prefix: "automaton:design:"},
		HTTP:              HTTPConfig{Port: 8080},
	}
}

// Load reads the file at path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML or JSON config data over the defaults.
// Unknown keys are rejected so typos do not go unnoticed.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(raw) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that decode fine but make no sense.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid config: store.kind must be %q, %q or %q, got %q", StoreMemory, StoreFile, StoreRedis, c.Store.Kind)
	}
	if c.MaxStates < 0 {
		return fmt.Errorf("invalid config: max_states must not be negative")
	}
	if c.AnimationInterval <= 0 {
		return fmt.Errorf("invalid config: animation_interval must be positive")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid config: http.port %d out of range", c.HTTP.Port)
	}
	return nil
}
