package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkers = 8
	DefaultAddr    = ":8090"
)

type Config struct {
	// Inputs
	Scripts []string `yaml:"scripts" validate:"required,min=1,dive,file"`
	Readme  string   `yaml:"readme" validate:"required,file"`

	// Output
	Output           string `yaml:"output" validate:"required,dir"`
	Template         string `yaml:"template" validate:"omitempty,dir"`
	SourceLinkPrefix string `yaml:"source_link_prefix"`

	// Page writes
	Workers     int  `yaml:"workers" validate:"gte=0"`
	VerifyLinks bool `yaml:"verify_links"`

	// Logging
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=text json"`

	// Preview server
	Addr string `yaml:"addr" validate:"required"`
}

// Load returns defaults overridden by FLAGDOC_* environment variables.
func Load() Config {
	cfg := Config{
		Template:         os.Getenv("FLAGDOC_TEMPLATE"),
		SourceLinkPrefix: os.Getenv("FLAGDOC_SOURCE_LINK_PREFIX"),

		Workers:     envInt("FLAGDOC_WORKERS", DefaultWorkers),
		VerifyLinks: envBool("FLAGDOC_VERIFY_LINKS", false),

		LogLevel:  envOr("FLAGDOC_LOG_LEVEL", "info"),
		LogFormat: envOr("FLAGDOC_LOG_FORMAT", "text"),

		Addr: envOr("FLAGDOC_ADDR", DefaultAddr),
	}

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return cfg
}

// LoadFile overlays the keys present in a YAML file onto c. Unknown keys are
// rejected so that typos do not pass silently.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
