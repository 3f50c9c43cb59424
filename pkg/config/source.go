package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Source supplies raw settings. Get never fails: an absent key yields def.
type Source interface {
	Get(key, def string) string
}

// SourceOption configures EnvSource.
type SourceOption func(*SourceConfig)

// SourceConfig holds environment source configuration.
type SourceConfig struct {
	EnvFile string
	Lookup  func(key string) (string, bool)
}

// WithEnvFile sets a dotenv file consulted for keys missing from the process environment.
func WithEnvFile(path string) SourceOption {
	return func(c *SourceConfig) {
		c.EnvFile = path
	}
}

// WithLookup replaces os.LookupEnv.
func WithLookup(fn func(key string) (string, bool)) SourceOption {
	return func(c *SourceConfig) {
		c.Lookup = fn
	}
}

// EnvSource reads the process environment, falling back to an optional dotenv file.
type EnvSource struct {
	lookup func(key string) (string, bool)
	file   map[string]string
}

// NewEnvSource creates an environment source. A missing env file is ignored;
// an unreadable or malformed one is an error.
func NewEnvSource(opts ...SourceOption) (*EnvSource, error) {
	cfg := &SourceConfig{
		Lookup: os.LookupEnv,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	s := &EnvSource{lookup: cfg.Lookup, file: map[string]string{}}
	if cfg.EnvFile == "" {
		return s, nil
	}

	if _, err := os.Stat(cfg.EnvFile); errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}

	file, err := godotenv.Read(cfg.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", cfg.EnvFile, err)
	}
	s.file = file
	return s, nil
}

// Get returns the process value, then the env file value, then def.
func (s *EnvSource) Get(key, def string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	if v, ok := s.file[key]; ok {
		return v
	}
	return def
}

// MapSource is a Source backed by a fixed mapping.
type MapSource map[string]string

// Get returns m[key] or def.
func (m MapSource) Get(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// DecodeNewlines turns literal `\n` sequences into newlines, as stored by
// deployment tooling that cannot carry multi-line values.
func DecodeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
