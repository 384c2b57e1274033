// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration from the XDG config dir.
// Settings come from goerp.yaml overlaid with GOERP_-prefixed environment
// variables. Only non-secret settings are kept here; the server password
// goes to the OS keychain.
package config

import (
	"os"
	"path/filepath"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"goerp/cli/internal/errors"
	"goerp/cli/internal/xdg"
)

// FileName is the name of the config file inside the XDG config dir.
const FileName = "goerp.yaml"

// envPrefix is the prefix of environment overrides (GOERP_SERVER, ...).
const envPrefix = "GOERP_"

// Config holds non-sensitive client settings.
type Config struct {
	// Server is the object server root URL.
	Server string `koanf:"server" yaml:"server"`
	// Database is the server-side database of the session.
	Database string `koanf:"database" yaml:"database"`
	// Username is the login used to authenticate.
	Username string `koanf:"username" yaml:"username"`
	// Compatible selects the positional calling convention for servers
	// that predate keyword-argument support.
	Compatible bool `koanf:"compatible" yaml:"compatible"`
	// AutoContext injects Context into dynamic calls lacking an explicit
	// context keyword.
	AutoContext bool `koanf:"auto_context" yaml:"auto_context"`
	// Context is the ambient call context (language, timezone, ...).
	Context map[string]any `koanf:"context" yaml:"context,omitempty"`
	// TimeoutSeconds bounds each remote call.
	TimeoutSeconds int `koanf:"timeout_seconds" yaml:"timeout_seconds"`
	// LogLevel controls CLI verbosity.
	LogLevel string `koanf:"log_level" yaml:"log_level"`
}

// defaults returns the configuration used when no file or env override is
// present.
func defaults() Config {
	return Config{
		AutoContext:    true,
		TimeoutSeconds: 30,
		LogLevel:       "info",
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads configuration; a missing file returns defaults, and
// environment variables override both.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return loadFrom(p)
}

// loadFrom is Load against an explicit file path, for tests.
func loadFrom(path string) (Config, error) {
	c := defaults()
	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
			return c, errors.Wrap(errors.Config, "reading "+path, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return c, errors.Wrap(errors.Config, "reading environment", err)
	}
	if err := k.Unmarshal("", &c); err != nil {
		return c, errors.Wrap(errors.Config, "unmarshaling configuration", err)
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.Config, "encoding configuration", err)
	}
	return os.WriteFile(p, b, 0o600)
}

// Validate checks that the settings needed to open a session are present.
func (c Config) Validate() error {
	if c.Server == "" {
		return errors.New(errors.Config, "server URL is not configured (run: goerp login --server ...)")
	}
	if c.Database == "" {
		return errors.New(errors.Config, "database is not configured (run: goerp login --database ...)")
	}
	if c.Username == "" {
		return errors.New(errors.Config, "username is not configured (run: goerp login --username ...)")
	}
	return nil
}
