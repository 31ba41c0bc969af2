// Package conf loads and persists the vspace configuration.
//
// Configuration is read from vspace.toml (discovered by walking up from the
// working directory), overridden by VSPACE_* environment variables, on top
// of built-in defaults.
package conf

import (
	"github.com/teranos/vspace/errors"
	"github.com/teranos/vspace/namespace"
)

// Config is the vspace configuration
type Config struct {
	Digest DigestConfig `mapstructure:"digest" toml:"digest"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
	Render RenderConfig `mapstructure:"render" toml:"render"`
}

// DigestConfig configures node identity digests
type DigestConfig struct {
	// Length is the digest length in bytes (1..8). Shorter digests raise
	// the collision-rehash rate; path identity stays exact either way.
	Length int `mapstructure:"length" toml:"length"`
}

// LogConfig configures the global logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`           // machine-readable output
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"` // same scale as the -v flag count
}

// RenderConfig configures tree rendering
type RenderConfig struct {
	ShowProvenance bool `mapstructure:"show_provenance" toml:"show_provenance"`
	ShowExclusions bool `mapstructure:"show_exclusions" toml:"show_exclusions"`
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Digest.Length < 1 || c.Digest.Length > 8 {
		return errors.Newf("digest.length must be between 1 and 8, got %d", c.Digest.Length)
	}
	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}

// RenderOptions maps the render section onto namespace render options.
func (c *Config) RenderOptions() namespace.RenderOptions {
	return namespace.RenderOptions{
		ShowProvenance: c.Render.ShowProvenance,
		ShowExclusions: c.Render.ShowExclusions,
	}
}
