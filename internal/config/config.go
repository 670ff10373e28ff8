// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles xddl project configuration.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/document"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// FileName is the name of the project configuration file.
const FileName = "xddl.yaml"

// EnvPrefix prefixes the environment variables overriding configuration
// keys, e.g. XDDL_OUTPUT or XDDL_LOG_LEVEL.
const EnvPrefix = "XDDL"

// Defaults.
const (
	DefaultOutput    = "gen"
	DefaultFormat    = "yaml"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// Config represents the xddl.yaml project configuration file.
type Config struct {
	Version  int            `yaml:"version" mapstructure:"version"`
	Spec     string         `yaml:"spec" mapstructure:"spec"`
	Output   string         `yaml:"output,omitempty" mapstructure:"output"`
	Format   string         `yaml:"format,omitempty" mapstructure:"format"`
	Parallel int            `yaml:"parallel,omitempty" mapstructure:"parallel"`
	Plugins  []PluginConfig `yaml:"plugins,omitempty" mapstructure:"plugins"`
	Log      LogConfig      `yaml:"log,omitempty" mapstructure:"log"`
}

// PluginConfig enables one plugin from the catalog.
type PluginConfig struct {
	Name    string         `yaml:"name" mapstructure:"name"`
	Options map[string]any `yaml:"options,omitempty" mapstructure:"options"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" mapstructure:"level"`
	Format string `yaml:"format,omitempty" mapstructure:"format"`
}

// New returns a configuration for spec with every default applied.
func New(spec string) *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Spec:     spec,
		Output:   DefaultOutput,
		Format:   DefaultFormat,
		Parallel: 1,
		Log:      LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("version", CurrentConfigVersion)
	v.SetDefault("spec", "")
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("parallel", 1)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

// Load reads a Config from a file path. Environment variables prefixed with
// XDDL_ override scalar keys; nested keys use underscores, as in
// XDDL_LOG_LEVEL.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.Newf("unsupported config version %d", c.Version)
	}
	if strings.TrimSpace(c.Spec) == "" {
		return errors.New("spec is required")
	}
	if c.Parallel < 0 {
		return errors.Newf("parallel must not be negative, got %d", c.Parallel)
	}
	if _, err := document.FormatterFor(c.Format); err != nil {
		return errors.Wrap(err, "format")
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return errors.Wrap(err, "log.level")
		}
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return errors.Newf("log.format must be console or json, got %q", c.Log.Format)
	}

	seen := make(map[string]bool, len(c.Plugins))
	for i, p := range c.Plugins {
		if p.Name == "" {
			return errors.Newf("plugins[%d]: name is required", i)
		}
		if seen[p.Name] {
			return errors.Newf("plugins[%d]: %s is listed twice", i, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// PluginNames returns the configured plugin names in order.
func (c *Config) PluginNames() []string {
	names := make([]string, len(c.Plugins))
	for i, p := range c.Plugins {
		names[i] = p.Name
	}
	return names
}

// Plugin returns the configuration of the named plugin.
func (c *Config) Plugin(name string) (PluginConfig, bool) {
	for _, p := range c.Plugins {
		if p.Name == name {
			return p, true
		}
	}
	return PluginConfig{}, false
}

// OptionsNode returns the plugin options as a YAML node for the plugin
// catalog. It returns nil when no options are set.
func (p PluginConfig) OptionsNode() (*yaml.Node, error) {
	if len(p.Options) == 0 {
		return nil, nil
	}
	var node yaml.Node
	if err := node.Encode(p.Options); err != nil {
		return nil, errors.Wrapf(err, "plugin %s options", p.Name)
	}
	return &node, nil
}
