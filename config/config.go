// Package config loads parser and logging settings for programs embedding
// quickhtml.
//
// Settings come from Default, optionally overlaid by a YAML file, then by
// environment variables prefixed with QUICKHTML:
//
//	QUICKHTML_PARSE_LOWERCASE_TAGS, QUICKHTML_PARSE_SCRIPT,
//	QUICKHTML_PARSE_STYLE, QUICKHTML_PARSE_PRE, QUICKHTML_PARSE_COMMENT,
//	QUICKHTML_LOG_LEVEL, QUICKHTML_LOG_DEV, QUICKHTML_MAX_INPUT_BYTES
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/quickhtml/dom"
)

const envPrefix = "QUICKHTML"

// Config holds all settings.
type Config struct {
	Parse ParseConfig `yaml:"parse" envconfig:"PARSE"`
	Log   LogConfig   `yaml:"log" envconfig:"LOG"`

	// MaxInputBytes caps what dom.ParseReader reads. Zero means no limit.
	MaxInputBytes int64 `yaml:"max_input_bytes" envconfig:"MAX_INPUT_BYTES"`
}

// ParseConfig mirrors the dom.ParseOptions switches.
type ParseConfig struct {
	LowerCaseTagName bool `yaml:"lowercase_tags" envconfig:"LOWERCASE_TAGS"`
	Script           bool `yaml:"script" envconfig:"SCRIPT"`
	Style            bool `yaml:"style" envconfig:"STYLE"`
	Pre              bool `yaml:"pre" envconfig:"PRE"`
	Comment          bool `yaml:"comment" envconfig:"COMMENT"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Development bool   `yaml:"development" envconfig:"DEV"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load returns Default with environment overrides applied.
func Load() (*Config, error) {
	cfg := Default()
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the YAML file at path on top of Default and then applies
// environment overrides. Unknown keys in the file are an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	if _, lerr := zapcore.ParseLevel(c.Log.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log level: %w", lerr))
	}
	if c.MaxInputBytes < 0 {
		err = multierr.Append(err, fmt.Errorf("max input bytes must not be negative, got %d", c.MaxInputBytes))
	}
	return err
}

// Logger builds a zap logger: JSON production output, or the console
// encoder when Development is set.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// ParseOptions converts the parse settings. log may be nil.
func (c *Config) ParseOptions(log *zap.Logger) *dom.ParseOptions {
	return &dom.ParseOptions{
		LowerCaseTagName: c.Parse.LowerCaseTagName,
		Script:           c.Parse.Script,
		Style:            c.Parse.Style,
		Pre:              c.Parse.Pre,
		Comment:          c.Parse.Comment,
		MaxInputBytes:    c.MaxInputBytes,
		Logger:           log,
	}
}
