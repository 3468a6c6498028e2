// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads tdjsonctl configuration from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"code.hybscloud.com/tdjson"
	"code.hybscloud.com/tdjson/loopback"
)

// ErrFormat reports a configuration file whose extension is not recognized.
var ErrFormat = errors.New("config: unsupported file format")

// Config is the resolved tdjsonctl configuration.
type Config struct {
	// LogFile is the engine log file. Empty leaves the engine default.
	LogFile string
	// Verbosity is the engine log verbosity.
	Verbosity tdjson.Level
	// ReceiveTimeout bounds each receive call.
	ReceiveTimeout time.Duration
	// IdleTimeout ends a split run once input is done and no answer arrived
	// for this long.
	IdleTimeout time.Duration
	// Producers is the number of sender clones fed from input.
	Producers int
	// Rate limits sends per second across all producers. Zero is unlimited.
	Rate float64
	// Burst is the limiter burst size.
	Burst int
	// MetricsAddr serves /metrics when set.
	MetricsAddr string
	// QueueCapacity bounds the loopback engine's answer queue.
	QueueCapacity int
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Verbosity:      tdjson.LevelError,
		ReceiveTimeout: time.Second,
		IdleTimeout:    2 * time.Second,
		Producers:      1,
		Burst:          1,
		QueueCapacity:  loopback.DefaultCapacity,
	}
}

// FieldError reports an invalid configuration field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return "config: " + e.Field + ": " + e.Reason
}

type fileConfig struct {
	LogFile        string  `toml:"log_file" yaml:"log_file"`
	Verbosity      any     `toml:"verbosity" yaml:"verbosity"`
	ReceiveTimeout string  `toml:"receive_timeout" yaml:"receive_timeout"`
	IdleTimeout    string  `toml:"idle_timeout" yaml:"idle_timeout"`
	Producers      int     `toml:"producers" yaml:"producers"`
	Rate           float64 `toml:"rate" yaml:"rate"`
	Burst          int     `toml:"burst" yaml:"burst"`
	MetricsAddr    string  `toml:"metrics_addr" yaml:"metrics_addr"`
	QueueCapacity  int     `toml:"queue_capacity" yaml:"queue_capacity"`
}

// Load reads path and overlays the keys it defines on [Default].
// The format follows the extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	var (
		raw     fileConfig
		defined func(key string) bool
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		defined = func(key string) bool { return meta.IsDefined(key) }
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		var keys map[string]any
		if err := yaml.Unmarshal(data, &keys); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		defined = func(key string) bool {
			_, ok := keys[key]
			return ok
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrFormat, path)
	}

	cfg, err := overlay(Default(), &raw, defined)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func overlay(cfg Config, raw *fileConfig, defined func(string) bool) (Config, error) {
	if defined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if defined("verbosity") {
		level, err := parseVerbosity(raw.Verbosity)
		if err != nil {
			return Config{}, &FieldError{Field: "verbosity", Reason: err.Error()}
		}
		cfg.Verbosity = level
	}
	if defined("receive_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReceiveTimeout))
		if err != nil {
			return Config{}, &FieldError{Field: "receive_timeout", Reason: err.Error()}
		}
		cfg.ReceiveTimeout = d
	}
	if defined("idle_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.IdleTimeout))
		if err != nil {
			return Config{}, &FieldError{Field: "idle_timeout", Reason: err.Error()}
		}
		cfg.IdleTimeout = d
	}
	if defined("producers") {
		cfg.Producers = raw.Producers
	}
	if defined("rate") {
		cfg.Rate = raw.Rate
	}
	if defined("burst") {
		cfg.Burst = raw.Burst
	}
	if defined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if defined("queue_capacity") {
		cfg.QueueCapacity = raw.QueueCapacity
	}
	return cfg, nil
}

// parseVerbosity accepts a level name or an integer.
func parseVerbosity(v any) (tdjson.Level, error) {
	switch v := v.(type) {
	case string:
		return tdjson.ParseLevel(v)
	case int:
		return tdjson.Level(v), nil
	case int64:
		return tdjson.Level(v), nil
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Verbosity < tdjson.LevelFatal || c.Verbosity > tdjson.MaxLevel:
		return &FieldError{Field: "verbosity", Reason: "out of range [0, " + strconv.Itoa(int(tdjson.MaxLevel)) + "]"}
	case strings.IndexByte(c.LogFile, 0) >= 0:
		return &FieldError{Field: "log_file", Reason: "contains NUL"}
	case c.ReceiveTimeout <= 0:
		return &FieldError{Field: "receive_timeout", Reason: "must be positive"}
	case c.IdleTimeout <= 0:
		return &FieldError{Field: "idle_timeout", Reason: "must be positive"}
	case c.Producers < 1:
		return &FieldError{Field: "producers", Reason: "must be at least 1"}
	case c.Rate < 0:
		return &FieldError{Field: "rate", Reason: "must not be negative"}
	case c.Rate > 0 && c.Burst < 1:
		return &FieldError{Field: "burst", Reason: "must be at least 1 when rate is set"}
	case c.QueueCapacity < 1:
		return &FieldError{Field: "queue_capacity", Reason: "must be at least 1"}
	}
	return nil
}
