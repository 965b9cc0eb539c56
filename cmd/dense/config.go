package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/dense/internal/logger"
	"github.com/samcharles93/dense/pkg/dense"
)

// Config is the optional config file (~/.config/dense/config.yaml). Values
// only apply when the matching flag was not given on the command line.
type Config struct {
	DatasetsDir   string `yaml:"datasets_dir"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	ServerAddress string `yaml:"server_address"`

	// Default layout for every file.
	LayoutConfig `yaml:",inline"`

	// Per-dataset layouts for serve, keyed by file name without extension.
	Datasets map[string]LayoutConfig `yaml:"datasets"`
}

// LayoutConfig mirrors the layout flags. Pointers distinguish "not set" from
// zero.
type LayoutConfig struct {
	ExampleSize *int   `yaml:"example_size"`
	Encoding    string `yaml:"encoding"`
	DataType    string `yaml:"data_type"`
	LabelType   string `yaml:"label_type"`
	DataWidth   *int   `yaml:"data_width"`
	LabelWidth  *int   `yaml:"label_width"`
}

// cfg is loaded once by setup before any command runs.
var cfg Config

func configPath() string {
	if configFile != "" {
		return configFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dense", "config.yaml")
}

// LoadConfig reads path. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// applyLayoutConfig copies config defaults into the layout flag variables.
func applyLayoutConfig(c *cli.Command, lc LayoutConfig) {
	if lc.ExampleSize != nil && !c.IsSet("example-size") {
		exampleSize = *lc.ExampleSize
	}
	if lc.Encoding != "" && !c.IsSet("encoding") {
		encodingName = lc.Encoding
	}
	if lc.DataType != "" && !c.IsSet("data-type") {
		dataType = lc.DataType
	}
	if lc.LabelType != "" && !c.IsSet("label-type") {
		labelType = lc.LabelType
	}
	if lc.DataWidth != nil && !c.IsSet("data-width") {
		dataWidth = *lc.DataWidth
	}
	if lc.LabelWidth != nil && !c.IsSet("label-width") {
		labelWidth = *lc.LabelWidth
	}
}

// Overlay returns base with every field set in lc replaced.
func (lc LayoutConfig) Overlay(base dense.Layout) (dense.Layout, error) {
	l := base
	if lc.ExampleSize != nil {
		l.ExampleSize = *lc.ExampleSize
	}
	if lc.Encoding != "" {
		enc, err := dense.ParseEncoding(lc.Encoding)
		if err != nil {
			return dense.Layout{}, err
		}
		l.Encoding = enc
	}
	if lc.DataType != "" {
		dt, err := dense.ParseDType(lc.DataType)
		if err != nil {
			return dense.Layout{}, err
		}
		l.DataType = dt
	}
	if lc.LabelType != "" {
		dt, err := dense.ParseDType(lc.LabelType)
		if err != nil {
			return dense.Layout{}, err
		}
		l.LabelType = dt
	}
	if lc.DataWidth != nil {
		l.DataWidth = *lc.DataWidth
	}
	if lc.LabelWidth != nil {
		l.LabelWidth = *lc.LabelWidth
	}
	return l, l.Validate()
}

// setup loads the config file and installs the logger in the context.
func setup(ctx context.Context, c *cli.Command) (context.Context, error) {
	loaded, err := LoadConfig(configPath())
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: config: %v", err), 1)
	}
	cfg = loaded

	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	if debug {
		level = slog.LevelDebug
	}
	log, err := logger.New(errWriter(c), logger.Options{
		Level:  level,
		Format: logger.Format(logFormat),
		Source: level <= slog.LevelDebug,
	})
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return logger.WithContext(ctx, log), nil
}
