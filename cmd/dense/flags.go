package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dense/pkg/dense"
)

var (
	configFile   string
	exampleSize  int
	encodingName string
	dataType     string
	labelType    string
	dataWidth    int
	labelWidth   int
	logLevel     string
	logFormat    string
	debug        bool
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Usage:       "path to config.yaml (default: $XDG_CONFIG_HOME/dense/config.yaml)",
		Sources:     cli.EnvVars(envDenseConfig),
		Destination: &configFile,
	}
}

func layoutFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "example-size",
			Aliases:     []string{"n"},
			Usage:       "number of data values per example",
			Destination: &exampleSize,
		},
		&cli.StringFlag{
			Name:        "encoding",
			Usage:       "field encoding (native, packed)",
			Value:       "native",
			Destination: &encodingName,
		},
		&cli.StringFlag{
			Name:        "data-type",
			Usage:       "native data element type (u8, u16, u32, u64, i8, i16, i32, i64, f32, f64)",
			Value:       "u8",
			Destination: &dataType,
		},
		&cli.StringFlag{
			Name:        "label-type",
			Usage:       "native label element type",
			Value:       "u8",
			Destination: &labelType,
		},
		&cli.IntFlag{
			Name:        "data-width",
			Usage:       "packed data field width in bytes (1-8)",
			Value:       1,
			Destination: &dataWidth,
		},
		&cli.IntFlag{
			Name:        "label-width",
			Usage:       "packed label field width in bytes (1-8)",
			Value:       1,
			Destination: &labelWidth,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// layoutFromFlags builds the layout after config defaults have been applied.
func layoutFromFlags() (dense.Layout, error) {
	if exampleSize <= 0 {
		return dense.Layout{}, errors.New("--example-size is required and must be positive")
	}
	enc, err := dense.ParseEncoding(encodingName)
	if err != nil {
		return dense.Layout{}, err
	}
	l := dense.Layout{ExampleSize: exampleSize, Encoding: enc}
	if enc == dense.EncodingPacked {
		l.DataWidth, l.LabelWidth = dataWidth, labelWidth
	} else {
		if l.DataType, err = dense.ParseDType(dataType); err != nil {
			return dense.Layout{}, fmt.Errorf("data type: %w", err)
		}
		if l.LabelType, err = dense.ParseDType(labelType); err != nil {
			return dense.Layout{}, fmt.Errorf("label type: %w", err)
		}
	}
	if err := l.Validate(); err != nil {
		return dense.Layout{}, err
	}
	return l, nil
}
