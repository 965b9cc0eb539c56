package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dense/internal/api"
	"github.com/samcharles93/dense/internal/logger"
	"github.com/samcharles93/dense/internal/version"
	"github.com/samcharles93/dense/pkg/dense"
)

const defaultServeAddr = "127.0.0.1:8080"

func serveCmd() *cli.Command {
	var (
		dir         string
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a directory of dense files over a read-only HTTP API",
		Flags: append(layoutFlags(),
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "datasets directory (default: datasets_dir or $DENSE_DATASETS_DIR)",
				Destination: &dir,
			},
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       defaultServeAddr,
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			root, err := resolveDatasetsDir(dir, cfg.DatasetsDir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if cfg.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = cfg.ServerAddress
			}

			applyLayoutConfig(cmd, cfg.LayoutConfig)
			def, err := layoutFromFlags()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			overrides, err := datasetLayouts(def, cfg.Datasets)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			store := api.NewDatasetStore(root, def, overrides)
			server := api.NewServer(store, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "dir", root, "layout", def.String(), "overrides", len(overrides), "version", version.String())
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// datasetLayouts resolves the per-dataset config entries on top of def.
func datasetLayouts(def dense.Layout, entries map[string]LayoutConfig) (map[string]dense.Layout, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make(map[string]dense.Layout, len(entries))
	for name, lc := range entries {
		l, err := lc.Overlay(def)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", name, err)
		}
		out[name] = l
	}
	return out, nil
}
