package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/dense/internal/logger"
	"github.com/samcharles93/dense/pkg/dense"
)

type verifyResult struct {
	Path      string `json:"path"`
	Rows      int64  `json:"rows"`
	NonFinite int64  `json:"non_finite,omitempty"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

func verifyCmd() *cli.Command {
	var (
		jobs   int
		asJSON bool
	)

	return &cli.Command{
		Name:      "verify",
		Usage:     "Decode every record of one or more dense files",
		ArgsUsage: "FILE...",
		Flags: append(layoutFlags(),
			&cli.IntFlag{
				Name:        "jobs",
				Aliases:     []string{"j"},
				Usage:       "files verified in parallel",
				Value:       runtime.GOMAXPROCS(0),
				Destination: &jobs,
			},
			&cli.BoolFlag{Name: "json", Usage: "print results as JSON", Destination: &asJSON},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: verify needs at least one FILE", 1)
			}

			applyLayoutConfig(cmd, cfg.LayoutConfig)
			layout, err := layoutFromFlags()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			results := make([]verifyResult, len(paths))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(max(jobs, 1))
			for i, path := range paths {
				g.Go(func() error {
					results[i] = verifyFile(gctx, path, layout)
					log.Debug("verified", "path", path, "rows", results[i].Rows, "ok", results[i].OK)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if !r.OK {
					failed++
				}
			}

			w := outWriter(cmd)
			if asJSON {
				b, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(w, string(b))
			} else {
				printVerify(w, results)
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("error: %d of %d files failed verification", failed, len(results)), 1)
			}
			return nil
		},
	}
}

// verifyFile decodes every record of the file. Float NaN and Inf values are
// counted but do not fail the file.
func verifyFile(ctx context.Context, path string, layout dense.Layout) verifyResult {
	res := verifyResult{Path: path}
	f, err := dense.Open(path, layout)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer func() { _ = f.Close() }()

	err = f.Each(func(r dense.Record) error {
		if r.Index%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for _, v := range r.Data {
			if !finite(v) {
				res.NonFinite++
			}
		}
		if !finite(r.Label) {
			res.NonFinite++
		}
		res.Rows++
		return nil
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	return res
}

func finite(v any) bool {
	switch x := v.(type) {
	case float32:
		return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return true
	}
}

func printVerify(w io.Writer, results []verifyResult) {
	for _, r := range results {
		status := "ok"
		if !r.OK {
			status = "FAIL"
		}
		_, _ = fmt.Fprintf(w, "%-4s %s rows=%d", status, r.Path, r.Rows)
		if r.NonFinite > 0 {
			_, _ = fmt.Fprintf(w, " non_finite=%d", r.NonFinite)
		}
		if r.Error != "" {
			_, _ = fmt.Fprintf(w, " error=%q", r.Error)
		}
		_, _ = fmt.Fprintln(w)
	}
}
