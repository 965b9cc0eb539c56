package main

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dense/internal/logger"
	"github.com/samcharles93/dense/pkg/dense"
)

type inspectReport struct {
	dense.Info
	Layout   string         `json:"layout"`
	Encoding string         `json:"encoding"`
	Head     []dense.Record `json:"head,omitempty"`
}

func inspectCmd() *cli.Command {
	var (
		head   int
		asJSON bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show the record size, row count and leading rows of a dense file",
		ArgsUsage: "FILE",
		Flags: append(layoutFlags(),
			&cli.IntFlag{Name: "head", Usage: "print the first N rows", Destination: &head},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if cmd.Args().Len() != 1 {
				return cli.Exit("error: inspect takes exactly one FILE", 1)
			}
			path := cmd.Args().First()

			applyLayoutConfig(cmd, cfg.LayoutConfig)
			layout, err := layoutFromFlags()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Debug("inspecting", "path", path, "layout", layout.String())

			report, err := inspectFile(path, layout, head)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			w := outWriter(cmd)
			if asJSON {
				b, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(b))
				return err
			}
			printInspect(w, report)
			return nil
		},
	}
}

func inspectFile(path string, layout dense.Layout, head int) (inspectReport, error) {
	info, err := dense.Stat(path, layout)
	if err != nil {
		return inspectReport{}, err
	}
	report := inspectReport{Info: info, Layout: layout.String(), Encoding: layout.Encoding.String()}
	if head <= 0 || info.Rows == 0 {
		return report, nil
	}

	f, err := dense.Open(path, layout)
	if err != nil {
		return inspectReport{}, err
	}
	defer func() { _ = f.Close() }()

	n := min(int64(head), info.Rows)
	for i := int64(0); i < n; i++ {
		rec, err := f.Record(i)
		if err != nil {
			return inspectReport{}, err
		}
		report.Head = append(report.Head, rec)
	}
	return report, nil
}

func printInspect(w io.Writer, r inspectReport) {
	_, _ = fmt.Fprintf(w, "file:        %s\n", r.Path)
	_, _ = fmt.Fprintf(w, "layout:      %s (%s)\n", r.Layout, r.Encoding)
	_, _ = fmt.Fprintf(w, "record size: %d bytes\n", r.RecordSize)
	_, _ = fmt.Fprintf(w, "size:        %s\n", formatSize(r.Size))
	_, _ = fmt.Fprintf(w, "rows:        %d\n", r.Rows)
	for _, rec := range r.Head {
		_, _ = fmt.Fprintf(w, "  %6d  %v -> %v\n", rec.Index, rec.Data, rec.Label)
	}
}

func formatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
