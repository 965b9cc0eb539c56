package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dense/internal/idx"
	"github.com/samcharles93/dense/internal/logger"
	"github.com/samcharles93/dense/pkg/dense"
)

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert other dataset formats to dense files",
		Commands: []*cli.Command{
			convertMNISTCmd(),
		},
	}
}

func convertMNISTCmd() *cli.Command {
	var (
		imagesPath string
		labelsPath string
		outPath    string
	)

	return &cli.Command{
		Name:  "mnist",
		Usage: "Convert an IDX image file and label file pair (u8 data, u8 label)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "images",
				Usage:       "IDX image file (e.g. train-images-idx3-ubyte)",
				Required:    true,
				Destination: &imagesPath,
			},
			&cli.StringFlag{
				Name:        "labels",
				Usage:       "IDX label file (e.g. train-labels-idx1-ubyte)",
				Required:    true,
				Destination: &labelsPath,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file (default: $DENSE_OUT_DIR/<images>.dense)",
				Destination: &outPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			start := time.Now()

			out, defaulted, err := resolveConvertOut(imagesPath, outPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if defaulted {
				log.Info("output path defaulted", "path", out)
			}

			images, err := idx.Open(imagesPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: images: %v", err), 1)
			}
			labels, err := idx.Open(labelsPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: labels: %v", err), 1)
			}
			data, lab, err := idx.Examples(images, labels)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if err := dense.Write(out, data, lab, dense.Uint8, dense.Uint8); err != nil {
				return cli.Exit(fmt.Sprintf("error: write: %v", err), 1)
			}
			log.Info("converted",
				"out", out,
				"rows", data.R,
				"example_size", data.C,
				"elapsed", time.Since(start).Round(time.Millisecond),
			)
			_, _ = fmt.Fprintf(outWriter(cmd), "%s: %d rows, example size %d\n", out, data.R, data.C)
			return nil
		},
	}
}
