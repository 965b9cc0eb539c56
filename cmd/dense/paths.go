package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
)

const (
	envDenseConfig      = "DENSE_CONFIG"
	envDenseOutDir      = "DENSE_OUT_DIR"
	envDenseDatasetsDir = "DENSE_DATASETS_DIR"
)

// resolveConvertOut returns the output path for a conversion. Without an
// explicit flag the file is named after the input and placed in
// $DENSE_OUT_DIR (default ./out).
func resolveConvertOut(input, outFlag string) (string, bool, error) {
	outFlag = strings.TrimSpace(outFlag)
	if outFlag != "" {
		outPath := filepath.Clean(outFlag)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return "", false, err
		}
		return outPath, false, nil
	}

	base := filepath.Base(filepath.Clean(input))
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", true, fmt.Errorf("invalid input path: %q", input)
	}

	outDir := strings.TrimSpace(os.Getenv(envDenseOutDir))
	if outDir == "" {
		outDir = filepath.Join(".", "out")
	}
	outPath := filepath.Join(outDir, base+".dense")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", true, err
	}
	return outPath, true, nil
}

// resolveDatasetsDir picks the flag, then the config file, then the
// environment.
func resolveDatasetsDir(flag, fromConfig string) (string, error) {
	for _, dir := range []string{flag, fromConfig, os.Getenv(envDenseDatasetsDir)} {
		if dir = strings.TrimSpace(dir); dir != "" {
			st, err := os.Stat(dir)
			if err != nil {
				return "", err
			}
			if !st.IsDir() {
				return "", fmt.Errorf("datasets path is not a directory: %s", dir)
			}
			return dir, nil
		}
	}
	return "", fmt.Errorf("--dir is required unless datasets_dir or %s is set", envDenseDatasetsDir)
}

func outWriter(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(c *cli.Command) io.Writer {
	if w := c.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
