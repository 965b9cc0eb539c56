package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dense/internal/idx"
	"github.com/samcharles93/dense/pkg/dense"
	"github.com/samcharles93/dense/pkg/grid"
)

// runApp runs the CLI with captured output. The flag variables are package
// globals, so these tests do not run in parallel.
func runApp(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	exampleSize, encodingName, dataType, labelType = 0, "native", "u8", "u8"
	dataWidth, labelWidth, debug = 1, 1, false

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	argv := append([]string{"dense", "--config", cfgPath, "--log-level", "error"}, args...)
	err := app.Run(context.Background(), argv)
	return stdout.String(), err
}

func writeIDX(t *testing.T, path string, dims []int, data []byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := idx.Write(f, dims, data); err != nil {
		t.Fatalf("write idx: %v", err)
	}
}

func TestConvertInspectVerify(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	images := filepath.Join(dir, "images.idx3")
	labels := filepath.Join(dir, "labels.idx1")
	out := filepath.Join(dir, "xor.dense")

	writeIDX(t, images, []int{4, 1, 2}, []byte{0, 0, 1, 0, 0, 1, 1, 1})
	writeIDX(t, labels, []int{4}, []byte{0, 1, 1, 0})

	stdout, err := runApp(t, cfgPath, "convert", "mnist", "--images", images, "--labels", labels, "--out", out)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(stdout, "4 rows") {
		t.Fatalf("unexpected convert output: %q", stdout)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := []byte{0, 0, 0, 1, 0, 1, 0, 1, 1, 1, 1, 0}
	if !bytes.Equal(raw, want) {
		t.Fatalf("output bytes: got % x want % x", raw, want)
	}

	stdout, err = runApp(t, cfgPath, "inspect", "--example-size", "2", "--head", "2", "--json", out)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var report struct {
		Rows       int64 `json:"rows"`
		RecordSize int   `json:"record_size"`
		Head       []struct {
			Data  []int `json:"data"`
			Label int   `json:"label"`
		} `json:"head"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode inspect output %q: %v", stdout, err)
	}
	if report.Rows != 4 || report.RecordSize != 3 || len(report.Head) != 2 || report.Head[1].Label != 1 {
		t.Fatalf("unexpected inspect report: %+v", report)
	}

	if _, err := runApp(t, cfgPath, "verify", "--example-size", "2", out); err != nil {
		t.Fatalf("verify: %v", err)
	}
	// 12 bytes is not a whole number of 5-byte records.
	if _, err := runApp(t, cfgPath, "verify", "--example-size", "4", out); err == nil {
		t.Fatalf("expected verify to fail with the wrong example size")
	}
}

func TestLayoutFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("example_size: 2\nlabel_type: u16\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	path := filepath.Join(dir, "u16.dense")
	// Two records of 2 x u8 + u16 label.
	if err := os.WriteFile(path, []byte{1, 2, 0x03, 0x01, 4, 5, 0x06, 0x00}, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	stdout, err := runApp(t, cfgPath, "inspect", "--head", "1", "--json", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var report struct {
		Rows int64 `json:"rows"`
		Head []struct {
			Label int `json:"label"`
		} `json:"head"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Rows != 2 || report.Head[0].Label != 0x0103 {
		t.Fatalf("config layout not applied: %+v", report)
	}

	// An explicit flag beats the config file.
	if _, err := runApp(t, cfgPath, "inspect", "--label-type", "u32", path); err == nil {
		t.Fatalf("expected 6-byte records to reject an 8-byte file")
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, err := runApp(t, filepath.Join(t.TempDir(), "none.yaml"), "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if info.Version == "" {
		t.Fatalf("empty version")
	}
}

func writeFloatFixture(t *testing.T, path string) {
	t.Helper()
	data, err := grid.FromRows([][]float32{{0.5, float32(math.NaN())}, {float32(math.Inf(1)), 2}})
	if err != nil {
		t.Fatalf("data grid: %v", err)
	}
	if err := dense.Write(path, data, grid.Column([]uint8{1, 0}), dense.Float32, dense.Uint8); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestVerifyCountsNonFinite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	path := filepath.Join(dir, "floats.dense")
	writeFloatFixture(t, path)

	stdout, err := runApp(t, cfgPath, "verify", "-n", "2", "--data-type", "f32", path)
	if err != nil {
		t.Fatalf("verify: %v (output %q)", err, stdout)
	}
	if !strings.HasPrefix(stdout, "ok ") || !strings.Contains(stdout, "rows=2") || !strings.Contains(stdout, "non_finite=2") {
		t.Fatalf("unexpected verify output: %q", stdout)
	}

	stdout, err = runApp(t, cfgPath, "verify", "-n", "2", "--data-type", "f32", "--json", path)
	if err != nil {
		t.Fatalf("verify --json: %v", err)
	}
	var results []verifyResult
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if len(results) != 1 || !results[0].OK || results[0].NonFinite != 2 || results[0].Rows != 2 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestInspectJSONNonFinite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	path := filepath.Join(dir, "floats.dense")
	writeFloatFixture(t, path)

	stdout, err := runApp(t, cfgPath, "inspect", "-n", "2", "--data-type", "f32", "--head", "2", "--json", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var report struct {
		Head []struct {
			Data []any `json:"data"`
		} `json:"head"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if len(report.Head) != 2 || report.Head[0].Data[1] != "NaN" || report.Head[1].Data[0] != "+Inf" {
		t.Fatalf("unexpected head: %+v", report.Head)
	}
}
