package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConvertOut(t *testing.T) {
	t.Run("explicit output wins", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "nested", "mnist.dense")

		got, defaulted, err := resolveConvertOut("train-images-idx3-ubyte", outPath)
		if err != nil {
			t.Fatalf("resolveConvertOut returned error: %v", err)
		}
		if defaulted {
			t.Fatalf("expected explicit output to not be defaulted")
		}
		if got != filepath.Clean(outPath) {
			t.Fatalf("unexpected output path: got %q want %q", got, filepath.Clean(outPath))
		}
		if _, err := os.Stat(filepath.Dir(got)); err != nil {
			t.Fatalf("expected output directory to exist: %v", err)
		}
	})

	t.Run("env output dir overrides default", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), "dense-out")
		t.Setenv(envDenseOutDir, envDir)

		got, defaulted, err := resolveConvertOut(filepath.Join("raw", "t10k-images.idx3-ubyte"), "")
		if err != nil {
			t.Fatalf("resolveConvertOut returned error: %v", err)
		}
		if !defaulted {
			t.Fatalf("expected output to be defaulted")
		}
		want := filepath.Join(envDir, "t10k-images.dense")
		if got != want {
			t.Fatalf("unexpected output path: got %q want %q", got, want)
		}
	})

	t.Run("default output dir is ./out", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		tmp := t.TempDir()
		if err := os.Chdir(tmp); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		defer func() {
			_ = os.Chdir(wd)
		}()
		t.Setenv(envDenseOutDir, "")

		got, _, err := resolveConvertOut("images.idx", "")
		if err != nil {
			t.Fatalf("resolveConvertOut returned error: %v", err)
		}
		if want := filepath.Join("out", "images.dense"); got != want {
			t.Fatalf("unexpected output path: got %q want %q", got, want)
		}
		if _, err := os.Stat(filepath.Join(tmp, "out")); err != nil {
			t.Fatalf("expected ./out to be created: %v", err)
		}
	})
}

func TestResolveDatasetsDir(t *testing.T) {
	flagDir := t.TempDir()
	cfgDir := t.TempDir()
	envDir := t.TempDir()
	t.Setenv(envDenseDatasetsDir, envDir)

	if got, err := resolveDatasetsDir(flagDir, cfgDir); err != nil || got != flagDir {
		t.Fatalf("flag: got %q, %v", got, err)
	}
	if got, err := resolveDatasetsDir("", cfgDir); err != nil || got != cfgDir {
		t.Fatalf("config: got %q, %v", got, err)
	}
	if got, err := resolveDatasetsDir("", ""); err != nil || got != envDir {
		t.Fatalf("env: got %q, %v", got, err)
	}

	file := filepath.Join(t.TempDir(), "x.dense")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := resolveDatasetsDir(file, ""); err == nil {
		t.Fatalf("expected a regular file to be rejected")
	}

	t.Setenv(envDenseDatasetsDir, "")
	if _, err := resolveDatasetsDir("", ""); err == nil {
		t.Fatalf("expected an error with no directory configured")
	}
}
