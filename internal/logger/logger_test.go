package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		format Format
		want   string
	}{
		{format: FormatJSON, want: `"rows":4`},
		{format: FormatText, want: "rows=4"},
		{format: FormatPretty, want: "rows=4"},
		{format: "", want: "rows=4"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		log, err := New(&buf, Options{Level: slog.LevelInfo, Format: tc.format})
		if err != nil {
			t.Fatalf("New(%q): %v", tc.format, err)
		}
		log.Info("decoded", "rows", 4)
		if !strings.Contains(buf.String(), tc.want) {
			t.Fatalf("format %q: expected %q in output, got: %s", tc.format, tc.want, buf.String())
		}
	}

	if _, err := New(&bytes.Buffer{}, Options{Format: "xml"}); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log, err := New(&buf, Options{Level: slog.LevelWarn, Format: FormatJSON})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("should not appear")
	log.Debug("also should not appear")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warn message in output, got: %s", buf.String())
	}
}

func TestWithAndGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log, _ := New(&buf, Options{Format: FormatPretty})
	log.With("file", "train.dense").WithGroup("layout").Info("read", "example_size", 784)

	out := buf.String()
	if !strings.Contains(out, "file=train.dense") {
		t.Fatalf("expected handler attr in output, got: %s", out)
	}
	if !strings.Contains(out, "layout.example_size=784") {
		t.Fatalf("expected grouped attr in output, got: %s", out)
	}
	if !strings.Contains(out, "INF") {
		t.Fatalf("expected level tag in output, got: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log, _ := New(&buf, Options{Format: FormatText})

	FromContext(WithContext(context.Background(), log)).Info("roundtrip test")
	if !strings.Contains(buf.String(), "roundtrip test") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	log.Error("dropped")
	if log.Slog().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger should not enable error records")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q): unexpected error state %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tc.input, tc.want, got)
		}
	}
}

func TestPrettyQuoting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Info("test", "path", "my data.dense", "name", "simple")

	out := buf.String()
	if !strings.Contains(out, `path="my data.dense"`) {
		t.Fatalf("expected quoted string with spaces, got: %s", out)
	}
	if !strings.Contains(out, "name=simple") {
		t.Fatalf("expected unquoted simple string, got: %s", out)
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
	if h.WithGroup("") != h {
		t.Error("WithGroup with empty name should return the same handler")
	}
}
