package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestFromContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext should return the stored logger")
	}

	if FromContext(context.Background()) != slog.Default() {
		t.Error("FromContext should fall back to slog.Default")
	}
}

func TestSetupTracing_Disabled(t *testing.T) {
	shutdown, err := SetupTracing("robosched", "test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown should not fail: %v", err)
	}
}

func TestSetupTracing_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.json")

	shutdown, err := SetupTracing("robosched", "test", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := Tracer().Start(context.Background(), "test.span")
	EndSpan(span, errors.New("boom"))

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("no spans written to trace file")
	}
}
