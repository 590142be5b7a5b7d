package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	l, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without a level should be silent")
	}
}

func TestNew_LevelPrecedence(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	fromEnv, err := New(Options{DefaultLevel: "error"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !fromEnv.Core().Enabled(zapcore.WarnLevel) || fromEnv.Core().Enabled(zapcore.InfoLevel) {
		t.Error("environment level should beat the default")
	}

	explicit, err := New(Options{Level: "debug", DefaultLevel: "error"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !explicit.Core().Enabled(zapcore.DebugLevel) {
		t.Error("explicit level should beat the environment")
	}
}

func TestNew_WritesToFile(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	path := filepath.Join(t.TempDir(), "msgview.log")

	l, err := New(Options{DefaultLevel: "error", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	LogFetchFailure(l, "req-1", "http://127.0.0.1:5000/api", errors.New("connection refused"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	for _, want := range []string{"ERROR", "Error fetching API", "req-1", "connection refused"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
	}
}

func TestLogFetchFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	LogFetchFailure(l, "req-1", "http://h/api", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("level = %v, want error", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["endpoint"] != "http://h/api" || fields["error"] != "boom" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestLogFetchFailure_ExtraFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	LogFetchFailure(l, "req-1", "http://h/api", errors.New("boom"),
		zap.String("category", "network"),
		zap.Strings("hints", []string{"Start the backend"}),
	)

	fields := logs.All()[0].ContextMap()
	if fields["category"] != "network" || fields["request_id"] != "req-1" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if _, ok := fields["hints"]; !ok {
		t.Error("extra hints field missing")
	}
}

func TestLogFetchResponse_TruncatesBody(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	body := []byte(strings.Repeat("x", 300))
	LogFetchResponse(l, "req-1", 200, body)

	fields := logs.All()[0].ContextMap()
	if got := fields["body"].(string); len(got) != 256+len("...") {
		t.Errorf("body length = %d, want truncated to 256", len(got))
	}
	if fields["length"] != int64(300) {
		t.Errorf("length = %v, want 300", fields["length"])
	}
}

func TestSetLogger(t *testing.T) {
	saved := GetLogger()
	defer SetLogger(saved)

	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))

	Info("hello")
	Debug("hidden")

	if logs.Len() != 1 {
		t.Errorf("got %d entries, want 1", logs.Len())
	}
}
