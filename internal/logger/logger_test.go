package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	t.Run("default level hides info", func(t *testing.T) {
		buf.Reset()
		Init(false)

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
			t.Error("debug/info should be hidden at default level")
		}
		if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
			t.Error("warn/error should always be shown")
		}
	})

	t.Run("verbose shows everything", func(t *testing.T) {
		buf.Reset()
		Init(true)

		Debug("debug message")
		Info("info message")

		out := buf.String()
		if !strings.Contains(out, "[DEBUG]") || !strings.Contains(out, "[INFO]") {
			t.Errorf("verbose mode should show debug and info: %q", out)
		}
	})
}

func TestFieldsOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel(LevelDebug)

	InfoFields("step complete", map[string]interface{}{
		"step":   "certs-staging",
		"domain": "example.org",
	})

	out := buf.String()
	// Keys are sorted, so domain comes before step
	if !strings.Contains(out, "domain=example.org step=certs-staging") {
		t.Errorf("unexpected fields output: %q", out)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel(LevelError)

	LogError(nil, "should not log")
	if buf.Len() != 0 {
		t.Error("LogError(nil) should produce no output")
	}
}
