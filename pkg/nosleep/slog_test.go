package nosleep

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	adapter := NewSlogAdapter(slog.New(handler))

	buf.Reset()
	adapter.Debug("debug message", "key", "value")
	if !strings.Contains(buf.String(), "debug message") {
		t.Errorf("Debug() did not log message, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("Debug() did not log key-value pair, got: %s", buf.String())
	}

	buf.Reset()
	adapter.Info("info message", "count", 42)
	if !strings.Contains(buf.String(), "count=42") {
		t.Errorf("Info() did not log key-value pair, got: %s", buf.String())
	}

	buf.Reset()
	adapter.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("Warn() did not log message, got: %s", buf.String())
	}

	buf.Reset()
	adapter.Error("error message", "err", "boom")
	if !strings.Contains(buf.String(), "err=boom") {
		t.Errorf("Error() did not log key-value pair, got: %s", buf.String())
	}
}

func TestNewSlogAdapter_NilUsesDefault(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter.logger == nil {
		t.Error("nil logger was not replaced with slog.Default()")
	}
}

func TestNopLogger_DoesNothing(t *testing.T) {
	// Must not panic.
	var l Logger = nopLogger{}
	l.Debug("a")
	l.Info("b", "k", "v")
	l.Warn("c")
	l.Error("d")
}
