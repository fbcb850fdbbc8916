package inhibit

import (
	"errors"
	"testing"
	"time"
)

func TestNewBackendForOS_Unsupported(t *testing.T) {
	for _, goos := range []string{"plan9", "js", "freebsd", ""} {
		_, err := NewBackendForOS(goos, Config{})
		if err == nil {
			t.Errorf("NewBackendForOS(%q) should have failed", goos)
			continue
		}
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("NewBackendForOS(%q) error = %v, want ErrUnsupported", goos, err)
		}
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{DisplaySleep, "display-sleep"},
		{SystemSleep, "system-sleep"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.AppName == "" {
		t.Error("AppName default missing")
	}
	if cfg.Reason == "" {
		t.Error("Reason default missing")
	}
	if cfg.CallTimeout != DefaultCallTimeout {
		t.Errorf("CallTimeout = %v, want %v", cfg.CallTimeout, DefaultCallTimeout)
	}

	custom := Config{
		AppName:     "com.example.downloader",
		Reason:      "downloading",
		CallTimeout: time.Second,
	}.withDefaults()
	if custom.AppName != "com.example.downloader" || custom.Reason != "downloading" {
		t.Error("withDefaults overwrote explicit values")
	}
	if custom.CallTimeout != time.Second {
		t.Errorf("CallTimeout = %v, want 1s", custom.CallTimeout)
	}
}
