package inhibit

import (
	"strings"
	"testing"
)

func TestInhibitCommand_Linux(t *testing.T) {
	cmd, err := inhibitCommand("linux", SystemSleep, "myapp", "long build")
	if err != nil {
		t.Fatalf("inhibitCommand() failed: %v", err)
	}
	for _, want := range []string{
		"systemd-inhibit",
		"--what=sleep:idle",
		"--who='myapp'",
		"--why='long build'",
		"--mode=block",
		"sleep infinity",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command %q missing %q", cmd, want)
		}
	}
}

func TestInhibitCommand_Darwin(t *testing.T) {
	display, err := inhibitCommand("darwin", DisplaySleep, "app", "r")
	if err != nil {
		t.Fatalf("inhibitCommand() failed: %v", err)
	}
	if display != "caffeinate -d -i" {
		t.Errorf("display command = %q", display)
	}

	system, err := inhibitCommand("darwin", SystemSleep, "app", "r")
	if err != nil {
		t.Fatalf("inhibitCommand() failed: %v", err)
	}
	if system != "caffeinate -i" {
		t.Errorf("system command = %q", system)
	}
}

func TestInhibitCommand_UnsupportedOS(t *testing.T) {
	if _, err := inhibitCommand("windows", SystemSleep, "app", "r"); err == nil {
		t.Error("inhibitCommand(windows) should have failed")
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "'plain'"},
		{"two words", "'two words'"},
		{"it's", `'it'\''s'`},
	}
	for _, tt := range tests {
		if got := shellQuote(tt.in); got != tt.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSSHAuthMethods(t *testing.T) {
	if _, err := sshAuthMethods(nil); err == nil {
		t.Error("nil auth should have failed")
	}

	methods, err := sshAuthMethods(PasswordAuth{Password: "secret"})
	if err != nil {
		t.Fatalf("PasswordAuth failed: %v", err)
	}
	if len(methods) != 1 {
		t.Errorf("got %d methods, want 1", len(methods))
	}

	if _, err := sshAuthMethods(KeyAuth{PrivateKeyPath: "/nonexistent/key"}); err == nil {
		t.Error("KeyAuth with missing file should have failed")
	}
}

func TestNewRemoteBackend_Validation(t *testing.T) {
	if _, err := NewRemoteBackend(Config{}, RemoteConfig{}); err == nil {
		t.Error("missing host should have failed")
	}
	if _, err := NewRemoteBackend(Config{}, RemoteConfig{Host: "example.com"}); err == nil {
		t.Error("missing auth should have failed")
	}
}
