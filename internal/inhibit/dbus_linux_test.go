//go:build linux

package inhibit

import "testing"

func TestInhibitCall_GnomeDisplaySleep(t *testing.T) {
	call := inhibitCall(FacilityGnomeSession, "org.powersaveblocker.app", "Power Save Blocker", DisplaySleep)

	if call.dest != "org.gnome.SessionManager" {
		t.Errorf("dest = %q", call.dest)
	}
	if string(call.path) != "/org/gnome/SessionManager" {
		t.Errorf("path = %q", call.path)
	}
	if call.method != "org.gnome.SessionManager.Inhibit" {
		t.Errorf("method = %q", call.method)
	}
	if len(call.args) != 4 {
		t.Fatalf("got %d args, want 4", len(call.args))
	}
	// Display sleep inhibits both idle marking (8) and suspend (4).
	if flags := call.args[3].(uint32); flags != 12 {
		t.Errorf("flags = %d, want 12", flags)
	}
}

func TestInhibitCall_GnomeSystemSleep(t *testing.T) {
	call := inhibitCall(FacilityGnomeSession, "app", "reason", SystemSleep)

	if flags := call.args[3].(uint32); flags != 4 {
		t.Errorf("flags = %d, want 4", flags)
	}
}

func TestUninhibitCall_Gnome(t *testing.T) {
	call := uninhibitCall(FacilityGnomeSession, 0)

	if call.method != "org.gnome.SessionManager.Uninhibit" {
		t.Errorf("method = %q", call.method)
	}
	if cookie := call.args[0].(uint32); cookie != 0 {
		t.Errorf("cookie = %d, want 0", cookie)
	}
}

func TestInhibitCall_ScreenSaver(t *testing.T) {
	call := inhibitCall(FacilityScreenSaver, "app", "reason", DisplaySleep)

	if call.dest != "org.freedesktop.ScreenSaver" {
		t.Errorf("dest = %q", call.dest)
	}
	if string(call.path) != "/org/freedesktop/ScreenSaver" {
		t.Errorf("path = %q", call.path)
	}
	if call.method != "org.freedesktop.ScreenSaver.Inhibit" {
		t.Errorf("method = %q", call.method)
	}
	if len(call.args) != 2 {
		t.Errorf("got %d args, want 2", len(call.args))
	}
}

func TestUninhibitCall_ScreenSaver(t *testing.T) {
	call := uninhibitCall(FacilityScreenSaver, 42)

	// ScreenSaver spells the member "UnInhibit", not "Uninhibit".
	if call.method != "org.freedesktop.ScreenSaver.UnInhibit" {
		t.Errorf("method = %q", call.method)
	}
	if cookie := call.args[0].(uint32); cookie != 42 {
		t.Errorf("cookie = %d, want 42", cookie)
	}
}

func TestInhibitCall_PowerManagement(t *testing.T) {
	call := inhibitCall(FacilityPowerManagement, "app", "reason", SystemSleep)

	if call.dest != "org.freedesktop.PowerManagement" {
		t.Errorf("dest = %q", call.dest)
	}
	if string(call.path) != "/org/freedesktop/PowerManagement/Inhibit" {
		t.Errorf("path = %q", call.path)
	}
	if call.method != "org.freedesktop.PowerManagement.Inhibit.Inhibit" {
		t.Errorf("method = %q", call.method)
	}
}

func TestLogindInhibitCall(t *testing.T) {
	call := logindInhibitCall("app", "reason")

	if call.dest != "org.freedesktop.login1" {
		t.Errorf("dest = %q", call.dest)
	}
	if call.method != "org.freedesktop.login1.Manager.Inhibit" {
		t.Errorf("method = %q", call.method)
	}
	if len(call.args) != 4 {
		t.Fatalf("got %d args, want 4", len(call.args))
	}
	if what := call.args[0].(string); what != "sleep:idle" {
		t.Errorf("what = %q", what)
	}
	if mode := call.args[3].(string); mode != "block" {
		t.Errorf("mode = %q, want block", mode)
	}
}

func TestGnomeInhibitFlags(t *testing.T) {
	tests := []struct {
		kind Kind
		want uint32
	}{
		{DisplaySleep, gnomeInhibitIdle | gnomeInhibitSuspend},
		{SystemSleep, gnomeInhibitSuspend},
	}
	for _, tt := range tests {
		if got := gnomeInhibitFlags(tt.kind); got != tt.want {
			t.Errorf("gnomeInhibitFlags(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
