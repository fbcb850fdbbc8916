//go:build linux

package inhibit

import (
	dbus "github.com/godbus/dbus/v5"
)

// Inhibit flags defined by the org.gnome.SessionManager interface.
const (
	gnomeInhibitSuspend uint32 = 4
	gnomeInhibitIdle    uint32 = 8
)

// busCall describes one D-Bus method call: destination, object path, and
// the fully qualified method with its arguments.
type busCall struct {
	dest   string
	path   dbus.ObjectPath
	method string
	args   []interface{}
}

// gnomeInhibitFlags maps an inhibition kind to SessionManager.Inhibit flags.
// Display sleep needs both the idle and the suspend bit; system sleep only
// the suspend bit.
func gnomeInhibitFlags(kind Kind) uint32 {
	if kind == DisplaySleep {
		return gnomeInhibitIdle | gnomeInhibitSuspend
	}
	return gnomeInhibitSuspend
}

// inhibitCall builds the Inhibit request for a session-bus facility.
// The three session-bus interfaces take different argument lists:
// SessionManager wants (app_id, toplevel_xid, reason, flags), the two
// freedesktop interfaces want (app_id, reason).
func inhibitCall(facility Facility, appName, reason string, kind Kind) busCall {
	switch facility {
	case FacilityGnomeSession:
		return busCall{
			dest:   "org.gnome.SessionManager",
			path:   "/org/gnome/SessionManager",
			method: "org.gnome.SessionManager.Inhibit",
			args:   []interface{}{appName, uint32(0), reason, gnomeInhibitFlags(kind)},
		}
	case FacilityScreenSaver:
		return busCall{
			dest:   "org.freedesktop.ScreenSaver",
			path:   "/org/freedesktop/ScreenSaver",
			method: "org.freedesktop.ScreenSaver.Inhibit",
			args:   []interface{}{appName, reason},
		}
	default: // FacilityPowerManagement
		return busCall{
			dest:   "org.freedesktop.PowerManagement",
			path:   "/org/freedesktop/PowerManagement/Inhibit",
			method: "org.freedesktop.PowerManagement.Inhibit.Inhibit",
			args:   []interface{}{appName, reason},
		}
	}
}

// uninhibitCall builds the release request matching a session-bus cookie.
// Note the member-name spelling differs between interfaces: SessionManager
// uses "Uninhibit", the freedesktop interfaces use "UnInhibit".
func uninhibitCall(facility Facility, cookie uint32) busCall {
	switch facility {
	case FacilityGnomeSession:
		return busCall{
			dest:   "org.gnome.SessionManager",
			path:   "/org/gnome/SessionManager",
			method: "org.gnome.SessionManager.Uninhibit",
			args:   []interface{}{cookie},
		}
	case FacilityScreenSaver:
		return busCall{
			dest:   "org.freedesktop.ScreenSaver",
			path:   "/org/freedesktop/ScreenSaver",
			method: "org.freedesktop.ScreenSaver.UnInhibit",
			args:   []interface{}{cookie},
		}
	default: // FacilityPowerManagement
		return busCall{
			dest:   "org.freedesktop.PowerManagement",
			path:   "/org/freedesktop/PowerManagement/Inhibit",
			method: "org.freedesktop.PowerManagement.Inhibit.UnInhibit",
			args:   []interface{}{cookie},
		}
	}
}

// logindInhibitCall builds the system-bus block-lock request. The reply
// carries a file descriptor; the lock is held until the fd is closed.
func logindInhibitCall(appName, reason string) busCall {
	return busCall{
		dest:   "org.freedesktop.login1",
		path:   "/org/freedesktop/login1",
		method: "org.freedesktop.login1.Manager.Inhibit",
		args:   []interface{}{"sleep:idle", appName, reason, "block"},
	}
}
