package inhibit

import (
	"context"
	"errors"
	"time"
)

// Kind selects what kind of idle-triggered power saving to prevent.
type Kind int

const (
	// DisplaySleep prevents the display from dimming or blanking
	// automatically. For example: playing a video.
	DisplaySleep Kind = iota
	// SystemSleep prevents the system from suspending automatically due
	// to a lack of user activity. For example: downloading a file in the
	// background. The display may still dim.
	SystemSleep
)

// String returns a human-readable name for the inhibition kind.
func (k Kind) String() string {
	switch k {
	case DisplaySleep:
		return "display-sleep"
	case SystemSleep:
		return "system-sleep"
	default:
		return "unknown"
	}
}

// Facility identifies the OS-level API that issued a token. Release must
// address the same facility the token came from.
type Facility string

const (
	// FacilityGnomeSession is the org.gnome.SessionManager D-Bus interface.
	FacilityGnomeSession Facility = "gnome-session"
	// FacilityScreenSaver is the org.freedesktop.ScreenSaver D-Bus interface.
	FacilityScreenSaver Facility = "fd-screensaver"
	// FacilityPowerManagement is the org.freedesktop.PowerManagement D-Bus interface.
	FacilityPowerManagement Facility = "fd-power"
	// FacilityLogind is the org.freedesktop.login1 fd-based block lock.
	FacilityLogind Facility = "logind"
	// FacilityX11ScreenSaver is the X11 core-protocol screensaver timeout.
	FacilityX11ScreenSaver Facility = "x11-screensaver"
	// FacilityWinSystem is a Windows PowerRequestSystemRequired handle.
	FacilityWinSystem Facility = "win32-power-system"
	// FacilityWinDisplay is a Windows PowerRequestDisplayRequired handle.
	FacilityWinDisplay Facility = "win32-power-display"
	// FacilityCaffeinate is a macOS caffeinate child process.
	FacilityCaffeinate Facility = "caffeinate"
	// FacilityRemote is a long-lived inhibit command on a remote host.
	FacilityRemote Facility = "ssh-remote"
)

// Token is an opaque proof of acquisition. Cookie meaning is private to
// the issuing backend; callers only hold tokens and pass them to Release.
type Token struct {
	Facility Facility
	Cookie   uint64
}

// Backend is the per-OS implementation of sleep inhibition.
//
// Acquire is atomic from the caller's point of view: on success every lock
// needed for the requested kind is held; on failure none are (partially
// acquired locks are rolled back internally before the error returns).
//
// Release consumes a token exactly once. A token the OS has already
// invalidated out-of-band (dropped bus connection, dead child process)
// yields an error, never corrupted backend state.
type Backend interface {
	// Name returns the backend identifier (e.g. "linux", "windows").
	Name() string

	// Acquire obtains every lock needed for the given kind.
	Acquire(ctx context.Context, kind Kind) ([]Token, error)

	// Release releases a single previously acquired token.
	Release(ctx context.Context, token Token) error

	// Close releases backend resources (bus connections, child process
	// bookkeeping). Locks still held are not released by Close; callers
	// release sessions first.
	Close() error
}

// DefaultCallTimeout bounds each individual acquire/release call against
// an OS facility. Bus calls that exceed it fail; they do not hang.
const DefaultCallTimeout = 5 * time.Second

// ErrUnsupported is returned when no facility on the current platform can
// satisfy the requested inhibition.
var ErrUnsupported = errors.New("sleep inhibition not supported on this platform")

// Config carries the caller identity passed to OS facilities and the
// per-call timeout.
type Config struct {
	// AppName identifies the requesting application to the OS
	// (D-Bus app_id, power request reason prefix).
	AppName string

	// Reason is the human-readable explanation shown by OS power tools.
	Reason string

	// CallTimeout bounds each facility call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.AppName == "" {
		c.AppName = "org.powersaveblocker.app"
	}
	if c.Reason == "" {
		c.Reason = "Power Save Blocker"
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	return c
}
