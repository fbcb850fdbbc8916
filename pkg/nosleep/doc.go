// Package nosleep blocks the operating system's idle-triggered power
// saving — display dimming or system suspend — while user-level work such
// as playing a video or downloading a file is in progress.
//
// The package exposes one controller type, NoSleep, backed by a
// platform-specific implementation selected at build time (D-Bus on
// Linux, power requests on Windows, caffeinate on macOS). A controller
// holds at most one inhibition at a time: starting a new inhibition
// first releases the previous one.
//
// # Usage
//
// Basic use with the platform default backend:
//
//	ns, err := nosleep.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ns.Close()
//
//	if err := ns.PreventDisplaySleep(); err != nil {
//	    log.Fatal(err)
//	}
//	// ... play the video ...
//	if err := ns.Stop(); err != nil {
//	    log.Printf("release failed: %v", err)
//	}
//
// Stop is idempotent and releases every OS lock the inhibition holds,
// even when one of them fails; the controller always returns to the
// idle state.
//
// # Release guarantees
//
// Whether an inhibition outlives a crashed process depends on the
// platform primitive: D-Bus cookies and logind locks die with the bus
// connection, Windows power requests are closed with the process, and
// the macOS caffeinate child exits with its parent. See the per-backend
// documentation in internal/inhibit. Callers that need a hard guarantee
// should still call Stop or Close on their own shutdown path.
//
// # Thread safety
//
// NoSleep is safe for concurrent use. The intended usage is still a
// single logical owner; concurrent Start calls race for which kind ends
// up held.
package nosleep
