// Package inhibit provides cross-platform sleep-inhibition backends.
//
// The package defines a small contract — acquire one or more opaque lock
// tokens for an inhibition kind, release each token exactly once — and
// implements it per operating system:
//
//   - Linux: session D-Bus (org.gnome.SessionManager, with a fallback to
//     the org.freedesktop.ScreenSaver / PowerManagement pair), and when no
//     session bus is reachable, a systemd-logind block lock plus an X11
//     screensaver toggle.
//   - Windows: kernel32 power requests (PowerCreateRequest /
//     PowerSetRequest / PowerClearRequest).
//   - macOS: a caffeinate child process held for the lifetime of the lock.
//   - Remote hosts over SSH (explicitly constructed, never auto-selected).
//
// Backends are selected at runtime by NewBackend based on the current OS;
// per-OS constructors live behind build tags with panic stubs elsewhere,
// so the factory is the only supported entry point.
//
// Tokens are opaque to callers: a token's cookie is meaningful only to the
// backend that issued it (a D-Bus cookie, a Windows handle, a child pid, a
// saved-settings generation). Callers hold tokens and hand them back to
// Release; they never inspect them.
package inhibit
