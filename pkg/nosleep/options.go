package nosleep

import (
	"time"

	"github.com/pevers/nosleep/internal/inhibit"
)

// Kind selects what kind of idle-triggered power saving to prevent.
type Kind = inhibit.Kind

const (
	// PreventUserIdleDisplaySleep prevents the display from dimming
	// automatically. For example: playing a video.
	PreventUserIdleDisplaySleep = inhibit.DisplaySleep
	// PreventUserIdleSystemSleep prevents the system from sleeping
	// automatically due to a lack of user activity. For example:
	// downloading a file in the background.
	PreventUserIdleSystemSleep = inhibit.SystemSleep
)

// DefaultCallTimeout bounds each individual call against an OS facility.
const DefaultCallTimeout = inhibit.DefaultCallTimeout

// Options configures a NoSleep controller.
type Options struct {
	// AppName identifies the requesting application to the OS.
	// Empty means a generic default.
	AppName string

	// Reason is the human-readable explanation shown by OS power tools
	// next to the active inhibition. Empty means a generic default.
	Reason string

	// CallTimeout bounds each acquire/release call against an OS
	// facility. Zero means DefaultCallTimeout (5 seconds).
	CallTimeout time.Duration

	// Logger sets a custom logger for debug/info messages.
	// If nil, no logging is performed.
	Logger Logger

	// Metrics sets a custom metrics collector for operational metrics.
	// If nil, a private collector is used.
	// Metrics can be exposed via /debug/vars by calling Metrics.RegisterExpvar().
	Metrics *Metrics

	// Backend overrides the platform backend. If nil the backend for the
	// current OS is constructed. Set it to inject a fake in tests or to
	// use a remote backend (inhibit.NewRemoteBackend).
	Backend inhibit.Backend
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		CallTimeout: 0, // Use DefaultCallTimeout
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's
// structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}
