package inhibit

import (
	"fmt"
	"runtime"
)

// NewBackend creates the appropriate Backend implementation for the
// current OS. Returns an error if the current platform is not supported.
func NewBackend(cfg Config) (Backend, error) {
	return NewBackendForOS(runtime.GOOS, cfg)
}

// NewBackendForOS creates a Backend implementation for the specified OS.
// Supported values for goos: "linux", "windows", "darwin". Calling it
// with a goos other than the runtime one panics in the per-OS
// constructor; it exists so the dispatch itself stays testable.
func NewBackendForOS(goos string, cfg Config) (Backend, error) {
	cfg = cfg.withDefaults()
	switch goos {
	case "linux":
		return NewLinuxBackend(cfg)
	case "windows":
		return NewWindowsBackend(cfg)
	case "darwin":
		return NewDarwinBackend(cfg)
	default:
		return nil, fmt.Errorf("unsupported platform: %s: %w", goos, ErrUnsupported)
	}
}
