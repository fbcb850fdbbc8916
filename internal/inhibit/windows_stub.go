//go:build !windows

package inhibit

import "fmt"

// NewWindowsBackend is a stub for non-Windows platforms.
// It will never be called due to the factory logic, but needs to exist
// for compilation.
func NewWindowsBackend(cfg Config) (Backend, error) {
	panic(fmt.Errorf("Windows backend called on non-Windows system"))
}
