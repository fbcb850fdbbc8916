//go:build !linux

package inhibit

import "fmt"

// NewLinuxBackend is a stub for non-Linux platforms.
// It will never be called due to the factory logic, but needs to exist
// for compilation.
func NewLinuxBackend(cfg Config) (Backend, error) {
	panic(fmt.Errorf("Linux backend called on non-Linux system"))
}
