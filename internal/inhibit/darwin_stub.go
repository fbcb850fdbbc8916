//go:build !darwin

package inhibit

import "fmt"

// NewDarwinBackend is a stub for non-Darwin platforms.
// It will never be called due to the factory logic, but needs to exist
// for compilation.
func NewDarwinBackend(cfg Config) (Backend, error) {
	panic(fmt.Errorf("Darwin backend called on non-Darwin system"))
}
