//go:build !unix

package aof

import "os"

// lockExclusive is a no-op on non-unix platforms; advisory file locking
// has no portable stdlib equivalent.
func lockExclusive(f *os.File) error {
	return nil
}
