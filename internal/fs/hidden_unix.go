//go:build !windows

package fs

import "os"

// IsHidden reports whether an entry is hidden. Outside Windows this is the
// dot-file convention; info may be nil.
func IsHidden(name string, _ os.FileInfo) bool {
	return IsHiddenName(name)
}
