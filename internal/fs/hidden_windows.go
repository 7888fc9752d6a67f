//go:build windows

package fs

import (
	"os"
	"syscall"
)

// IsHidden reports whether an entry carries FILE_ATTRIBUTE_HIDDEN. When info
// is nil, for example for a removed file, the dot-file convention is used.
func IsHidden(name string, info os.FileInfo) bool {
	if info != nil {
		if data, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
			return data.FileAttributes&syscall.FILE_ATTRIBUTE_HIDDEN != 0
		}
	}
	return IsHiddenName(name)
}
