// Package fs provides filesystem abstractions for enumerating folders on local disk or in git refs.
package fs

// FileInfo holds file metadata.
type FileInfo struct {
	Name  string
	IsDir bool
	Size  int64
	// RealPath is the symlink-free location of the entry, empty when the
	// backing store has no such notion.
	RealPath string
}

// DirEntry represents a single directory entry.
type DirEntry struct {
	Name   string
	IsDir  bool
	Size   int64
	Hidden bool
	// Target is the resolved location of a directory reached through a
	// symbolic link. Empty for regular entries.
	Target string
}

// FileSystem abstracts folder enumeration so the indexer can work with either
// the local filesystem or a git object database. Paths are slash-separated and
// relative to the filesystem root; "" is the root itself.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (FileInfo, error)
	ReadDir(path string) ([]DirEntry, error)
	// Location returns a human-readable location for path, e.g. an absolute
	// OS path or a git object name.
	Location(path string) string
}

// Join appends name to a slash-separated relative path.
func Join(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}

// IsHiddenName reports whether name follows the Unix dot-file convention.
func IsHiddenName(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}
