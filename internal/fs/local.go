package fs

import (
	"os"
	"path/filepath"
)

// LocalFS implements FileSystem using the local filesystem.
type LocalFS struct {
	root string
}

// NewLocalFS creates a LocalFS rooted at the given directory.
func NewLocalFS(root string) *LocalFS {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &LocalFS{root: root}
}

// Root returns the absolute directory the filesystem is rooted at.
func (l *LocalFS) Root() string {
	return l.root
}

func (l *LocalFS) abs(path string) string {
	if path == "" || path == "." {
		return l.root
	}
	return filepath.Join(l.root, filepath.FromSlash(path))
}

// Location returns the absolute OS path of path.
func (l *LocalFS) Location(path string) string {
	return l.abs(path)
}

// ReadFile reads the contents of the file at the given path relative to the root.
func (l *LocalFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(l.abs(path))
}

// Stat returns metadata for the file or directory at the given path relative to the root.
func (l *LocalFS) Stat(path string) (FileInfo, error) {
	full := l.abs(path)
	info, err := os.Stat(full)
	if err != nil {
		return FileInfo{}, err
	}
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		resolved = full
	}
	return FileInfo{
		Name:     displayName(full, info.Name()),
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		RealPath: resolved,
	}, nil
}

// ReadDir lists the immediate children of the directory at the given path relative to the root.
// Symbolic links are resolved: a link to a directory is reported as a directory
// with its Target set, a link to a file carries the size of the file.
func (l *LocalFS) ReadDir(path string) ([]DirEntry, error) {
	dir := l.abs(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	result := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		info, err := e.Info()
		if err != nil {
			// Removed between listing and stat.
			continue
		}
		entry := DirEntry{
			Name:   e.Name(),
			IsDir:  e.IsDir(),
			Size:   info.Size(),
			Hidden: IsHidden(e.Name(), info),
		}
		if e.Type()&os.ModeSymlink != 0 {
			if target, err := os.Stat(full); err == nil {
				entry.IsDir = target.IsDir()
				if entry.IsDir {
					if resolved, err := filepath.EvalSymlinks(full); err == nil {
						entry.Target = resolved
					}
				} else {
					entry.Size = target.Size()
				}
			}
		}
		if entry.IsDir {
			entry.Size = 0
		}
		result = append(result, entry)
	}
	return result, nil
}

// displayName returns the last element of full, or full itself for a volume
// root such as "/" or `C:\`.
func displayName(full, name string) string {
	clean := filepath.Clean(full)
	if clean == filepath.VolumeName(clean)+string(filepath.Separator) || name == "" || name == string(filepath.Separator) {
		return clean
	}
	return name
}
