package index

import (
	"os"
	"path"
	"strings"
	"testing"

	mfs "github.com/CageChen/folderindex/internal/fs"
)

// memFS is an in-memory FileSystem for scanner tests.
type memFS struct {
	rootName string
	dirs     map[string][]mfs.DirEntry
	files    map[string][]byte
	denied   map[string]bool
	reads    int
}

func newMemFS(rootName string) *memFS {
	return &memFS{
		rootName: rootName,
		dirs:     map[string][]mfs.DirEntry{"": nil},
		files:    map[string][]byte{},
		denied:   map[string]bool{},
	}
}

func (m *memFS) parent(p string) (string, string) {
	dir, name := path.Split(p)
	return strings.TrimSuffix(dir, "/"), name
}

// dir adds a folder and any missing parents.
func (m *memFS) dir(p string) *memFS {
	if _, ok := m.dirs[p]; ok || p == "" {
		return m
	}
	parent, name := m.parent(p)
	m.dir(parent)
	m.dirs[parent] = append(m.dirs[parent], mfs.DirEntry{Name: name, IsDir: true, Hidden: mfs.IsHiddenName(name)})
	m.dirs[p] = nil
	return m
}

// file adds a file of the given size and any missing parent folders.
func (m *memFS) file(p string, size int64) *memFS {
	parent, name := m.parent(p)
	m.dir(parent)
	m.dirs[parent] = append(m.dirs[parent], mfs.DirEntry{Name: name, Size: size, Hidden: mfs.IsHiddenName(name)})
	m.files[p] = make([]byte, size)
	return m
}

func (m *memFS) content(p, data string) *memFS {
	m.file(p, int64(len(data)))
	m.files[p] = []byte(data)
	return m
}

func (m *memFS) deny(p string) *memFS {
	m.dir(p)
	m.denied[p] = true
	return m
}

func (m *memFS) ReadFile(p string) ([]byte, error) {
	if data, ok := m.files[p]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

func (m *memFS) Stat(p string) (mfs.FileInfo, error) {
	if _, ok := m.dirs[p]; ok {
		name := path.Base(p)
		if p == "" {
			name = m.rootName
		}
		return mfs.FileInfo{Name: name, IsDir: true}, nil
	}
	if data, ok := m.files[p]; ok {
		return mfs.FileInfo{Name: path.Base(p), Size: int64(len(data))}, nil
	}
	return mfs.FileInfo{}, os.ErrNotExist
}

func (m *memFS) ReadDir(p string) ([]mfs.DirEntry, error) {
	m.reads++
	if m.denied[p] {
		return nil, &os.PathError{Op: "open", Path: p, Err: os.ErrPermission}
	}
	entries, ok := m.dirs[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return entries, nil
}

func (m *memFS) Location(p string) string {
	return "/mem/" + p
}

// untouchableFS fails the test on any access.
type untouchableFS struct {
	t *testing.T
}

func (u untouchableFS) ReadFile(string) ([]byte, error) {
	u.t.Fatal("unexpected ReadFile")
	return nil, nil
}

func (u untouchableFS) Stat(string) (mfs.FileInfo, error) {
	u.t.Fatal("unexpected Stat")
	return mfs.FileInfo{}, nil
}

func (u untouchableFS) ReadDir(string) ([]mfs.DirEntry, error) {
	u.t.Fatal("unexpected ReadDir")
	return nil, nil
}

func (u untouchableFS) Location(p string) string {
	return p
}

// findFolder returns the descendant of root with the given slash-separated names.
func findFolder(t *testing.T, root *FolderInfo, names ...string) *FolderInfo {
	t.Helper()
	cur := root
	for _, name := range names {
		var next *FolderInfo
		for _, sub := range cur.Folders {
			if sub.Name == name {
				next = sub
				break
			}
		}
		if next == nil {
			t.Fatalf("folder %q not found below %q", name, cur.Name)
		}
		cur = next
	}
	return cur
}

func fileNames(f *FolderInfo) []string {
	names := make([]string, len(f.Files))
	for i, file := range f.Files {
		names[i] = file.Name
	}
	return names
}

func folderNames(f *FolderInfo) []string {
	names := make([]string, len(f.Folders))
	for i, sub := range f.Folders {
		names[i] = sub.Name
	}
	return names
}
