// Package index scans folder trees and renders them as HTML, text, XML or JSON indexes.
package index

// FileEntry describes one file of a folder.
type FileEntry struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
	Hidden bool   `json:"hidden,omitempty"`
}

// FolderInfo describes one scanned folder and its descendants.
type FolderInfo struct {
	Path    string
	Name    string
	Folders []*FolderInfo
	// Files are sorted by name after a scan.
	Files []FileEntry
	// Size is the total length of all files below the folder. It is only
	// valid after Aggregate has run on the tree.
	Size int64
	// AccessDenied is set when the folder could not be enumerated because of
	// missing permissions. Such a folder has no children.
	AccessDenied bool
	// SymlinkLoop is set when the folder resolves to one of its own ancestors
	// and was therefore not descended.
	SymlinkLoop bool
}

// Aggregate computes Size for f and every descendant, children first, and
// returns f.Size.
func (f *FolderInfo) Aggregate() int64 {
	var total int64
	for _, file := range f.Files {
		total += file.Length
	}
	for _, sub := range f.Folders {
		total += sub.Aggregate()
	}
	f.Size = total
	return total
}

// Walk calls fn for f and every descendant folder in pre-order.
func (f *FolderInfo) Walk(fn func(folder *FolderInfo, level int)) {
	f.walk(fn, 0)
}

func (f *FolderInfo) walk(fn func(*FolderInfo, int), level int) {
	fn(f, level)
	for _, sub := range f.Folders {
		sub.walk(fn, level+1)
	}
}

// Counts returns the number of descendant folders and files.
func (f *FolderInfo) Counts() (folders, files int) {
	f.Walk(func(folder *FolderInfo, level int) {
		if level > 0 {
			folders++
		}
		files += len(folder.Files)
	})
	return folders, files
}
