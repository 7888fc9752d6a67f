package index

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	mfs "github.com/CageChen/folderindex/internal/fs"
	gitignore "github.com/monochromegane/go-gitignore"
)

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

type scanner struct {
	fsys     mfs.FileSystem
	settings Settings
	root     string
	ignore   gitignore.IgnoreMatcher
	// visiting holds the real paths of the folders on the current descent
	visiting map[string]bool
}

// Scan builds the folder tree rooted at path in fsys and aggregates its sizes.
//
// Folders that cannot be enumerated because of missing permissions are kept as
// empty nodes with AccessDenied set. A missing root, a root that is not a
// directory, or a root that cannot be opened is reported as an error.
func Scan(ctx context.Context, fsys mfs.FileSystem, path string, settings Settings) (*FolderInfo, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", fsys.Location(path), err)
	}
	if !info.IsDir {
		return nil, fmt.Errorf("%s: %w", fsys.Location(path), ErrNotDirectory)
	}

	s := &scanner{
		fsys:     fsys,
		settings: settings,
		root:     path,
		visiting: make(map[string]bool),
	}
	if settings.RespectGitignore {
		s.ignore = loadGitignore(fsys, path)
	}

	root, err := s.scanFolder(ctx, path, info.Name, info.RealPath, 0)
	if err != nil {
		return nil, err
	}
	if root.AccessDenied {
		return nil, fmt.Errorf("failed to open %s: %w", root.Path, os.ErrPermission)
	}
	root.Aggregate()
	return root, nil
}

func (s *scanner) scanFolder(ctx context.Context, path, name, realPath string, level int) (*FolderInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	folder := &FolderInfo{
		Path: s.fsys.Location(path),
		Name: name,
	}

	if s.settings.MaxDepthLevel != 0 && level >= s.settings.MaxDepthLevel {
		return folder, nil
	}

	if realPath != "" {
		if s.visiting[realPath] {
			folder.SymlinkLoop = true
			return folder, nil
		}
		s.visiting[realPath] = true
		defer delete(s.visiting, realPath)
	}

	entries, err := s.fsys.ReadDir(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			folder.AccessDenied = true
			return folder, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", folder.Path, err)
	}

	for _, entry := range entries {
		if !entry.IsDir || s.skip(path, entry, s.settings.SkipHiddenFolders) {
			continue
		}
		childReal := entry.Target
		if childReal == "" && realPath != "" {
			childReal = filepath.Join(realPath, entry.Name)
		}
		child, err := s.scanFolder(ctx, mfs.Join(path, entry.Name), entry.Name, childReal, level+1)
		if err != nil {
			return nil, err
		}
		folder.Folders = append(folder.Folders, child)
	}

	for _, entry := range entries {
		if entry.IsDir || s.skip(path, entry, s.settings.SkipHiddenFiles) {
			continue
		}
		folder.Files = append(folder.Files, FileEntry{
			Name:   entry.Name,
			Length: entry.Size,
			Hidden: entry.Hidden,
		})
	}

	sort.Slice(folder.Files, func(i, j int) bool {
		return folder.Files[i].Name < folder.Files[j].Name
	})

	return folder, nil
}

// skip reports whether an entry is filtered out by visibility, exclude
// patterns or the root .gitignore.
func (s *scanner) skip(dir string, entry mfs.DirEntry, skipHidden bool) bool {
	if skipHidden && entry.Hidden {
		return true
	}
	for _, pattern := range s.settings.Exclude {
		if matched, _ := filepath.Match(pattern, entry.Name); matched {
			return true
		}
	}
	if s.ignore != nil {
		rel := strings.TrimPrefix(mfs.Join(dir, entry.Name), s.root+"/")
		if s.root == "" {
			rel = mfs.Join(dir, entry.Name)
		}
		if s.ignore.Match(rel, entry.IsDir) {
			return true
		}
	}
	return false
}

func loadGitignore(fsys mfs.FileSystem, root string) gitignore.IgnoreMatcher {
	data, err := fsys.ReadFile(mfs.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gitignore.NewGitIgnoreFromReader(".", bytes.NewReader(data))
}
