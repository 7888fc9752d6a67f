// Package watcher monitors indexed folders and broadcasts change events via callbacks.
package watcher

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/CageChen/folderindex/internal/config"
	mfs "github.com/CageChen/folderindex/internal/fs"
	"github.com/CageChen/folderindex/internal/index"
	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file system event
type EventType int

// File system event types.
const (
	EventCreate EventType = iota
	EventWrite
	EventRemove
	EventRename
)

// Event is a change inside an indexed folder. Path is relative to the folder
// root and uses forward slashes.
type Event struct {
	Type  EventType
	Alias string
	Path  string
}

// Callback is a function called when file changes occur
type Callback func(Event)

type root struct {
	alias string
	path  string
	dirs  []string
}

// Watcher monitors file system changes in the indexed folders
type Watcher struct {
	watcher   *fsnotify.Watcher
	settings  index.Settings
	roots     []*root
	callbacks []Callback
	mu        sync.RWMutex
	done      chan struct{}
}

// New creates a new file system watcher. Entries skipped by the indexer
// settings (hidden entries and exclude patterns) are not reported.
func New(settings index.Settings) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  w,
		settings: settings,
		done:     make(chan struct{}),
	}, nil
}

// OnChange registers a callback for file change events
func (w *Watcher) OnChange(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// AddFolder starts watching a folder and its subdirectories. Folders read
// from a git ref are skipped since they come from the object database.
func (w *Watcher) AddFolder(folder config.Folder) {
	if folder.GitRef != "" {
		return
	}

	r := &root{alias: folder.Alias, path: filepath.Clean(folder.Path)}
	w.mu.Lock()
	w.roots = append(w.roots, r)
	w.mu.Unlock()

	if err := filepath.Walk(r.path, w.visit(r)); err != nil {
		log.Printf("Warning: failed to walk folder %s: %v", folder.Path, err)
	}
}

// visit returns the walk function adding watches below r. Unreadable
// directories are skipped so the rest of the folder is still watched.
func (w *Watcher) visit(r *root) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if !errors.Is(err, os.ErrPermission) {
				return err
			}
			log.Printf("Warning: cannot read %s: %v", path, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != r.path && w.ignored(info.Name(), info) {
			return filepath.SkipDir
		}
		w.watch(r, path)
		return nil
	}
}

func (w *Watcher) watch(r *root, dir string) {
	if err := w.watcher.Add(dir); err != nil {
		log.Printf("Warning: cannot watch %s: %v", dir, err)
		return
	}
	w.mu.Lock()
	r.dirs = append(r.dirs, dir)
	w.mu.Unlock()
}

// RemoveFolder stops reporting changes for the folder with the given alias
// and drops the watches no other folder needs.
func (w *Watcher) RemoveFolder(folder config.Folder) {
	w.mu.Lock()
	var dirs []string
	for i, r := range w.roots {
		if r.alias == folder.Alias {
			dirs = append(dirs, r.dirs...)
			w.roots = append(w.roots[:i], w.roots[i+1:]...)
			break
		}
	}
	w.mu.Unlock()

	for _, dir := range dirs {
		if _, _, ok := w.resolve(dir); ok {
			continue
		}
		if err := w.watcher.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			log.Printf("Warning: cannot unwatch %s: %v", dir, err)
		}
	}
}

// Start begins watching all given folders
func (w *Watcher) Start(folders []config.Folder) error {
	for _, folder := range folders {
		w.AddFolder(folder)
	}

	go w.eventLoop()
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// ignored reports whether the indexer would skip an entry with this name.
// info is nil for entries that no longer exist.
func (w *Watcher) ignored(name string, info os.FileInfo) bool {
	dir := info != nil && info.IsDir()
	if mfs.IsHidden(name, info) {
		if dir && w.settings.SkipHiddenFolders {
			return true
		}
		if !dir && w.settings.SkipHiddenFiles {
			return true
		}
	}
	for _, pattern := range w.settings.Exclude {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// resolve maps an absolute path to the alias of the folder containing it and
// the path relative to that folder. The deepest matching folder wins.
func (w *Watcher) resolve(path string) (string, string, bool) {
	r := w.owner(path)
	if r == nil {
		return "", "", false
	}
	rel, _ := filepath.Rel(r.path, path)
	return r.alias, filepath.ToSlash(rel), true
}

func (w *Watcher) owner(path string) *root {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var best *root
	for _, r := range w.roots {
		rel, err := filepath.Rel(r.path, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if best == nil || len(r.path) > len(best.path) {
			best = r
		}
	}
	return best
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	info, _ := os.Stat(event.Name)
	if w.ignored(filepath.Base(event.Name), info) {
		return
	}

	r := w.owner(event.Name)
	if r == nil {
		return
	}
	rel, _ := filepath.Rel(r.path, event.Name)

	var eventType EventType
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		eventType = EventCreate
		// If a new directory is created, watch it
		if info != nil && info.IsDir() {
			w.watch(r, event.Name)
		}
	case event.Op&fsnotify.Write == fsnotify.Write:
		eventType = EventWrite
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		eventType = EventRemove
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		eventType = EventRename
	default:
		return
	}

	e := Event{
		Type:  eventType,
		Alias: r.alias,
		Path:  filepath.ToSlash(rel),
	}

	w.mu.RLock()
	callbacks := make([]Callback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(e)
	}
}
