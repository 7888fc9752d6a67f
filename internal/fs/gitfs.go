package fs

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// GitFS implements FileSystem by reading from a git ref (branch, tag, or commit).
type GitFS struct {
	repoPath string
	ref      string
}

// NewGitFS creates a GitFS that reads files from the given ref in the repository at repoPath.
func NewGitFS(repoPath, ref string) *GitFS {
	if abs, err := filepath.Abs(repoPath); err == nil {
		repoPath = abs
	}
	return &GitFS{repoPath: repoPath, ref: ref}
}

// Location returns the git object name of path, e.g. "main:docs".
func (g *GitFS) Location(path string) string {
	return g.ref + ":" + path
}

func (g *GitFS) git(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", g.repoPath}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// ReadFile reads the contents of the file at the given path from the git ref.
func (g *GitFS) ReadFile(path string) ([]byte, error) {
	if path == "" || path == "." {
		return nil, fmt.Errorf("%s: cannot read directory as file", g.Location(path))
	}
	if _, err := g.Stat(path); err != nil {
		return nil, err
	}
	out, err := g.git("show", g.Location(path))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Stat returns metadata for the file or directory at the given path in the
// git ref. A missing ref or path is reported as os.ErrNotExist.
func (g *GitFS) Stat(path string) (FileInfo, error) {
	if path == "" || path == "." {
		if _, err := g.git("rev-parse", "--verify", "--quiet", g.ref+"^{tree}"); err != nil {
			return FileInfo{}, &os.PathError{Op: "stat", Path: g.Location(path), Err: os.ErrNotExist}
		}
		return FileInfo{Name: filepath.Base(g.repoPath), IsDir: true}, nil
	}

	// ls-tree on the path itself yields its own entry, a tree for directories
	out, err := g.git("ls-tree", "-l", "-z", g.ref, "--", path)
	if err != nil {
		return FileInfo{}, &os.PathError{Op: "stat", Path: g.Location(path), Err: os.ErrNotExist}
	}
	entry, ok := parseTreeLine(strings.TrimSuffix(out, "\x00"))
	if !ok {
		return FileInfo{}, &os.PathError{Op: "stat", Path: g.Location(path), Err: os.ErrNotExist}
	}
	return FileInfo{
		Name:  entry.Name,
		IsDir: entry.IsDir,
		Size:  entry.Size,
	}, nil
}

// ReadDir lists the immediate children of the directory at the given path in the git ref.
// Entries whose name starts with a dot are reported as hidden.
func (g *GitFS) ReadDir(path string) ([]DirEntry, error) {
	// -l adds blob sizes, -z keeps names unquoted
	args := []string{"ls-tree", "-l", "-z", g.ref}
	if path != "" && path != "." {
		args = append(args, "--", path+"/")
	}
	out, err := g.git(args...)
	if err != nil {
		return nil, &os.PathError{Op: "readdir", Path: g.Location(path), Err: os.ErrNotExist}
	}

	entries := []DirEntry{}
	for _, line := range strings.Split(out, "\x00") {
		if entry, ok := parseTreeLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// parseTreeLine parses one line of `git ls-tree -l` output:
// "<mode> <type> <hash> <size>\t<name>". Submodules (commit objects) are skipped.
func parseTreeLine(line string) (DirEntry, bool) {
	tabIdx := strings.IndexByte(line, '\t')
	if tabIdx < 0 {
		return DirEntry{}, false
	}
	meta := line[:tabIdx]
	name := baseName(line[tabIdx+1:])

	fields := strings.Fields(meta)
	if len(fields) < 4 {
		return DirEntry{}, false
	}

	entry := DirEntry{
		Name:   name,
		Hidden: IsHiddenName(name),
	}
	switch fields[1] {
	case "tree":
		entry.IsDir = true
	case "blob":
		entry.Size, _ = strconv.ParseInt(fields[3], 10, 64)
	default:
		return DirEntry{}, false
	}
	return entry, true
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
