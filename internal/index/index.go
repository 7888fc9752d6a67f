package index

import (
	"context"

	mfs "github.com/CageChen/folderindex/internal/fs"
)

// Index scans the folder at path in fsys and renders it in the format chosen
// by settings.Output. The output is validated before anything is scanned.
func Index(ctx context.Context, fsys mfs.FileSystem, path string, settings Settings) (string, error) {
	formatter, err := NewFormatter(settings.Output)
	if err != nil {
		return "", err
	}

	tree, err := Scan(ctx, fsys, path, settings)
	if err != nil {
		return "", err
	}

	return formatter.Render(tree, settings)
}

// IndexLocal indexes a folder on the local filesystem.
func IndexLocal(ctx context.Context, folderPath string, settings Settings) (string, error) {
	return Index(ctx, mfs.NewLocalFS(folderPath), "", settings)
}
