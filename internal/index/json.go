package index

import (
	"fmt"

	json "github.com/goccy/go-json"
)

type jsonFolder struct {
	Name         string       `json:"name"`
	Size         *int64       `json:"size,omitempty"`
	AccessDenied bool         `json:"accessDenied,omitempty"`
	Folders      []jsonFolder `json:"folders"`
	Files        []jsonFile   `json:"files"`
}

type jsonFile struct {
	Name string `json:"name"`
	Size *int64 `json:"size,omitempty"`
}

type jsonFormatter struct{}

// Render writes the tree as nested JSON objects. Sizes are raw byte counts and
// present only when size info is enabled.
func (jsonFormatter) Render(root *FolderInfo, settings Settings) (string, error) {
	doc := toJSONFolder(root, settings)

	var data []byte
	var err error
	if settings.JSONIndent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render json index: %w", err)
	}
	return string(data) + "\n", nil
}

func toJSONFolder(dir *FolderInfo, settings Settings) jsonFolder {
	out := jsonFolder{
		Name:         dir.Name,
		AccessDenied: dir.AccessDenied,
		Folders:      make([]jsonFolder, 0, len(dir.Folders)),
		Files:        make([]jsonFile, 0, len(dir.Files)),
	}
	if settings.ShowSizeInfo {
		size := dir.Size
		out.Size = &size
	}
	for _, sub := range dir.Folders {
		out.Folders = append(out.Folders, toJSONFolder(sub, settings))
	}
	for _, file := range dir.Files {
		f := jsonFile{Name: file.Name}
		if settings.ShowSizeInfo {
			length := file.Length
			f.Size = &length
		}
		out.Files = append(out.Files, f)
	}
	return out
}
