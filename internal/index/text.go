package index

import "strings"

type textFormatter struct{}

// Render writes one line per folder and file, indented by nesting level.
func (textFormatter) Render(root *FolderInfo, settings Settings) (string, error) {
	var sb strings.Builder
	writeTextFolder(&sb, root, 0, settings)
	if settings.AddFooter {
		sb.WriteString(Footer(settings))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func writeTextFolder(sb *strings.Builder, dir *FolderInfo, level int, settings Settings) {
	sb.WriteString(indent(settings, level))
	sb.WriteString(folderRow(dir.Name, dir.Size, settings))
	sb.WriteString("\n")

	for _, sub := range dir.Folders {
		if settings.AddEmptyLineAfterFolders {
			sb.WriteString("\n")
		}
		writeTextFolder(sb, sub, level+1, settings)
	}

	if len(dir.Files) == 0 {
		return
	}
	if settings.AddEmptyLineAfterFolders {
		sb.WriteString("\n")
	}
	prefix := indent(settings, level+1)
	for _, file := range dir.Files {
		sb.WriteString(prefix)
		sb.WriteString(fileRow(file, settings))
		sb.WriteString("\n")
	}
}
