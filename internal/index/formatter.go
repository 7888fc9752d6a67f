package index

import (
	"fmt"
	"strings"
)

// footerTimeLayout renders e.g. "2024-05-01 at 13:04:05 UTC".
const footerTimeLayout = "2006-01-02 at 15:04:05 UTC"

// Formatter renders a scanned and aggregated folder tree.
type Formatter interface {
	Render(root *FolderInfo, settings Settings) (string, error)
}

// NewFormatter returns the formatter for output. An unknown output is an
// error; there is no fallback format.
func NewFormatter(output Output) (Formatter, error) {
	switch output {
	case OutputHTML:
		return htmlFormatter{}, nil
	case OutputText:
		return textFormatter{}, nil
	case OutputXML:
		return xmlFormatter{}, nil
	case OutputJSON:
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, string(output))
	}
}

// folderRow returns the folder name with a size suffix for non-empty folders.
func folderRow(name string, size int64, settings Settings) string {
	if settings.ShowSizeInfo && size > 0 {
		return fmt.Sprintf("%s [%s]", name, SizeToString(size, settings.BinaryUnits))
	}
	return name
}

// fileRow returns the file name with a size suffix, zero-length files included.
func fileRow(file FileEntry, settings Settings) string {
	if settings.ShowSizeInfo {
		return fmt.Sprintf("%s [%s]", file.Name, SizeToString(file.Length, settings.BinaryUnits))
	}
	return file.Name
}

func indent(settings Settings, level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(settings.IndentationText, level)
}

// Footer returns the provenance line appended to text and HTML indexes.
func Footer(settings Settings) string {
	p := settings.product()
	return fmt.Sprintf("Generated by %s %s on %s. Latest version can be downloaded from: %s",
		p.Name, p.Version, settings.now().UTC().Format(footerTimeLayout), p.URL)
}
