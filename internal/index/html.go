package index

import (
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"os"
	"strings"

	"github.com/CageChen/folderindex/internal/markdown"
)

var (
	//go:embed assets/index.html.tmpl
	htmlPageSource string
	//go:embed assets/index.css
	defaultCSS string

	htmlPage = template.Must(template.New("index").Parse(htmlPageSource))
)

type htmlPageData struct {
	Title       string
	Generator   string
	CSS         template.CSS
	Description template.HTML
	Listing     template.HTML
	Footer      string
	LiveReload  string
}

type htmlFormatter struct{}

// Render writes a standalone HTML document. Folders are collapsible <details>
// elements, files are list items.
func (htmlFormatter) Render(root *FolderInfo, settings Settings) (string, error) {
	css := defaultCSS
	if settings.CustomCSSFilePath != "" {
		data, err := os.ReadFile(settings.CustomCSSFilePath)
		if err != nil {
			return "", fmt.Errorf("failed to read custom css: %w", err)
		}
		css = string(data)
	}

	p := settings.product()
	page := htmlPageData{
		Title:      "Index for " + root.Name,
		Generator:  strings.TrimSpace(p.Name + " " + p.Version),
		CSS:        template.CSS(css),
		LiveReload: settings.LiveReloadAlias,
	}

	if settings.Description != "" {
		result, err := markdown.NewParser().Parse([]byte(settings.Description))
		if err != nil {
			return "", fmt.Errorf("failed to render description: %w", err)
		}
		page.Description = template.HTML(result.HTML)
		if result.Title != "" {
			page.Title = result.Title
		}
	}

	var listing strings.Builder
	writeHTMLFolder(&listing, root, 0, settings)
	page.Listing = template.HTML(listing.String())

	if settings.AddFooter {
		page.Footer = Footer(settings)
	}

	var sb strings.Builder
	if err := htmlPage.Execute(&sb, page); err != nil {
		return "", fmt.Errorf("failed to render html index: %w", err)
	}
	return sb.String(), nil
}

func writeHTMLFolder(sb *strings.Builder, dir *FolderInfo, level int, settings Settings) {
	pad := strings.Repeat("  ", level)

	class := "folder"
	if level == 0 {
		class = "root"
	}
	fmt.Fprintf(sb, "%s<details class=\"%s\" open>\n", pad, class)

	name := dir.Name
	if settings.DisplayPath {
		name = dir.Path
	}
	summaryClass := ""
	if dir.AccessDenied {
		summaryClass = ` class="denied" title="access denied"`
	}
	fmt.Fprintf(sb, "%s  <summary%s>%s</summary>\n", pad, summaryClass, html.EscapeString(folderRow(name, dir.Size, settings)))

	for _, sub := range dir.Folders {
		writeHTMLFolder(sb, sub, level+1, settings)
	}

	if len(dir.Files) > 0 {
		fmt.Fprintf(sb, "%s  <ul class=\"files\">\n", pad)
		for _, file := range dir.Files {
			fmt.Fprintf(sb, "%s    <li>%s</li>\n", pad, html.EscapeString(fileRow(file, settings)))
		}
		fmt.Fprintf(sb, "%s  </ul>\n", pad)
	}

	fmt.Fprintf(sb, "%s</details>\n", pad)
}
