package index

import (
	"context"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

var fixedNow = time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)

const wantFooter = "Generated by FolderIndex 1.2.3 on 2024-05-01 at 13:04:05 UTC. Latest version can be downloaded from: https://example.com/folderindex"

func renderSettings(output Output) Settings {
	s := DefaultSettings()
	s.Output = output
	s.Product = Product{Name: "FolderIndex", Version: "1.2.3", URL: "https://example.com/folderindex"}
	s.Now = func() time.Time { return fixedNow }
	return s
}

// sampleTree is root/{sub/b.txt (6 B), a.txt (4 B)}.
func sampleTree() *FolderInfo {
	root := &FolderInfo{
		Path: "/data/root",
		Name: "root",
		Folders: []*FolderInfo{{
			Path:  "/data/root/sub",
			Name:  "sub",
			Files: []FileEntry{{Name: "b.txt", Length: 6}},
		}},
		Files: []FileEntry{{Name: "a.txt", Length: 4}},
	}
	root.Aggregate()
	return root
}

func containsLine(out, line string) bool {
	for _, l := range strings.Split(out, "\n") {
		if l == line {
			return true
		}
	}
	return false
}

func TestIndexLocal_TextScenario(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "root")
	writeFile(t, filepath.Join(dir, "a.txt"), "abcd")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "abcdef")

	s := renderSettings(OutputText)
	s.IndentationText = "  "
	s.BinaryUnits = false

	got, err := IndexLocal(context.Background(), dir, s)
	if err != nil {
		t.Fatalf("IndexLocal failed: %v", err)
	}

	want := strings.Join([]string{
		"root [10 B]",
		"  sub [6 B]",
		"    b.txt [6 B]",
		"  a.txt [4 B]",
		wantFooter,
		"",
	}, "\n")
	if got != want {
		t.Errorf("unexpected text index:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextFormatter_Options(t *testing.T) {
	root := sampleTree()
	root.Files = append(root.Files, FileEntry{Name: "empty.txt"})
	root.Folders = append(root.Folders, &FolderInfo{Name: "nothing"})

	s := renderSettings(OutputText)
	s.AddFooter = false
	s.ShowSizeInfo = false
	s.AddEmptyLineAfterFolders = true

	got, err := textFormatter{}.Render(root, s)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "root\n\n|___sub\n\n|___|___b.txt\n\n|___nothing\n\n|___a.txt\n|___empty.txt\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	s = renderSettings(OutputText)
	s.AddFooter = false
	got, err = textFormatter{}.Render(root, s)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !containsLine(got, "|___empty.txt [0 B]") {
		t.Errorf("expected zero-length file to carry a size, got:\n%s", got)
	}
	if !containsLine(got, "|___nothing") {
		t.Errorf("expected empty folder without size, got:\n%s", got)
	}
}

func TestFooter(t *testing.T) {
	if got := Footer(renderSettings(OutputText)); got != wantFooter {
		t.Errorf("Footer() = %q, want %q", got, wantFooter)
	}

	s := renderSettings(OutputText)
	s.Now = func() time.Time { return time.Date(2024, 5, 1, 23, 0, 0, 0, time.FixedZone("UTC-2", -2*3600)) }
	if got := Footer(s); !strings.Contains(got, "on 2024-05-02 at 01:00:00 UTC") {
		t.Errorf("expected footer time converted to UTC, got %q", got)
	}
}

func TestNewFormatter_Unknown(t *testing.T) {
	_, err := NewFormatter("pdf")
	if !errors.Is(err, ErrUnknownOutput) {
		t.Fatalf("expected ErrUnknownOutput, got %v", err)
	}
	if !strings.Contains(err.Error(), `"pdf"`) {
		t.Errorf("expected error to name the value, got %v", err)
	}
}

func TestIndex_UnknownOutputFailsBeforeScanning(t *testing.T) {
	s := renderSettings("docx")
	_, err := Index(context.Background(), untouchableFS{t: t}, "", s)
	if !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("expected ErrUnknownOutput, got %v", err)
	}
}

func TestIndex_MissingRoot(t *testing.T) {
	_, err := IndexLocal(context.Background(), filepath.Join(t.TempDir(), "missing"), renderSettings(OutputText))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestRender_Idempotent(t *testing.T) {
	root := sampleTree()
	for _, output := range Outputs {
		t.Run(string(output), func(t *testing.T) {
			f, err := NewFormatter(output)
			if err != nil {
				t.Fatal(err)
			}
			s := renderSettings(output)
			first, err := f.Render(root, s)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			second, err := f.Render(root, s)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if first != second {
				t.Error("expected identical output for identical input")
			}
		})
	}
}

func TestIndex_DepthLimitRendering(t *testing.T) {
	fsys := newMemFS("root").
		file("l1/one.txt", 1).
		file("l1/l2/two.txt", 1).
		file("l1/l2/l3/three.txt", 1)

	s := renderSettings(OutputText)
	s.MaxDepthLevel = 1
	s.ShowSizeInfo = false
	s.AddFooter = false
	got, err := Index(context.Background(), fsys, "", s)
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if got != "root\n|___l1\n" {
		t.Errorf("got %q", got)
	}
}

type xmlFile struct {
	Name string `xml:"Name,attr"`
	Size int64  `xml:"Size,attr"`
}

type xmlFolder struct {
	Name    string      `xml:"Name,attr"`
	Size    int64       `xml:"Size,attr"`
	Folders []xmlFolder `xml:"Folders>Folder"`
	Files   []xmlFile   `xml:"Files>File"`
}

func TestXMLFormatter_ParsesBack(t *testing.T) {
	root := sampleTree()
	root.Files = append(root.Files, FileEntry{Name: `a&b<"c">.txt`, Length: 0})
	root.Aggregate()

	out, err := xmlFormatter{}.Render(root, renderSettings(OutputXML))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.HasPrefix(out, xml.Header) {
		t.Error("expected XML declaration")
	}
	if !strings.Contains(out, "<!-- "+wantFooter+" -->") {
		t.Errorf("expected provenance comment, got:\n%s", out)
	}

	var doc xmlFolder
	if err := xml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not well-formed: %v\n%s", err, out)
	}
	if doc.Name != "root" || doc.Size != 10 {
		t.Errorf("unexpected root: %+v", doc)
	}
	if len(doc.Folders) != 1 || doc.Folders[0].Name != "sub" || doc.Folders[0].Size != 6 {
		t.Fatalf("unexpected folders: %+v", doc.Folders)
	}
	if len(doc.Folders[0].Files) != 1 || doc.Folders[0].Files[0] != (xmlFile{Name: "b.txt", Size: 6}) {
		t.Errorf("unexpected sub files: %+v", doc.Folders[0].Files)
	}
	if len(doc.Files) != 2 || doc.Files[1].Name != `a&b<"c">.txt` {
		t.Errorf("unexpected root files: %+v", doc.Files)
	}
}

func TestXMLFormatter_Elements(t *testing.T) {
	s := renderSettings(OutputXML)
	s.XMLUseAttributes = false
	s.AddFooter = false

	out, err := xmlFormatter{}.Render(sampleTree(), s)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(out, "<!--") {
		t.Error("expected no comment without footer")
	}

	var doc struct {
		Name    string `xml:"Name"`
		Size    int64  `xml:"Size"`
		Folders []struct {
			Name string `xml:"Name"`
		} `xml:"Folders>Folder"`
		Files []struct {
			Name string `xml:"Name"`
			Size int64  `xml:"Size"`
		} `xml:"Files>File"`
	}
	if err := xml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not well-formed: %v", err)
	}
	if doc.Name != "root" || doc.Size != 10 || len(doc.Folders) != 1 || doc.Files[0].Name != "a.txt" || doc.Files[0].Size != 4 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestXMLFormatter_SizeAttributes(t *testing.T) {
	root := &FolderInfo{Name: "root", Files: []FileEntry{{Name: "zero"}}}
	root.Aggregate()

	out, err := xmlFormatter{}.Render(root, renderSettings(OutputXML))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, `<Folder Name="root">`) {
		t.Errorf("expected empty folder without size, got:\n%s", out)
	}
	if !strings.Contains(out, `<File Name="zero" Size="0">`) {
		t.Errorf("expected zero-length file with size, got:\n%s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	root := sampleTree()
	root.Folders = append(root.Folders, &FolderInfo{Name: "locked", AccessDenied: true})

	out, err := jsonFormatter{}.Render(root, renderSettings(OutputJSON))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var doc struct {
		Name    string `json:"name"`
		Size    int64  `json:"size"`
		Folders []struct {
			Name         string `json:"name"`
			Size         int64  `json:"size"`
			AccessDenied bool   `json:"accessDenied"`
			Files        []struct {
				Name string `json:"name"`
				Size int64  `json:"size"`
			} `json:"files"`
		} `json:"folders"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Name != "root" || doc.Size != 10 || len(doc.Folders) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Folders[0].Files[0].Name != "b.txt" || doc.Folders[0].Files[0].Size != 6 {
		t.Errorf("unexpected sub: %+v", doc.Folders[0])
	}
	if !doc.Folders[1].AccessDenied {
		t.Error("expected accessDenied on locked")
	}
	if strings.Contains(out, "Generated by") {
		t.Error("expected no footer in JSON")
	}

	s := renderSettings(OutputJSON)
	s.ShowSizeInfo = false
	s.JSONIndent = false
	out, err = jsonFormatter{}.Render(sampleTree(), s)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(out, `"size"`) || strings.Count(out, "\n") != 1 {
		t.Errorf("expected compact JSON without sizes, got %s", out)
	}
}

func TestHTMLFormatter(t *testing.T) {
	root := sampleTree()
	root.Folders[0].Name = "<script>"
	root.Folders = append(root.Folders, &FolderInfo{Name: "locked", AccessDenied: true})

	out, err := htmlFormatter{}.Render(root, renderSettings(OutputHTML))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Index for root</title>",
		`<details class="root" open>`,
		"<summary>root [10 B]</summary>",
		"<summary>&lt;script&gt; [6 B]</summary>",
		"<li>b.txt [6 B]</li>",
		"<li>a.txt [4 B]</li>",
		`<summary class="denied" title="access denied">locked</summary>`,
		`<div class="footer">` + wantFooter + "</div>",
		`<meta name="generator" content="FolderIndex 1.2.3">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("expected folder names to be escaped and no live reload script")
	}
	if strings.Index(out, "b.txt") > strings.Index(out, "a.txt") {
		t.Error("expected subfolders before files")
	}
}

func TestHTMLFormatter_DescriptionAndCSS(t *testing.T) {
	css := filepath.Join(t.TempDir(), "custom.css")
	if err := os.WriteFile(css, []byte("body { color: red; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := renderSettings(OutputHTML)
	s.Description = "# Release files\n\nDownload **everything**."
	s.CustomCSSFilePath = css
	s.DisplayPath = true
	s.AddFooter = false

	out, err := htmlFormatter{}.Render(sampleTree(), s)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{
		"<title>Release files</title>",
		"<strong>everything</strong>",
		"body { color: red; }",
		"<summary>/data/root/sub [6 B]</summary>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, `class="footer"`) {
		t.Error("expected no footer")
	}

	s.CustomCSSFilePath = filepath.Join(t.TempDir(), "missing.css")
	if _, err := (htmlFormatter{}).Render(sampleTree(), s); err == nil {
		t.Error("expected error for missing custom css")
	}
}

func TestHTMLFormatter_LiveReload(t *testing.T) {
	s := renderSettings(OutputHTML)
	s.LiveReloadAlias = "docs"

	out, err := htmlFormatter{}.Render(sampleTree(), s)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{
		`var alias = "docs";`,
		`"/api/ws"`,
		"location.reload()",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		in      string
		want    Output
		wantErr bool
	}{
		{"html", OutputHTML, false},
		{"TXT", OutputText, false},
		{"text", OutputText, false},
		{" xml ", OutputXML, false},
		{"json", OutputJSON, false},
		{"pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutput(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutput(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSizeToString(t *testing.T) {
	tests := []struct {
		size   int64
		binary bool
		want   string
	}{
		{0, false, "0 B"},
		{10, false, "10 B"},
		{999, false, "999 B"},
		{1000, false, "1 KB"},
		{1000, true, "1000 B"},
		{1024, true, "1 KiB"},
		{1234, false, "1.23 KB"},
		{1500, false, "1.5 KB"},
		{1234567, false, "1.23 MB"},
		{1234567, true, "1.18 MiB"},
		{5 * 1000 * 1000 * 1000, false, "5 GB"},
		{999999, false, "1 MB"},
		{999994, false, "999.99 KB"},
		{1048575, true, "1 MiB"},
		{1023, true, "1023 B"},
		{-5, false, "0 B"},
	}
	for _, tt := range tests {
		if got := SizeToString(tt.size, tt.binary); got != tt.want {
			t.Errorf("SizeToString(%d, %v) = %q, want %q", tt.size, tt.binary, got, tt.want)
		}
	}
}
