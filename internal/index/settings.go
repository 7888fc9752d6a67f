package index

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Output selects the index format.
type Output string

// Supported index formats.
const (
	OutputHTML Output = "html"
	OutputText Output = "txt"
	OutputXML  Output = "xml"
	OutputJSON Output = "json"
)

// Outputs lists every supported format in display order.
var Outputs = []Output{OutputHTML, OutputText, OutputXML, OutputJSON}

// ErrUnknownOutput is returned when an output selector names no known format.
var ErrUnknownOutput = errors.New("unknown index output")

// ParseOutput converts a user-supplied format name to an Output.
// "text" is accepted as an alias of "txt".
func ParseOutput(s string) (Output, error) {
	switch o := Output(strings.ToLower(strings.TrimSpace(s))); o {
	case OutputHTML, OutputText, OutputXML, OutputJSON:
		return o, nil
	case "text":
		return OutputText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOutput, s)
	}
}

// Extension returns the conventional file extension for the format.
func (o Output) Extension() string {
	return "." + string(o)
}

// ContentType returns the MIME type of the format.
func (o Output) ContentType() string {
	switch o {
	case OutputHTML:
		return "text/html; charset=utf-8"
	case OutputXML:
		return "application/xml; charset=utf-8"
	case OutputJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ErrInvalidMaxDepth is returned for a negative folder depth limit.
var ErrInvalidMaxDepth = errors.New("max depth level must not be negative")

// Product identifies the generator in index footers.
type Product struct {
	Name    string
	Version string
	URL     string
}

// DefaultProduct is used when Settings.Product is left empty.
var DefaultProduct = Product{
	Name:    "FolderIndex",
	Version: "dev",
	URL:     "https://github.com/CageChen/folderindex",
}

// Settings controls scanning and rendering of an index.
type Settings struct {
	Output            Output `yaml:"output" json:"output"`
	MaxDepthLevel     int    `yaml:"max_depth_level" json:"max_depth_level"`
	SkipHiddenFolders bool   `yaml:"skip_hidden_folders" json:"skip_hidden_folders"`
	SkipHiddenFiles   bool   `yaml:"skip_hidden_files" json:"skip_hidden_files"`
	ShowSizeInfo      bool   `yaml:"show_size_info" json:"show_size_info"`
	BinaryUnits       bool   `yaml:"binary_units" json:"binary_units"`
	IndentationText   string `yaml:"indentation_text" json:"indentation_text"`
	AddFooter         bool   `yaml:"add_footer" json:"add_footer"`

	// Text output
	AddEmptyLineAfterFolders bool `yaml:"add_empty_line_after_folders" json:"add_empty_line_after_folders"`

	// HTML output
	CustomCSSFilePath string `yaml:"custom_css_file_path,omitempty" json:"custom_css_file_path,omitempty"`
	DisplayPath       bool   `yaml:"display_path" json:"display_path"`
	Description       string `yaml:"description,omitempty" json:"description,omitempty"`

	// LiveReloadAlias makes the page reload on indexChange messages for this
	// folder alias from /api/ws. Only set for pages served over HTTP.
	LiveReloadAlias string `yaml:"-" json:"-"`

	// Structured output
	XMLUseAttributes bool `yaml:"xml_use_attributes" json:"xml_use_attributes"`
	JSONIndent       bool `yaml:"json_indent" json:"json_indent"`

	// Filtering
	Exclude          []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	RespectGitignore bool     `yaml:"respect_gitignore" json:"respect_gitignore"`

	Product Product          `yaml:"-" json:"-"`
	Now     func() time.Time `yaml:"-" json:"-"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		Output:            OutputHTML,
		SkipHiddenFolders: true,
		SkipHiddenFiles:   true,
		ShowSizeInfo:      true,
		IndentationText:   "|___",
		AddFooter:         true,
		XMLUseAttributes:  true,
		JSONIndent:        true,
		Product:           DefaultProduct,
	}
}

// Validate checks settings that have no sensible interpretation.
func (s Settings) Validate() error {
	if s.MaxDepthLevel < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxDepth, s.MaxDepthLevel)
	}
	return nil
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Settings) product() Product {
	if s.Product == (Product{}) {
		return DefaultProduct
	}
	return s.Product
}
