// Package config manages the YAML configuration: indexer settings and the
// folders served by the HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/CageChen/folderindex/internal/index"
)

// LocalConfigName is the config file looked up in the working directory when
// no global config exists.
const LocalConfigName = "folderindex.yaml"

// Folder is an indexed folder with an alias for display
type Folder struct {
	Path   string `yaml:"path" json:"path"`
	Alias  string `yaml:"alias" json:"alias"`
	GitRef string `yaml:"git_ref,omitempty" json:"git_ref,omitempty"`
}

// Config holds all configuration options for FolderIndex
type Config struct {
	Indexer index.Settings `yaml:"indexer"`

	Folders []Folder `yaml:"folders,omitempty" json:"folders"`

	Port  int  `yaml:"port"`
	Watch bool `yaml:"watch"`
	Open  bool `yaml:"open"`

	// Internal: path to config file for saving
	configPath string
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Indexer: index.DefaultSettings(),
		Port:    8080,
		Watch:   true,
		Open:    false,
	}
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/folderindex"
	}
	return filepath.Join(home, ".config", "folderindex")
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load reads the configuration. An explicit cfgPath must exist and parse;
// otherwise ~/.config/folderindex/config.yaml and then ./folderindex.yaml are
// tried, and defaults are used when neither is present.
func Load(cfgPath string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := cfgPath != ""
	if !explicit {
		if _, err := os.Stat(GetConfigPath()); err == nil {
			cfgPath = GetConfigPath()
		} else if _, err := os.Stat(LocalConfigName); err == nil {
			cfgPath = LocalConfigName
		}
	}

	if cfgPath == "" {
		cfg.configPath = GetConfigPath()
		return cfg, nil
	}

	if err := cfg.loadFromFile(cfgPath); err != nil {
		return nil, err
	}
	cfg.configPath = cfgPath
	cfg.resolveFolders()

	return cfg, nil
}

// resolveFolders makes folder paths absolute and fills in missing aliases
func (c *Config) resolveFolders() {
	for i := range c.Folders {
		absPath, err := filepath.Abs(c.Folders[i].Path)
		if err == nil {
			c.Folders[i].Path = absPath
		}
		if c.Folders[i].Alias == "" {
			c.Folders[i].Alias = defaultAlias(c.Folders[i].Path, c.Folders[i].GitRef)
		}
	}
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	output, err := index.ParseOutput(string(c.Indexer.Output))
	if err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	c.Indexer.Output = output
	if err := c.Indexer.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

// Save saves the current configuration to the config file
func (c *Config) Save() error {
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// ErrDuplicateAlias is returned by AddFolder when the alias is taken by
// another folder.
var ErrDuplicateAlias = errors.New("alias already in use")

// AddFolder adds a folder with the given path, alias and git ref. Adding the
// same path and ref twice is a no-op.
func (c *Config) AddFolder(path, alias, gitRef string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for _, f := range c.Folders {
		if f.Path == absPath && f.GitRef == gitRef {
			return nil
		}
	}

	if alias == "" {
		alias = defaultAlias(absPath, gitRef)
	}
	if _, ok := c.FolderByAlias(alias); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAlias, alias)
	}

	c.Folders = append(c.Folders, Folder{
		Path:   absPath,
		Alias:  alias,
		GitRef: gitRef,
	})

	return nil
}

func defaultAlias(path, gitRef string) string {
	alias := filepath.Base(path)
	if gitRef != "" {
		alias = alias + " (" + gitRef + ")"
	}
	return alias
}

// RemoveFolderByIndex removes a folder by its index
func (c *Config) RemoveFolderByIndex(i int) {
	if i < 0 || i >= len(c.Folders) {
		return
	}
	c.Folders = append(c.Folders[:i], c.Folders[i+1:]...)
}

// FolderByAlias returns the folder registered under alias.
func (c *Config) FolderByAlias(alias string) (Folder, bool) {
	for _, f := range c.Folders {
		if f.Alias == alias {
			return f, true
		}
	}
	return Folder{}, false
}

// GetConfigFilePath returns the path to the config file
func (c *Config) GetConfigFilePath() string {
	return c.configPath
}

// SetConfigFilePath changes where Save writes the configuration.
func (c *Config) SetConfigFilePath(path string) {
	c.configPath = path
}
