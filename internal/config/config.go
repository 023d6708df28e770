// internal/config/config.go
//
// This package handles configuration and the .autoselect directory structure.
// Every project that hosts autoselect fields gets a .autoselect/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectDirName is the name of the directory we create in each project
	ProjectDirName = ".autoselect"

	// SourceCatalog serves suggestions from a local YAML catalog.
	SourceCatalog = "catalog"
	// SourceRemote fetches suggestions from an HTTP search endpoint.
	SourceRemote = "remote"

	defaultCatalogFile = "catalog.yaml"
)

const defaultProjectConfigYAML = `# autoselect project configuration
version: 1

# Where suggestions come from. Use kind: catalog with a YAML file of items,
# or kind: remote with the base URL of a search endpoint (GET /search?term=).
source:
  kind: catalog
  catalog: catalog.yaml
  # kind: remote
  # url: http://127.0.0.1:8766

# Catalog server used by "autoselect serve".
server:
  host: 127.0.0.1
  port: 8766
  limit: 20

# Fields rendered by "autoselect form".
fields:
  - name: owner
    label: Owner
    placeholder: Search people
  - name: project
    label: Project
    placeholder: Search projects
`

const defaultCatalogYAML = `# items offered by the catalog source
items:
  - id: 1
    title: Ada Lovelace
  - id: 2
    title: Grace Hopper
  - id: 3
    title: Barbara Liskov
  - id: 4
    title: Ken Thompson
  - id: 5
    title: Rob Pike
`

// SourceConfig selects the search backend for fields.
type SourceConfig struct {
	Kind    string `yaml:"kind"`
	URL     string `yaml:"url,omitempty"`
	Catalog string `yaml:"catalog,omitempty"`
}

// ServerConfig captures catalog server preferences.
type ServerConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
	Limit   int    `yaml:"limit,omitempty"`
}

// FieldConfig declares one form field.
type FieldConfig struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty"`
}

// ProjectConfig models .autoselect/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Source  SourceConfig  `yaml:"source"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Fields  []FieldConfig `yaml:"fields,omitempty"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory where the user ran `autoselect` from
	ProjectDir string

	// StateDir is ProjectDir/.autoselect
	StateDir string

	Project ProjectConfig
}

// InitDir creates the .autoselect directory structure in the given project
// directory and writes the default config and catalog when missing.
//
// Structure created:
// .autoselect/
// ├── config.yaml
// ├── catalog.yaml
// └── logs/
func InitDir(projectDir string) error {
	stateDir := filepath.Join(projectDir, ProjectDirName)
	if err := os.MkdirAll(filepath.Join(stateDir, "logs"), 0o755); err != nil {
		return err
	}
	if err := ensureFile(filepath.Join(stateDir, "config.yaml"), defaultProjectConfigYAML); err != nil {
		return err
	}
	return ensureFile(filepath.Join(stateDir, defaultCatalogFile), defaultCatalogYAML)
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateDir:   filepath.Join(projectDir, ProjectDirName),
		Project:    defaultProjectConfig(),
	}
	cfg.Project.normalize(cfg.StateDir)
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// CatalogPath returns the resolved catalog file for the catalog source.
func (c *Config) CatalogPath() string {
	if c.Project.Source.Catalog != "" {
		return c.Project.Source.Catalog
	}
	return filepath.Join(c.StateDir, defaultCatalogFile)
}

// Fields returns the configured form fields.
func (c *Config) Fields() []FieldConfig {
	return c.Project.Fields
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.StateDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Source: SourceConfig{
			Kind:    SourceCatalog,
			Catalog: defaultCatalogFile,
		},
		Fields: []FieldConfig{{Name: "item", Label: "Item"}},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Source.Kind) == "" {
		pc.Source.Kind = SourceCatalog
	}
	if len(pc.Fields) == 0 {
		pc.Fields = []FieldConfig{{Name: "item", Label: "Item"}}
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Source.Kind = strings.ToLower(strings.TrimSpace(pc.Source.Kind))
	pc.Source.URL = strings.TrimRight(strings.TrimSpace(pc.Source.URL), "/")
	pc.Source.Catalog = resolvePath(base, pc.Source.Catalog)
	pc.Server.Host = strings.TrimSpace(pc.Server.Host)
	for i := range pc.Fields {
		f := &pc.Fields[i]
		f.Name = strings.TrimSpace(f.Name)
		f.Label = strings.TrimSpace(f.Label)
		if f.Label == "" {
			f.Label = f.Name
		}
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version != 1 {
		return fmt.Errorf("config version must be 1, got %d", pc.Version)
	}
	switch pc.Source.Kind {
	case SourceCatalog:
	case SourceRemote:
		if pc.Source.URL == "" {
			return fmt.Errorf("source.url is required for remote sources")
		}
		if _, err := url.ParseRequestURI(pc.Source.URL); err != nil {
			return fmt.Errorf("source.url: %w", err)
		}
	default:
		return fmt.Errorf("source.kind must be '%s' or '%s'", SourceCatalog, SourceRemote)
	}
	if pc.Server.Port < 0 || pc.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", pc.Server.Port)
	}
	seen := map[string]struct{}{}
	for i, f := range pc.Fields {
		if f.Name == "" {
			return fmt.Errorf("fields[%d]: name is required", i)
		}
		key := strings.ToLower(f.Name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("fields[%d]: duplicate name %q", i, f.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureFile(path, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}
