// Package config loads the module type taxonomy, the template catalog and the
// data directory used by modgen.
//
// Configuration is layered: the embedded defaults are read first, then a
// project file (or an explicit --config file) is merged on top, then
// MODGEN_* environment variables. The template catalog lives in its own YAML
// file under the data root so it can be shared between projects.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application name, used for the env prefix.
	AppName = "modgen"
	// LocalConfigFile is looked up in the project root when no explicit config is given.
	LocalConfigFile = ".modgen.yaml"
	// CatalogFile is the template catalog file name inside the data root.
	CatalogFile = "module_templates.yaml"
)

var (
	//go:embed defaults.yaml
	defaultConfig []byte

	//go:embed module_templates.yaml
	defaultCatalog []byte

	//go:embed project.yaml
	starterConfig []byte
)

// Stub is a file written into every new module of a type. Both Path and
// Content are templates.
type Stub struct {
	Path    string `mapstructure:"path" yaml:"path"`
	Content string `mapstructure:"content" yaml:"content"`
}

// ModuleType is one entry of the module type taxonomy.
type ModuleType struct {
	Name             string `mapstructure:"name"`
	Plural           string `mapstructure:"plural"`
	ShowsInWorkspace bool   `mapstructure:"shows_in_workspace"`
	DefaultTemplate  string `mapstructure:"default_template"`
	Stubs            []Stub `mapstructure:"stubs"`
}

// Dir is the directory, relative to the project root, that holds modules of this type.
func (t ModuleType) Dir() string {
	if t.Plural != "" {
		return t.Plural
	}
	return t.Name
}

// Template is a catalog entry.
type Template struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

// GitHub holds the repository hosting settings.
type GitHub struct {
	APIURL string `mapstructure:"api_url"`
	WebURL string `mapstructure:"web_url"`
	Token  string `mapstructure:"token"`
}

// Config is the loaded configuration. It implements Provider.
type Config struct {
	DataRootPath  string                `mapstructure:"data_root"`
	TemplatesFile string                `mapstructure:"templates_file"`
	GitHub        GitHub                `mapstructure:"github"`
	Types         map[string]ModuleType `mapstructure:"module_types"`

	projectRoot string
	catalog     []Template
	source      string
}

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ProjectRoot is the directory modules are created under. Defaults to the
	// working directory.
	ProjectRoot string
}

// Load builds a Config from the embedded defaults, the project or explicit
// config file, and the environment.
func Load(opts LoadOptions) (*Config, error) {
	root, err := projectRoot(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read default configuration: %w", err)
	}
	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path != "" {
		if !fileExists(path) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	} else if candidate := filepath.Join(root, LocalConfigFile); fileExists(candidate) {
		path = candidate
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.projectRoot = root
	cfg.source = path

	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = firstEnv("GITHUB_TOKEN", "GH_TOKEN")
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	catalog, err := ReadCatalog(cfg.CatalogPath())
	if err != nil {
		return nil, err
	}
	cfg.catalog = catalog

	return &cfg, nil
}

func (c *Config) normalize() error {
	if len(c.Types) == 0 {
		return errors.New("config: no module types configured")
	}
	for name, t := range c.Types {
		if strings.ContainsAny(t.Dir(), `/\`) {
			return fmt.Errorf("config: module type %q: plural %q must be a single directory name", name, t.Plural)
		}
		t.Name = name
		c.Types[name] = t
	}
	if c.DataRootPath == "" {
		return errors.New("config: data_root must not be empty")
	}
	if !filepath.IsAbs(c.DataRootPath) {
		c.DataRootPath = filepath.Join(c.projectRoot, c.DataRootPath)
	}
	return nil
}

// ProjectRoot is the absolute directory modules are created under.
func (c *Config) ProjectRoot() string {
	return c.projectRoot
}

// Source is the config file merged over the defaults, or "" when none was found.
func (c *Config) Source() string {
	return c.source
}

// CatalogPath is the location of the template catalog file.
func (c *Config) CatalogPath() string {
	if c.TemplatesFile == "" {
		return filepath.Join(c.DataRootPath, CatalogFile)
	}
	if filepath.IsAbs(c.TemplatesFile) {
		return c.TemplatesFile
	}
	return filepath.Join(c.projectRoot, c.TemplatesFile)
}

// ReadCatalog parses a template catalog file. A missing file is an empty catalog.
func ReadCatalog(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parseCatalog(data, path)
}

func parseCatalog(data []byte, path string) ([]Template, error) {
	var doc struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: decode catalog %s: %w", path, err)
	}

	seen := make(map[string]bool, len(doc.Templates))
	for i, t := range doc.Templates {
		if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.URL) == "" {
			return nil, fmt.Errorf("config: catalog %s: entry %d needs both name and url", path, i)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("config: catalog %s: duplicate template %q", path, t.Name)
		}
		seen[t.Name] = true
	}
	return doc.Templates, nil
}

func projectRoot(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	return abs, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
