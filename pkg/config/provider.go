package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Provider is the read-only view of configuration the scaffolding core needs.
type Provider interface {
	// ModuleTypes lists the configured type names in sorted order.
	ModuleTypes() []string
	ModuleType(name string) (ModuleType, bool)
	// DefaultTemplate returns the catalog key or locator registered for a type.
	DefaultTemplate(moduleType string) (string, bool)
	Template(name string) (Template, bool)
	Templates() []Template
	DataRoot() string
}

var _ Provider = (*Config)(nil)

func (c *Config) ModuleTypes() []string {
	return sortedKeys(c.Types)
}

func (c *Config) ModuleType(name string) (ModuleType, bool) {
	t, ok := c.Types[name]
	return t, ok
}

func (c *Config) DefaultTemplate(moduleType string) (string, bool) {
	t, ok := c.Types[moduleType]
	if !ok || t.DefaultTemplate == "" {
		return "", false
	}
	return t.DefaultTemplate, true
}

func (c *Config) Template(name string) (Template, bool) {
	for _, t := range c.catalog {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

func (c *Config) Templates() []Template {
	return append([]Template(nil), c.catalog...)
}

func (c *Config) DataRoot() string {
	return c.DataRootPath
}

// Install writes the bundled template catalog into the data root and a
// starter project config into the project root. Existing files are left
// alone unless force is set. It returns the files written.
func (c *Config) Install(force bool) ([]string, error) {
	var written []string

	catalogPath := c.CatalogPath()
	ok, err := install(catalogPath, defaultCatalog, force)
	if err != nil {
		return written, err
	}
	if ok {
		written = append(written, catalogPath)
		catalog, err := ReadCatalog(catalogPath)
		if err != nil {
			return written, err
		}
		c.catalog = catalog
	}

	projectConfig := filepath.Join(c.projectRoot, LocalConfigFile)
	ok, err = install(projectConfig, starterConfig, force)
	if err != nil {
		return written, err
	}
	if ok {
		written = append(written, projectConfig)
	}
	return written, nil
}

func install(path string, content []byte, force bool) (bool, error) {
	if !force && fileExists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
