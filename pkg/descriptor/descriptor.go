// Package descriptor defines init.yaml, the metadata file every module carries.
package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the reserved descriptor file name inside a module.
	FileName = "init.yaml"
	// InitialVersion is the version of every newly created module.
	InitialVersion = "0.0.1"
)

// Descriptor is the content of init.yaml. Optional keys are pointers so they
// are omitted exactly when absent.
type Descriptor struct {
	Version          string   `yaml:"version" json:"version"`
	FolderPath       string   `yaml:"folder_path" json:"folder_path"`
	Type             string   `yaml:"type" json:"type"`
	Requirements     []string `yaml:"requirements" json:"requirements"`
	ShowsInWorkspace *bool    `yaml:"shows_in_workspace,omitempty" json:"shows_in_workspace,omitempty"`
	RepoURL          *string  `yaml:"repo_url,omitempty" json:"repo_url,omitempty"`
}

// New returns the descriptor of a freshly created module.
func New(folderPath, moduleType string) Descriptor {
	return Descriptor{
		Version:      InitialVersion,
		FolderPath:   folderPath,
		Type:         moduleType,
		Requirements: []string{},
	}
}

// WithRepoURL sets repo_url. An empty url leaves it absent.
func (d Descriptor) WithRepoURL(u string) Descriptor {
	if u != "" {
		d.RepoURL = &u
	}
	return d
}

// WithShowsInWorkspace sets shows_in_workspace.
func (d Descriptor) WithShowsInWorkspace(v bool) Descriptor {
	d.ShowsInWorkspace = &v
	return d
}

// Validate checks the invariants the schema cannot express.
func (d Descriptor) Validate() error {
	var errs []error
	if _, err := semver.StrictNewVersion(d.Version); err != nil {
		errs = append(errs, fmt.Errorf("version %q: %w", d.Version, err))
	}
	if d.FolderPath == "" {
		errs = append(errs, errors.New("folder_path is empty"))
	}
	if d.Type == "" {
		errs = append(errs, errors.New("type is empty"))
	}
	if d.RepoURL != nil {
		u, err := url.Parse(*d.RepoURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			errs = append(errs, fmt.Errorf("repo_url %q is not an absolute URL", *d.RepoURL))
		}
	}
	return errors.Join(errs...)
}

// Marshal renders the descriptor as YAML with two-space indentation.
func (d Descriptor) Marshal() ([]byte, error) {
	if d.Requirements == nil {
		d.Requirements = []string{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("descriptor: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("descriptor: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes and validates init.yaml content.
func Parse(data []byte) (Descriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Descriptor{}, errors.New("descriptor: file is empty")
	}

	result, err := Validate(data)
	if err != nil {
		return Descriptor{}, err
	}
	if !result.Valid {
		return Descriptor{}, result
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: %w", err)
	}
	return d, nil
}

// Load reads the descriptor of the module in dir.
func Load(dir string) (Descriptor, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
