// Modgen creates new modules for a host framework. A module is a directory
// holding an init.yaml descriptor and stub files, optionally hydrated from a
// template repository and optionally pushed to a freshly created remote
// repository.
package modgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/AidanDelaney/modgen/pkg/config"
)

// BlankTemplate as Params.Template forces an empty module even when the type
// has a default template.
const BlankTemplate = "blank"

var moduleNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// ParseVisibility accepts "public" or "private" in any case. The empty string
// is private.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case "", VisibilityPrivate:
		return VisibilityPrivate, nil
	case VisibilityPublic:
		return VisibilityPublic, nil
	default:
		return "", fmt.Errorf("visibility %q must be public or private", s)
	}
}

// RepoOptions asks for a remote repository. Without an Owner no repository is
// created and no URL is recorded.
type RepoOptions struct {
	Owner      string
	Visibility Visibility
}

// Params is one scaffolding request.
type Params struct {
	Name string
	Type string
	// Repo is nil for local-only scaffolding.
	Repo *RepoOptions
	// Template is a catalog key, a git URL, a local directory or BlankTemplate.
	// Empty means the type's default template.
	Template string
	// ShowsInWorkspace overrides the type default when set.
	ShowsInWorkspace *bool
}

// VCS is the version-control collaborator.
type VCS interface {
	Clone(ctx context.Context, locator, dest string) error
	StripHistory(path string) error
	PushInitialCommit(ctx context.Context, path, remoteURL string) error
}

// Host is the repository-hosting collaborator. CanonicalURL must not touch
// the network.
type Host interface {
	CanonicalURL(owner, name string) (string, error)
	CreateRepository(ctx context.Context, owner, name string, visibility Visibility) error
}

// Creator runs the scaffolding pipeline.
type Creator struct {
	config      config.Provider
	vcs         VCS
	host        Host
	logger      *log.Logger
	projectRoot string
}

type Option func(*Creator)

// WithProjectRoot sets the directory module type folders are created in.
func WithProjectRoot(dir string) Option {
	return func(c *Creator) {
		c.projectRoot = dir
	}
}

func WithVCS(vcs VCS) Option {
	return func(c *Creator) {
		c.vcs = vcs
	}
}

func WithHost(host Host) Option {
	return func(c *Creator) {
		c.host = host
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Creator) {
		c.logger = logger
	}
}

// NewCreator returns a Creator reading the taxonomy and catalog from provider.
// The provider is a precondition: a nil provider panics.
func NewCreator(provider config.Provider, opts ...Option) *Creator {
	if provider == nil {
		panic("modgen: a configuration provider is required")
	}

	c := &Creator{
		config:      provider,
		projectRoot: ".",
	}
	if rooted, ok := provider.(interface{ ProjectRoot() string }); ok && rooted.ProjectRoot() != "" {
		c.projectRoot = rooted.ProjectRoot()
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.vcs == nil {
		c.vcs = NewGitVCS("")
	}
	if c.host == nil {
		c.host = NewGitHubHost(config.GitHub{})
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "modgen"})
	}
	return c
}

// Create scaffolds one module and returns its absolute path. The steps run in
// order and the first failure stops the pipeline. Nothing created before a
// failure is removed, so a retry with the same name fails with
// ErrPathConflict until the partial module is moved out of the way.
func (c *Creator) Create(ctx context.Context, p Params) (string, error) {
	root, err := filepath.Abs(c.projectRoot)
	if err != nil {
		return "", stepError(p.Name, StepValidate, ErrInvalidParams, err)
	}

	repo, err := c.validate(p)
	if err != nil {
		return "", err
	}

	moduleType, source, err := c.resolver(root).resolve(p)
	if err != nil {
		return "", err
	}

	base := filepath.Join(root, moduleType.Dir())
	path, err := c.materializer().materialize(ctx, base, p.Name, source)
	if err != nil {
		return "", err
	}

	folder, err := filepath.Rel(root, path)
	if err != nil {
		return "", stepError(p.Name, StepWriteMetadata, ErrMetadata, err)
	}
	meta := metadata{
		name:       p.Name,
		moduleType: moduleType,
		folderPath: filepath.ToSlash(folder),
		repoURL:    repo.url,
		showsInWS:  p.ShowsInWorkspace,
	}
	if err := c.metadataWriter().write(path, meta); err != nil {
		return "", err
	}

	if repo.url != "" {
		if err := c.provisioner().provision(ctx, path, p.Name, repo); err != nil {
			return "", err
		}
	}

	c.logger.Info("module created", "name", p.Name, "type", moduleType.Name, "path", path)
	return path, nil
}

// validate checks the request and computes the repository target, which is
// pure and so happens before anything touches the filesystem.
func (c *Creator) validate(p Params) (repoTarget, error) {
	fail := func(err error) (repoTarget, error) {
		return repoTarget{}, stepError(p.Name, StepValidate, ErrInvalidParams, err)
	}

	if p.Name == "" {
		return fail(fmt.Errorf("module name cannot be empty"))
	}
	if p.Name == "." || p.Name == ".." || !moduleNameRegex.MatchString(p.Name) {
		return fail(fmt.Errorf("module name %q is invalid: use letters, digits, '_', '-' or '.', starting with a letter or digit", p.Name))
	}
	return c.provisioner().target(p)
}

func (c *Creator) resolver(root string) resolver {
	return resolver{config: c.config, root: root}
}

func (c *Creator) materializer() materializer {
	return materializer{vcs: c.vcs, logger: c.logger}
}

func (c *Creator) metadataWriter() metadataWriter {
	return metadataWriter{logger: c.logger}
}

func (c *Creator) provisioner() provisioner {
	return provisioner{host: c.host, vcs: c.vcs, logger: c.logger}
}
