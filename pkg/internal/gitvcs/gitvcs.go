// Package gitvcs implements the version-control side of module scaffolding on
// top of go-git: cloning templates, dropping their history and pushing the
// first commit of a new module.
package gitvcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	cp "github.com/otiai10/copy"
)

const (
	// HistoryDir is the version-control metadata directory removed from templates.
	HistoryDir = ".git"
	// RemoteName is the remote the initial commit is pushed to.
	RemoteName = "origin"

	initialCommitMessage = "Initial commit"
)

// Git clones, strips and pushes module directories.
type Git struct {
	token  string
	author *object.Signature
	now    func() time.Time
}

type Option func(*Git)

// WithToken sets the token used for HTTPS remotes.
func WithToken(token string) Option {
	return func(g *Git) {
		g.token = token
	}
}

// WithAuthor fixes the author of the initial commit instead of reading it
// from the global git configuration.
func WithAuthor(name, email string) Option {
	return func(g *Git) {
		g.author = &object.Signature{Name: name, Email: email}
	}
}

func New(opts ...Option) *Git {
	g := &Git{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Clone copies the template at locator into dest. Local directories are
// copied, anything else is shallow cloned.
func (g *Git) Clone(ctx context.Context, locator, dest string) error {
	if info, err := os.Stat(locator); err == nil && info.IsDir() {
		if err := cp.Copy(locator, dest); err != nil {
			return fmt.Errorf("failed to copy template %s: %w", locator, err)
		}
		return nil
	}

	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:   locator,
		Auth:  g.auth(locator),
		Depth: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", locator, err)
	}
	return nil
}

// StripHistory removes the version-control directory at the root of path.
// Nested repositories are left alone.
func (g *Git) StripHistory(path string) error {
	if err := os.RemoveAll(filepath.Join(path, HistoryDir)); err != nil {
		return fmt.Errorf("failed to remove template history: %w", err)
	}
	return nil
}

// PushInitialCommit initializes a repository in path, commits everything in
// it and pushes the result to remoteURL.
func (g *Git) PushInitialCommit(ctx context.Context, path, remoteURL string) error {
	repo, err := git.PlainInitWithOptions(path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		repo, err = git.PlainOpen(path)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	if _, err := worktree.Commit(initialCommitMessage, &git.CommitOptions{Author: g.signature()}); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: RemoteName,
		URLs: []string{remoteURL},
	})
	if err != nil && !errors.Is(err, git.ErrRemoteExists) {
		return fmt.Errorf("failed to add remote: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	refSpec := config.RefSpec(fmt.Sprintf("%s:%s", head.Name(), head.Name()))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: RemoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       g.auth(remoteURL),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push to %s: %w", remoteURL, err)
	}
	return nil
}

func (g *Git) signature() *object.Signature {
	sig := object.Signature{Name: "modgen", Email: "modgen@localhost"}
	if g.author != nil {
		sig = *g.author
	} else if cfg, err := config.LoadConfig(config.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			sig.Name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			sig.Email = cfg.User.Email
		}
	}
	sig.When = g.now()
	return &sig
}

// auth picks credentials from the shape of the URL: SSH keys for SSH remotes,
// the token for HTTPS remotes, nothing for local paths.
func (g *Git) auth(locator string) transport.AuthMethod {
	switch {
	case isSSH(locator):
		return trySSHAuth()
	case strings.HasPrefix(locator, "https://"), strings.HasPrefix(locator, "http://"):
		if g.token == "" {
			return nil
		}
		return &http.BasicAuth{
			Username: "x-access-token",
			Password: g.token,
		}
	default:
		return nil
	}
}

func isSSH(locator string) bool {
	return strings.HasPrefix(locator, "ssh://") || strings.HasPrefix(locator, "git@")
}

func trySSHAuth() transport.AuthMethod {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	keyPaths := []string{
		filepath.Join(homeDir, ".ssh", "id_ed25519"),
		filepath.Join(homeDir, ".ssh", "id_rsa"),
		filepath.Join(homeDir, ".ssh", "id_ecdsa"),
	}
	for _, keyPath := range keyPaths {
		if _, err := os.Stat(keyPath); err == nil {
			if auth, err := ssh.NewPublicKeysFromFile("git", keyPath, ""); err == nil {
				return auth
			}
		}
	}

	// Fall back to go-git's default (ssh-agent).
	return nil
}
