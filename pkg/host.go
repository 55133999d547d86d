package modgen

import (
	"context"

	"github.com/AidanDelaney/modgen/pkg/config"
	"github.com/AidanDelaney/modgen/pkg/internal/github"
	"github.com/AidanDelaney/modgen/pkg/internal/gitvcs"
)

// NewGitVCS returns the go-git backed VCS. token authenticates HTTPS remotes
// and may be empty.
func NewGitVCS(token string) VCS {
	return gitvcs.New(gitvcs.WithToken(token))
}

// GitHubHost creates repositories on GitHub.
type GitHubHost struct {
	client *github.Client
}

var _ Host = (*GitHubHost)(nil)

func NewGitHubHost(cfg config.GitHub) *GitHubHost {
	return &GitHubHost{
		client: github.New(
			github.WithAPIURL(cfg.APIURL),
			github.WithWebURL(cfg.WebURL),
			github.WithToken(cfg.Token),
		),
	}
}

func (h *GitHubHost) CanonicalURL(owner, name string) (string, error) {
	return h.client.CanonicalURL(owner, name)
}

func (h *GitHubHost) CreateRepository(ctx context.Context, owner, name string, visibility Visibility) error {
	return h.client.CreateRepository(ctx, owner, name, visibility != VisibilityPublic)
}

// AuthenticatedUser is the login the token belongs to.
func (h *GitHubHost) AuthenticatedUser(ctx context.Context) (string, error) {
	return h.client.AuthenticatedUser(ctx)
}

// Organizations lists the organizations the authenticated user belongs to.
func (h *GitHubHost) Organizations(ctx context.Context) ([]string, error) {
	return h.client.Organizations(ctx)
}
