// Package github wraps the parts of the GitHub REST API that module
// provisioning needs.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v74/github"
)

const (
	DefaultAPIURL = "https://api.github.com"
	DefaultWebURL = "https://github.com"

	orgsPerPage = 100
)

var (
	ErrUnauthorized = errors.New("github: authentication failed")
	ErrForbidden    = errors.New("github: insufficient permissions")
	ErrNotFound     = errors.New("github: not found")
	ErrNameConflict = errors.New("github: repository name already in use")
)

type Client struct {
	apiURL     string
	webURL     string
	token      string
	httpClient *http.Client
	api        *gh.Client
}

type Option func(*Client)

func WithAPIURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiURL = strings.TrimRight(u, "/")
		}
	}
}

func WithWebURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.webURL = strings.TrimRight(u, "/")
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		apiURL:     DefaultAPIURL,
		webURL:     DefaultWebURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.api = gh.NewClient(c.httpClient)
	if c.token != "" {
		c.api = c.api.WithAuthToken(c.token)
	}
	if c.apiURL != DefaultAPIURL {
		if base, err := url.Parse(c.apiURL + "/"); err == nil {
			c.api.BaseURL = base
		}
	}
	c.api.UserAgent = "modgen"
	return c
}

// CanonicalURL is the browse/clone URL of owner/name. It never touches the network.
func (c *Client) CanonicalURL(owner, name string) (string, error) {
	owner, name = strings.TrimSpace(owner), strings.TrimSpace(name)
	if owner == "" || name == "" {
		return "", errors.New("github: owner and repository name are required")
	}
	return fmt.Sprintf("%s/%s/%s", c.webURL, url.PathEscape(owner), url.PathEscape(name)), nil
}

// AuthenticatedUser returns the login the token belongs to.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, resp, err := c.api.Users.Get(ctx, "")
	if err != nil {
		return "", apiError(resp, err)
	}
	return user.GetLogin(), nil
}

// Organizations returns the logins of the organizations the user belongs to.
func (c *Client) Organizations(ctx context.Context) ([]string, error) {
	var logins []string
	opts := &gh.ListOptions{PerPage: orgsPerPage}
	for {
		orgs, resp, err := c.api.Organizations.List(ctx, "", opts)
		if err != nil {
			return nil, apiError(resp, err)
		}
		for _, o := range orgs {
			logins = append(logins, o.GetLogin())
		}
		if resp.NextPage == 0 {
			return logins, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateRepository creates owner/name. Repositories for the authenticated
// user are created as personal repositories, any other owner is treated as
// an organization.
func (c *Client) CreateRepository(ctx context.Context, owner, name string, private bool) error {
	login, err := c.AuthenticatedUser(ctx)
	if err != nil {
		return err
	}

	org := owner
	if strings.EqualFold(login, owner) {
		org = ""
	}

	repo := &gh.Repository{
		Name:    gh.Ptr(name),
		Private: gh.Ptr(private),
	}
	if _, resp, err := c.api.Repositories.Create(ctx, org, repo); err != nil {
		return apiError(resp, err)
	}
	return nil
}

// apiError maps a failed call onto the package sentinels, keeping the
// message GitHub sent.
func apiError(resp *gh.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return fmt.Errorf("github: %w", err)
	}

	msg := http.StatusText(resp.StatusCode)
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Message != "" {
		msg = errResp.Message
		for _, e := range errResp.Errors {
			if e.Message != "" {
				msg += ": " + e.Message
			}
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrNameConflict, msg)
	default:
		return fmt.Errorf("github: API returned status %d: %s", resp.StatusCode, msg)
	}
}
