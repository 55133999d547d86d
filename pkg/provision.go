package modgen

import (
	"context"

	"github.com/charmbracelet/log"
)

// repoTarget is the remote repository a module is pushed to. A zero url
// means the module stays local.
type repoTarget struct {
	owner      string
	name       string
	visibility Visibility
	url        string
}

type provisioner struct {
	host   Host
	vcs    VCS
	logger *log.Logger
}

// target computes where the module will live remotely without any network
// access.
func (p provisioner) target(params Params) (repoTarget, error) {
	if params.Repo == nil || params.Repo.Owner == "" {
		return repoTarget{}, nil
	}

	visibility, err := ParseVisibility(string(params.Repo.Visibility))
	if err != nil {
		return repoTarget{}, stepError(params.Name, StepValidate, ErrInvalidParams, err)
	}
	url, err := p.host.CanonicalURL(params.Repo.Owner, params.Name)
	if err != nil {
		return repoTarget{}, stepError(params.Name, StepValidate, ErrInvalidParams, err)
	}
	return repoTarget{
		owner:      params.Repo.Owner,
		name:       params.Name,
		visibility: visibility,
		url:        url,
	}, nil
}

// provision creates the remote repository and pushes the module to it.
// Local files are left alone whatever happens.
func (p provisioner) provision(ctx context.Context, dir, module string, t repoTarget) error {
	p.logger.Info("create repository", "owner", t.owner, "name", t.name, "visibility", t.visibility)
	if err := p.host.CreateRepository(ctx, t.owner, t.name, t.visibility); err != nil {
		return stepError(module, StepProvision, ErrRemoteCreation, err)
	}

	p.logger.Info("push", "remote", t.url)
	if err := p.vcs.PushInitialCommit(ctx, dir, t.url); err != nil {
		return stepError(module, StepProvision, ErrInitialPush, err)
	}
	return nil
}
