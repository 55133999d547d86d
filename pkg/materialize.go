package modgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

type materializer struct {
	vcs    VCS
	logger *log.Logger
}

// materialize creates <base>/<name> and hydrates it from src. The directory
// is created with a single Mkdir so that an existing module, or a concurrent
// run that got there first, is reported as ErrPathConflict. A failed clone
// leaves the directory in place.
func (m materializer) materialize(ctx context.Context, base, name string, src source) (string, error) {
	target := filepath.Join(base, name)

	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", stepError(name, StepMaterialize, ErrMaterialize, fmt.Errorf("failed to create %s: %w", base, err))
	}

	// don't clobber an existing module
	if err := os.Mkdir(target, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", stepError(name, StepMaterialize, ErrPathConflict, fmt.Errorf("directory %s already exists", target))
		}
		return "", stepError(name, StepMaterialize, ErrMaterialize, fmt.Errorf("failed to create module directory: %w", err))
	}
	m.logger.Info("create", "path", target)

	if src.blank() {
		return target, nil
	}

	m.logger.Info("clone", "template", src.locator)
	if err := m.vcs.Clone(ctx, src.locator, target); err != nil {
		return "", stepError(name, StepMaterialize, ErrTemplateClone, err)
	}
	if err := m.vcs.StripHistory(target); err != nil {
		return "", stepError(name, StepMaterialize, ErrTemplateClone, err)
	}
	return target, nil
}
