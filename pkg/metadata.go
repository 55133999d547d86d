package modgen

import (
	"fmt"
	"path"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/AidanDelaney/modgen/pkg/config"
	"github.com/AidanDelaney/modgen/pkg/descriptor"
	"github.com/AidanDelaney/modgen/pkg/internal/stub"
)

// metadata is what the writer needs to know about a materialized module.
type metadata struct {
	name       string
	moduleType config.ModuleType
	folderPath string
	repoURL    string
	showsInWS  *bool
}

type metadataWriter struct {
	logger *log.Logger
}

// write puts init.yaml and the type's stub files into the module at dir.
// init.yaml always reflects this run, stubs never replace template content.
func (w metadataWriter) write(dir string, m metadata) error {
	fail := func(err error) error {
		return stepError(m.name, StepWriteMetadata, ErrMetadata, err)
	}
	fs := osfs.New(dir)

	d := descriptor.New(m.folderPath, m.moduleType.Name).WithRepoURL(m.repoURL)
	if m.showsInWS != nil && *m.showsInWS != m.moduleType.ShowsInWorkspace {
		d = d.WithShowsInWorkspace(*m.showsInWS)
	}
	if err := d.Validate(); err != nil {
		return fail(err)
	}
	data, err := d.Marshal()
	if err != nil {
		return fail(err)
	}

	if _, err := fs.Stat(descriptor.FileName); err == nil {
		w.logger.Warn("template descriptor replaced", "path", fs.Join(dir, descriptor.FileName))
	}
	if err := util.WriteFile(fs, descriptor.FileName, data, 0o644); err != nil {
		return fail(fmt.Errorf("failed to write %s: %w", descriptor.FileName, err))
	}
	written, err := util.ReadFile(fs, descriptor.FileName)
	if err != nil {
		return fail(fmt.Errorf("failed to read back %s: %w", descriptor.FileName, err))
	}
	if _, err := descriptor.Parse(written); err != nil {
		return fail(err)
	}
	w.logger.Info("create", "path", fs.Join(dir, descriptor.FileName))

	files, err := stub.Render(m.moduleType.Stubs, stub.Data{
		Name:    m.name,
		Type:    m.moduleType.Name,
		Plural:  m.moduleType.Dir(),
		RepoURL: m.repoURL,
	})
	if err != nil {
		return fail(err)
	}
	stubs := files[:0]
	for _, f := range files {
		if path.Clean(f.Path) == descriptor.FileName {
			w.logger.Debug("skip reserved stub", "path", f.Path)
			continue
		}
		stubs = append(stubs, f)
	}

	created, skipped, err := stub.WriteMissing(fs, stubs)
	for _, p := range created {
		w.logger.Info("create", "path", fs.Join(dir, p))
	}
	for _, p := range skipped {
		w.logger.Debug("keep", "path", fs.Join(dir, p))
	}
	if err != nil {
		return fail(err)
	}
	return nil
}
