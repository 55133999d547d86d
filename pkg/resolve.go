package modgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AidanDelaney/modgen/pkg/config"
)

// source is where module content comes from. The zero value is a blank module.
type source struct {
	locator string
}

func (s source) blank() bool {
	return s.locator == ""
}

type resolver struct {
	config config.Provider
	root   string
}

// resolve looks up the module type and decides the template. An explicit
// template wins over the type default; catalog keys are replaced by their
// locator. Remote and absolute locators are used verbatim, relative
// directories are taken from the project root.
func (r resolver) resolve(p Params) (config.ModuleType, source, error) {
	moduleType, ok := r.config.ModuleType(p.Type)
	if !ok {
		err := fmt.Errorf("%q is not one of %s", p.Type, strings.Join(r.config.ModuleTypes(), ", "))
		return config.ModuleType{}, source{}, stepError(p.Name, StepResolve, ErrUnknownModuleType, err)
	}

	requested := strings.TrimSpace(p.Template)
	if requested == "" {
		if def, ok := r.config.DefaultTemplate(p.Type); ok {
			requested = def
		}
	}
	if requested == "" || strings.EqualFold(requested, BlankTemplate) {
		return moduleType, source{}, nil
	}

	if tmpl, ok := r.config.Template(requested); ok {
		return moduleType, source{locator: r.catalogLocator(tmpl.URL)}, nil
	}
	return moduleType, source{locator: localOrRemote(r.root, requested)}, nil
}

// catalogLocator resolves relative catalog directories against the data root.
func (r resolver) catalogLocator(locator string) string {
	return localOrRemote(r.config.DataRoot(), locator)
}

func localOrRemote(base, locator string) string {
	if isRemote(locator) || filepath.IsAbs(locator) {
		return locator
	}
	return filepath.Join(base, filepath.FromSlash(locator))
}

// isRemote reports URLs and scp-style addresses such as git@host:org/repo.
func isRemote(locator string) bool {
	if scheme, _, ok := strings.Cut(locator, "://"); ok {
		return scheme != "" && !strings.ContainsAny(scheme, `/\`)
	}
	host, _, ok := strings.Cut(locator, ":")
	return ok && len(host) > 1 && !strings.ContainsAny(host, `/\`)
}
