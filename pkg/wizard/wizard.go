// Package wizard asks the user for whatever a module creation request is
// missing. Anything already answered, by flags or an answers file, is not
// asked again.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/log"
	"github.com/huandu/xstrings"

	modgen "github.com/AidanDelaney/modgen/pkg"
	"github.com/AidanDelaney/modgen/pkg/config"
)

const (
	defaultModuleName = "my_module"
	coreType          = "core"
	blankChoice       = "Blank"
)

// ErrAborted is returned when the user interrupts a prompt or declines to go on.
var ErrAborted = errors.New("module creation aborted")

// Owners lists the accounts a repository can be created under.
type Owners interface {
	AuthenticatedUser(ctx context.Context) (string, error)
	Organizations(ctx context.Context) ([]string, error)
}

type Wizard struct {
	config config.Provider
	root   string
	owners Owners
	logger *log.Logger
	stdio  []survey.AskOpt
}

type Option func(*Wizard)

// WithOwners enables repository owner lookup. Without it a repository can
// only be requested with an explicit owner.
func WithOwners(owners Owners) Option {
	return func(w *Wizard) {
		w.owners = owners
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(w *Wizard) {
		w.logger = logger
	}
}

// WithStdio redirects the prompts, mostly for tests.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, err io.Writer) Option {
	return func(w *Wizard) {
		w.stdio = []survey.AskOpt{survey.WithStdio(in, out, err)}
	}
}

func New(provider config.Provider, opts ...Option) *Wizard {
	w := &Wizard{
		config: provider,
		stdio:  []survey.AskOpt{survey.WithStdio(os.Stdin, os.Stdout, os.Stderr)},
	}
	if rooted, ok := provider.(interface{ ProjectRoot() string }); ok {
		w.root = rooted.ProjectRoot()
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "modgen"})
	}
	return w
}

// Run completes args into a creation request.
func (w *Wizard) Run(ctx context.Context, args Args) (modgen.Params, error) {
	name, err := w.moduleName(args)
	if err != nil {
		return modgen.Params{}, err
	}

	moduleType, err := w.moduleType(args)
	if err != nil {
		return modgen.Params{}, err
	}

	template, err := w.template(args, moduleType)
	if err != nil {
		return modgen.Params{}, err
	}

	repo, err := w.repository(ctx, args)
	if err != nil {
		return modgen.Params{}, err
	}

	return modgen.Params{
		Name:             name,
		Type:             moduleType,
		Repo:             repo,
		Template:         template,
		ShowsInWorkspace: args.ShowsInWorkspace,
	}, nil
}

func (w *Wizard) moduleName(args Args) (string, error) {
	raw := strings.TrimSpace(args.Name)
	if raw == "" {
		if args.Yes {
			return "", errors.New("a module name is required")
		}
		prompt := &survey.Input{Message: "Module name", Default: defaultModuleName}
		if err := w.ask(prompt, &raw, survey.WithValidator(survey.Required)); err != nil {
			return "", err
		}
	}

	name := xstrings.ToSnakeCase(strings.TrimSpace(raw))
	if name != raw {
		w.logger.Info("module name normalized", "from", raw, "to", name)
	}
	return name, nil
}

// types lists the module types with core last, since cores extend the
// framework itself.
func (w *Wizard) types() []string {
	types := slices.DeleteFunc(w.config.ModuleTypes(), func(t string) bool { return t == coreType })
	if _, ok := w.config.ModuleType(coreType); ok {
		types = append(types, coreType)
	}
	return types
}

func (w *Wizard) moduleType(args Args) (string, error) {
	types := w.types()
	if len(types) == 0 {
		return "", errors.New("no module types are configured")
	}

	moduleType := args.Type
	switch {
	case moduleType != "":
		if !slices.Contains(types, moduleType) {
			return "", fmt.Errorf("%w: %q, valid types are %s", modgen.ErrUnknownModuleType, moduleType, strings.Join(types, ", "))
		}
	case args.Yes:
		return "", errors.New("a module type is required")
	default:
		prompt := &survey.Select{Message: "Module type", Options: types, Default: types[0]}
		if err := w.ask(prompt, &moduleType); err != nil {
			return "", err
		}
	}

	if moduleType == coreType && !args.Yes {
		w.logger.Warn("cores are internal framework components; only create one when extending the framework itself")
		confirmed := false
		prompt := &survey.Confirm{Message: "Are you sure you want to create a core module?", Default: false}
		if err := w.ask(prompt, &confirmed); err != nil {
			return "", err
		}
		if !confirmed {
			return "", fmt.Errorf("%w: core creation declined", ErrAborted)
		}
	}
	return moduleType, nil
}

// template returns a catalog key, a locator, modgen.BlankTemplate, or "" to
// leave the choice to the module type default.
func (w *Wizard) template(args Args, moduleType string) (string, error) {
	templates := w.config.Templates()

	if requested := strings.TrimSpace(args.Template); requested != "" {
		if strings.EqualFold(requested, modgen.BlankTemplate) {
			return modgen.BlankTemplate, nil
		}
		for _, t := range templates {
			if t.Name == requested || t.URL == requested {
				w.logger.Info("using template", "name", t.Name)
				return t.Name, nil
			}
		}
		if w.isLocator(requested) {
			w.logger.Info("using template", "url", requested)
			return requested, nil
		}
		w.logger.Warn("template not found, creating a blank module", "template", requested)
		return modgen.BlankTemplate, nil
	}

	if def, ok := w.config.DefaultTemplate(moduleType); ok {
		w.logger.Info("using the module type default template", "type", moduleType, "template", def)
		return "", nil
	}

	switch {
	case len(templates) == 0:
		w.logger.Info("no module templates configured, creating a blank module")
		return modgen.BlankTemplate, nil
	case len(templates) == 1:
		w.logger.Info("single module template found, using it", "name", templates[0].Name, "url", templates[0].URL)
		return templates[0].Name, nil
	case args.Yes:
		return modgen.BlankTemplate, nil
	}

	labels := []string{blankChoice}
	byLabel := map[string]string{}
	for _, t := range templates {
		detail := t.Description
		if detail == "" {
			detail = t.URL
		}
		label := fmt.Sprintf("%s (%s)", t.Name, detail)
		labels = append(labels, label)
		byLabel[label] = t.Name
	}

	var choice string
	prompt := &survey.Select{Message: "Select a module template", Options: labels, Default: blankChoice}
	if err := w.ask(prompt, &choice); err != nil {
		return "", err
	}
	if choice == blankChoice {
		return modgen.BlankTemplate, nil
	}
	return byLabel[choice], nil
}

func (w *Wizard) repository(ctx context.Context, args Args) (*modgen.RepoOptions, error) {
	create := args.CreateRepo
	if create == nil && args.Owner != "" {
		create = boolPtr(true)
	}
	if create == nil {
		if args.Yes {
			return nil, nil
		}
		answer := true
		prompt := &survey.Confirm{Message: "Create a GitHub repository for this module?", Default: true}
		if err := w.ask(prompt, &answer); err != nil {
			return nil, err
		}
		create = &answer
	}
	if !*create {
		return nil, nil
	}

	owner, err := w.owner(ctx, args)
	if err != nil || owner == "" {
		return nil, err
	}

	visibility, err := w.visibility(args)
	if err != nil {
		return nil, err
	}
	return &modgen.RepoOptions{Owner: owner, Visibility: visibility}, nil
}

func (w *Wizard) owner(ctx context.Context, args Args) (string, error) {
	if w.owners == nil {
		if args.Owner == "" {
			return "", errors.New("a repository owner is required")
		}
		return args.Owner, nil
	}

	owners, labels, err := w.lookupOwners(ctx)
	if err != nil {
		if args.Owner != "" {
			w.logger.Warn("cannot verify repository owner", "owner", args.Owner, "err", err)
			return args.Owner, nil
		}
		w.logger.Error("cannot list repository owners, skipping repository creation", "err", err)
		return "", nil
	}
	if len(owners) == 0 {
		w.logger.Error("no eligible GitHub owners found, skipping repository creation")
		return "", nil
	}

	if args.Owner != "" {
		if !slices.Contains(owners, args.Owner) {
			return "", fmt.Errorf("owner %q is not available, choose one of %s", args.Owner, strings.Join(owners, ", "))
		}
		return args.Owner, nil
	}
	if args.Yes {
		return owners[0], nil
	}

	var choice int
	prompt := &survey.Select{Message: "Select repository owner", Options: labels, Default: labels[0]}
	if err := w.ask(prompt, &choice); err != nil {
		return "", err
	}
	return owners[choice], nil
}

// lookupOwners returns the personal account first, then organizations.
func (w *Wizard) lookupOwners(ctx context.Context) (owners, labels []string, err error) {
	user, err := w.owners.AuthenticatedUser(ctx)
	if err != nil {
		return nil, nil, err
	}
	if user != "" {
		owners = append(owners, user)
		labels = append(labels, user+" (personal)")
	}

	orgs, err := w.owners.Organizations(ctx)
	if err != nil {
		w.logger.Warn("cannot list organizations", "err", err)
	}
	for _, org := range orgs {
		if org == "" || slices.Contains(owners, org) {
			continue
		}
		owners = append(owners, org)
		labels = append(labels, org+" (org)")
	}
	return owners, labels, nil
}

func (w *Wizard) visibility(args Args) (modgen.Visibility, error) {
	if args.Visibility != "" {
		return modgen.ParseVisibility(args.Visibility)
	}
	if args.Yes {
		return modgen.VisibilityPrivate, nil
	}

	choice := "Private"
	prompt := &survey.Select{Message: "Repository visibility", Options: []string{"Public", "Private"}, Default: "Private"}
	if err := w.ask(prompt, &choice); err != nil {
		return "", err
	}
	return modgen.ParseVisibility(choice)
}

func (w *Wizard) ask(prompt survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	err := survey.AskOne(prompt, response, append(slices.Clone(w.stdio), opts...)...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// isLocator reports git URLs and existing directories. Relative directories
// are looked up under the project root, where the creator resolves them.
func (w *Wizard) isLocator(s string) bool {
	for _, prefix := range []string{"http://", "https://", "ssh://", "git@", "file://"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	if !filepath.IsAbs(s) && w.root != "" {
		s = filepath.Join(w.root, s)
	}
	info, err := os.Stat(s)
	return err == nil && info.IsDir()
}

func boolPtr(b bool) *bool {
	return &b
}
