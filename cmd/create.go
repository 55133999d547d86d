package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	modgen "github.com/AidanDelaney/modgen/pkg"
	"github.com/AidanDelaney/modgen/pkg/descriptor"
	"github.com/AidanDelaney/modgen/pkg/wizard"
)

func newCreateCommand(opts *rootOptions) *cobra.Command {
	var (
		flags       wizard.Args
		answersFile string
		repo        bool
		noRepo      bool
		shows       bool
	)

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new module",
		Long: `Create a new module under <project root>/<type plural>/<name>.

Anything not given by flags or an answers file is asked for interactively.

Examples:
  modgen create weather --type plugin --no-repo
  modgen create github_sync --type core --owner my-org --visibility private --yes
  modgen create --answers answers.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.Name = args[0]
			}
			switch {
			case repo && noRepo:
				return errors.New("--repo and --no-repo cannot be used together")
			case repo:
				flags.CreateRepo = &repo
			case noRepo:
				no := false
				flags.CreateRepo = &no
			}
			if cmd.Flags().Changed("shows-in-workspace") {
				flags.ShowsInWorkspace = &shows
			}
			return runCreate(cmd, opts, answersFile, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "module type (see `modgen types`)")
	cmd.Flags().StringVar(&flags.Template, "template", "", "catalog template name, git URL, local directory or \"blank\"")
	cmd.Flags().BoolVar(&repo, "repo", false, "create a GitHub repository for the module")
	cmd.Flags().BoolVar(&noRepo, "no-repo", false, "do not create a GitHub repository")
	cmd.Flags().StringVar(&flags.Owner, "owner", "", "GitHub user or organization to create the repository under")
	cmd.Flags().StringVar(&flags.Visibility, "visibility", "", "repository visibility: public or private")
	cmd.Flags().BoolVar(&shows, "shows-in-workspace", false, "show the module in the workspace")
	cmd.Flags().StringVar(&answersFile, "answers", "", "TOML file with prefilled answers")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "accept defaults instead of prompting")

	return cmd
}

func runCreate(cmd *cobra.Command, opts *rootOptions, answersFile string, flags wizard.Args) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	logger := opts.logger(cmd.ErrOrStderr())

	args := flags
	if answersFile != "" {
		fromFile, err := wizard.ReadAnswers(answersFile)
		if err != nil {
			return err
		}
		args = fromFile.Merge(flags)
	}

	host := modgen.NewGitHubHost(cfg.GitHub)
	w := wizard.New(cfg, wizard.WithOwners(host), wizard.WithLogger(logger))
	params, err := w.Run(cmd.Context(), args)
	if errors.Is(err, wizard.ErrAborted) {
		logger.Info("cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	creator := modgen.NewCreator(cfg,
		modgen.WithVCS(modgen.NewGitVCS(cfg.GitHub.Token)),
		modgen.WithHost(host),
		modgen.WithLogger(logger),
	)
	path, err := creator.Create(cmd.Context(), params)
	if err != nil {
		renderFailure(cmd.ErrOrStderr(), err)
		return err
	}

	renderCreated(cmd.OutOrStdout(), cfg.ProjectRoot(), path, params)
	return nil
}

func renderCreated(w io.Writer, root, path string, params modgen.Params) {
	fmt.Fprintf(w, "%s Module created\n\n", successIcon)
	fmt.Fprintf(w, "%s %s %s\n", infoIcon, labelStyle.Render("Path:"), pathStyle.Render(path))
	fmt.Fprintf(w, "%s %s %s\n", infoIcon, labelStyle.Render("Type:"), valueStyle.Render(params.Type))
	if params.Repo != nil && params.Repo.Owner != "" {
		fmt.Fprintf(w, "%s %s %s/%s\n", infoIcon, labelStyle.Render("Repository:"), valueStyle.Render(params.Repo.Owner), valueStyle.Render(params.Name))
	}
	if rel, err := filepath.Rel(root, filepath.Join(path, descriptor.FileName)); err == nil {
		fmt.Fprintln(w, hintStyle.Render("Edit "+rel+" to declare requirements."))
	}
}

func renderFailure(w io.Writer, err error) {
	var stepErr *modgen.StepError
	if !errors.As(err, &stepErr) {
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", failureIcon, labelStyle.Render(string(stepErr.Step)+":"), valueStyle.Render(stepErr.Kind.Error()))
	if hint := failureHint(stepErr.Kind); hint != "" {
		fmt.Fprintln(w, hintStyle.Render(hint))
	}
}

func failureHint(kind error) string {
	switch {
	case errors.Is(kind, modgen.ErrUnknownModuleType):
		return "Run `modgen types` to list the configured module types."
	case errors.Is(kind, modgen.ErrPathConflict):
		return "Choose another name or move the existing directory out of the way."
	case errors.Is(kind, modgen.ErrTemplateClone):
		return "The module directory was kept for inspection; remove it before retrying."
	case errors.Is(kind, modgen.ErrRemoteCreation):
		return "The module was created locally; check the owner and your GitHub token."
	case errors.Is(kind, modgen.ErrInitialPush):
		return "The repository exists but is empty; push the module manually."
	default:
		return ""
	}
}
