package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTypesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the configured module types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Module types"))
			for _, name := range cfg.ModuleTypes() {
				t, _ := cfg.ModuleType(name)
				template := t.DefaultTemplate
				if template == "" {
					template = "blank"
				}
				fmt.Fprintf(out, "%s %s %s\n", infoIcon, labelStyle.Render(name),
					valueStyle.Render(fmt.Sprintf("dir=%s template=%s shows_in_workspace=%t", t.Dir(), template, t.ShowsInWorkspace)))
			}
			return nil
		},
	}
}

func newTemplatesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the module template catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Module templates"))
			templates := cfg.Templates()
			if len(templates) == 0 {
				fmt.Fprintln(out, hintStyle.Render("No templates in "+cfg.CatalogPath()+"; modules are created blank."))
				return nil
			}
			for _, t := range templates {
				fmt.Fprintf(out, "%s %s %s\n", infoIcon, labelStyle.Render(t.Name), pathStyle.Render(t.URL))
				if t.Description != "" {
					fmt.Fprintf(out, "  %s\n", valueStyle.Render(t.Description))
				}
			}
			return nil
		},
	}
}
