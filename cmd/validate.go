package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AidanDelaney/modgen/pkg/descriptor"
)

func newValidateCommand(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <module dir>",
		Short: "Validate the init.yaml of an existing module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := descriptor.Load(args[0])
			if err != nil {
				var result *descriptor.ValidationResult
				if errors.As(err, &result) {
					for _, issue := range result.Issues {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", failureIcon, issue.String())
					}
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s is valid\n", successIcon, pathStyle.Render(args[0]))
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("type:"), valueStyle.Render(d.Type))
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("version:"), valueStyle.Render(d.Version))
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("folder_path:"), valueStyle.Render(d.FolderPath))
			if d.RepoURL != nil {
				fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("repo_url:"), valueStyle.Render(*d.RepoURL))
			}
			return nil
		},
	}
}
