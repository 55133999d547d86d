package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Install the template catalog and a project config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			written, err := cfg.Install(force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(written) == 0 {
				fmt.Fprintln(out, hintStyle.Render("Nothing to do; use --force to overwrite existing files."))
				return nil
			}
			for _, path := range written {
				fmt.Fprintf(out, "%s %s\n", successIcon, pathStyle.Render(path))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	return cmd
}
