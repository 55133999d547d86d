package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/AidanDelaney/modgen/pkg/config"
)

const (
	configFlag      = "config"
	projectRootFlag = "project-root"
	verboseFlag     = "verbose"
)

// Version is set via -ldflags.
var Version = "dev"

type rootOptions struct {
	configFile  string
	projectRoot string
	verbose     bool
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigFilePath: o.configFile,
		ProjectRoot:    o.projectRoot,
	})
}

func (o *rootOptions) logger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "modgen"})
	if o.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// NewRootCommand builds the modgen command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "modgen",
		Short: "A module generation tool",
		Long: `Modgen creates new modules for a project: a directory with an init.yaml
descriptor and stub files, optionally hydrated from a template repository and
pushed to a new GitHub repository.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, configFlag, "", "config file (default: <project root>/"+config.LocalConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&opts.projectRoot, projectRootFlag, "", "directory modules are created under (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, verboseFlag, "v", false, "enable debug output")

	rootCmd.AddCommand(
		newCreateCommand(opts),
		newTypesCommand(opts),
		newTemplatesCommand(opts),
		newInitCommand(opts),
		newValidateCommand(opts),
	)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	return fang.Execute(
		context.Background(),
		NewRootCommand(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	)
}
