package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/prospector/internal/config"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	verbose bool
)

// Execute runs the prospector command line.
func Execute() error {
	root := &cobra.Command{
		Use:           "prospector",
		Short:         "Find company websites with a reachable contact page",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "human readable debug logging")

	root.AddCommand(runCmd(), scrapeCmd(), tokenCmd())
	return root.Execute()
}
