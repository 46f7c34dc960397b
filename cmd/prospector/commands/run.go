package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/prospector/internal/app"
	"github.com/octobees/prospector/internal/dto"
)

func runCmd() *cobra.Command {
	var (
		req    dto.RunRequest
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search, verify and print confirmed companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Runs.Execute(ctx, req, func(stage string) {
				logger.Info("run stage", zap.String("stage", stage))
			})
			if err != nil {
				return err
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()

			if err := writeRecords(out, format, report.Records); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "searched=%d candidates=%d verified=%d confirmed=%d\n",
				report.Counts.Searched, report.Counts.Candidates, report.Counts.Verified, report.Counts.Confirmed)
			if report.SpreadsheetURL != "" {
				fmt.Fprintln(os.Stderr, "spreadsheet:", report.SpreadsheetURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Keyword, "keyword", "k", "", "industry keyword; queries are generated from it")
	cmd.Flags().StringSliceVarP(&req.Queries, "query", "q", nil, "explicit search query (repeatable)")
	cmd.Flags().IntVarP(&req.TargetCount, "target", "n", 0, "number of confirmed companies wanted (default 100)")
	cmd.Flags().StringSliceVar(&req.ExcludeDomains, "exclude", nil, "extra domain to exclude (repeatable)")
	cmd.Flags().BoolVar(&req.SkipExport, "skip-export", false, "do not send results to the sheet webhook")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	return cmd
}
