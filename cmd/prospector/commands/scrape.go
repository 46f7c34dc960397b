package commands

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/prospector/internal/app"
	"github.com/octobees/prospector/internal/service"
)

// scrape --file companies.csv: verify a known list without searching.
func scrapeCmd() *cobra.Command {
	var (
		file   string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Verify companies from a company_name,url CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(file)
			if err != nil {
				return err
			}
			defer in.Close()

			req, err := service.ParseCompaniesCSV(in)
			if err != nil {
				return err
			}
			candidates, err := service.ScrapeCandidates(req)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			records := a.Controller.Scrape(ctx, candidates)
			logger.Info("scrape finished", zap.Int("companies", len(candidates)), zap.Int("records", len(records)))

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			return writeRecords(out, format, records)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV with company_name and url columns")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
