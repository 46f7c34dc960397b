package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/export"
)

var csvHeader = []string{"company_name", "base_url", "contact_url", "phone", "domain"}

// writeRecords renders records as csv or json. Both use the export row layout.
func writeRecords(w io.Writer, format string, records []entity.VerificationRecord) error {
	rows := export.Rows(records)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write([]string{r.CompanyName, r.BaseURL, r.ContactURL, r.Phone, r.Domain}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unsupported format %q (want csv or json)", format)
	}
}

// openOutput returns stdout for "" or "-", otherwise creates path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
