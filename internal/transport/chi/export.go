package chi

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/riskboard/internal/domain"
)

// Export formats.
const (
	formatCSV     = "csv"
	formatParquet = "parquet"
)

func parseExportFormat(s string) (string, error) {
	switch s {
	case "", formatCSV:
		return formatCSV, nil
	case formatParquet:
		return formatParquet, nil
	}
	return "", domain.NewFieldError("format", "must be csv or parquet")
}

type exportRow interface {
	Row() []string
}

// writeExport streams rows as a file download named base.<format>.
func writeExport[T exportRow](w http.ResponseWriter, format, base string, header []string, rows []T) error {
	switch format {
	case formatParquet:
		w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"."+format))
	w.WriteHeader(http.StatusOK)

	if format == formatParquet {
		return writeParquet(w, rows)
	}
	return writeCSV(w, header, rows)
}

func writeCSV[T exportRow](out io.Writer, header []string, rows []T) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeParquet[T any](out io.Writer, rows []T) error {
	pw := parquet.NewGenericWriter[T](out)
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
