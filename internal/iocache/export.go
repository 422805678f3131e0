package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/parquet"
)

// ExecuteLoadExport exports every recorded season load to a Parquet file.
func ExecuteLoadExport(w io.Writer, store contract.LoadStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get load status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no load data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total load runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllLoadRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve load runs: %w", err)
	}

	rows := parquet.ConvertLoadRunRecords(runs)
	if err := parquet.WriteLoadRunsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write load runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d load runs to: %s\n", len(rows), outputFile)
	return nil
}
