package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/parquet"
)

// ExportHistory writes every stored run and point to two Parquet files
// named after outputFile.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled; set --history-backend")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	fmt.Fprintf(w, "Total point records: %d\n", status.TotalPoints)

	runs, err := store.ListRuns(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	runRows := make([]parquet.Run, 0, len(runs))
	var pointRows []parquet.Point
	// Oldest first in the export
	for i := len(runs) - 1; i >= 0; i-- {
		runRows = append(runRows, parquet.FromRunRecord(runs[i]))
		points, err := store.GetPoints(runs[i].RunID)
		if err != nil {
			return fmt.Errorf("failed to retrieve points for run %d: %w", runs[i].RunID, err)
		}
		for _, p := range points {
			pointRows = append(pointRows, parquet.FromPointRecord(p))
		}
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runRows), runsFile)

	pointsFile := outputFile + ".points.parquet"
	if err := parquet.WritePointsParquet(pointRows, pointsFile); err != nil {
		return fmt.Errorf("failed to write points: %w", err)
	}
	fmt.Fprintf(w, "Exported %d point records to: %s\n", len(pointRows), pointsFile)
	return nil
}
