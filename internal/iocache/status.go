package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/dmgcalc/schema"
)

// PrintHistoryStatus prints history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Total Points: %d\n", status.TotalPoints)
	}
	fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// PrintRuns prints one line per stored run.
func PrintRuns(w io.Writer, runs []schema.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		mean := "n/a"
		if r.MeanPercentDiff != nil {
			mean = fmt.Sprintf("%+.2f%%", *r.MeanPercentDiff)
		}
		fmt.Fprintf(w, "#%d  %s  %-4s  str %g vs %g  mean %s  ?%s\n",
			r.RunID, r.RunTime.Local().Format("2006-01-02 15:04:05"), r.Source,
			r.BaseStrength1, r.BaseStrength2, mean, r.Query)
	}
}
