package schema

import "time"

// RunRecord represents a row from the dmgcalc_runs table.
type RunRecord struct {
	RunID           int64
	RunTime         time.Time
	Query           string
	Source          string
	BaseStrength1   float64
	BaseStrength2   float64
	MinPercentDiff  *float64
	MaxPercentDiff  *float64
	MeanPercentDiff *float64
	UndefinedPoints int32
}

// HistoryEntry is one recorded comparison ready to be persisted.
type HistoryEntry struct {
	RunTime time.Time
	Source  string // cli, web or mcp
	Result  SeriesResult
}
