package schema

import "time"

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	TotalPoints   int              `json:"total_points"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// PointRecord represents a row from the dmgcalc_points table.
type PointRecord struct {
	RunID         int64
	PointIndex    int32
	Strength1     float64
	Strength2     float64
	Damage1Normal float64
	Damage1Crit   float64
	Damage2Normal float64
	Damage2Crit   float64
	PercentDiff   *float64 // nil when not finite
	PercentText   *string  // "Infinity", "-Infinity" or "NaN" when not finite
}

// Value returns the percent difference, restoring non-finite sentinels.
func (p PointRecord) Value() float64 {
	if p.PercentDiff != nil {
		return *p.PercentDiff
	}
	if p.PercentText != nil {
		if v, ok := ParseNonFinite(*p.PercentText); ok {
			return v
		}
	}
	return 0
}
