// Package parquet provides data structures and functions for exporting dmgcalc
// sweeps and comparison history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/dmgcalc/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesPoint is one sample of a strength sweep.
type SeriesPoint struct {
	PointIndex    int32   `parquet:"point_index,snappy"`
	Factor        float64 `parquet:"factor,snappy"`
	Strength1     float64 `parquet:"strength1,snappy"`
	Strength2     float64 `parquet:"strength2,snappy"`
	Damage1Normal float64 `parquet:"damage1_normal,snappy"`
	Damage1Crit   float64 `parquet:"damage1_crit,snappy"`
	Damage2Normal float64 `parquet:"damage2_normal,snappy"`
	Damage2Crit   float64 `parquet:"damage2_crit,snappy"`

	// PercentDiff keeps IEEE infinities and NaN as-is; Label says whether it is usable.
	PercentDiff float64 `parquet:"percent_diff,snappy"`
	Label       string  `parquet:"label,snappy"`
}

// Run represents a single recorded comparison.
// This struct maps to the dmgcalc_runs database table.
type Run struct {
	RunID   int64     `parquet:"run_id,snappy"`
	RunTime time.Time `parquet:"run_time,snappy"`
	Query   string    `parquet:"query,snappy"`
	Source  string    `parquet:"source,snappy"`

	BaseStrength1 float64 `parquet:"base_strength1,snappy"`
	BaseStrength2 float64 `parquet:"base_strength2,snappy"`

	// Summary statistics are null when no sample had a finite percent difference.
	MinPercentDiff  *float64 `parquet:"min_percent_diff,optional,snappy"`
	MaxPercentDiff  *float64 `parquet:"max_percent_diff,optional,snappy"`
	MeanPercentDiff *float64 `parquet:"mean_percent_diff,optional,snappy"`
	UndefinedPoints int32    `parquet:"undefined_points,snappy"`
}

// Point represents one stored sample point of a run.
// This struct maps to the dmgcalc_points database table.
type Point struct {
	RunID         int64    `parquet:"run_id,snappy"`
	PointIndex    int32    `parquet:"point_index,snappy"`
	Strength1     float64  `parquet:"strength1,snappy"`
	Strength2     float64  `parquet:"strength2,snappy"`
	Damage1Normal float64  `parquet:"damage1_normal,snappy"`
	Damage1Crit   float64  `parquet:"damage1_crit,snappy"`
	Damage2Normal float64  `parquet:"damage2_normal,snappy"`
	Damage2Crit   float64  `parquet:"damage2_crit,snappy"`
	PercentDiff   *float64 `parquet:"percent_diff,optional,snappy"`
	PercentText   *string  `parquet:"percent_text,optional,snappy"`
}

// FromSamplePoints converts a sweep into Parquet rows.
func FromSamplePoints(points []schema.SamplePoint) []SeriesPoint {
	rows := make([]SeriesPoint, 0, len(points))
	for _, p := range schema.EnrichPoints(points) {
		rows = append(rows, SeriesPoint{
			PointIndex:    int32(p.Index),
			Factor:        p.Factor,
			Strength1:     p.Strength1,
			Strength2:     p.Strength2,
			Damage1Normal: p.Damage1Normal,
			Damage1Crit:   p.Damage1Crit,
			Damage2Normal: p.Damage2Normal,
			Damage2Crit:   p.Damage2Crit,
			PercentDiff:   p.PercentDiff,
			Label:         string(p.Label),
		})
	}
	return rows
}

// FromRunRecord converts a stored run into a Parquet row.
func FromRunRecord(r schema.RunRecord) Run {
	return Run{
		RunID:           r.RunID,
		RunTime:         r.RunTime,
		Query:           r.Query,
		Source:          r.Source,
		BaseStrength1:   r.BaseStrength1,
		BaseStrength2:   r.BaseStrength2,
		MinPercentDiff:  r.MinPercentDiff,
		MaxPercentDiff:  r.MaxPercentDiff,
		MeanPercentDiff: r.MeanPercentDiff,
		UndefinedPoints: r.UndefinedPoints,
	}
}

// FromPointRecord converts a stored point into a Parquet row.
func FromPointRecord(p schema.PointRecord) Point {
	return Point{
		RunID:         p.RunID,
		PointIndex:    p.PointIndex,
		Strength1:     p.Strength1,
		Strength2:     p.Strength2,
		Damage1Normal: p.Damage1Normal,
		Damage1Crit:   p.Damage1Crit,
		Damage2Normal: p.Damage2Normal,
		Damage2Crit:   p.Damage2Crit,
		PercentDiff:   p.PercentDiff,
		PercentText:   p.PercentText,
	}
}

// WriteSeriesParquet writes a sweep to a Parquet file.
func WriteSeriesParquet(data []SeriesPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePointsParquet writes a slice of Point structs to a Parquet file.
func WritePointsParquet(data []Point, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows whose schema is inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
