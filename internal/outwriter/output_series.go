package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/parquet"
	"github.com/huangsam/dmgcalc/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/xuri/excelize/v2"
)

// seriesCSVHeader is shared by the CSV and XLSX writers.
var seriesCSVHeader = []string{
	"index",
	"factor",
	"strength1",
	"strength2",
	"damage1_normal",
	"damage1_crit",
	"damage2_normal",
	"damage2_crit",
	"percent_diff",
	"label",
}

// PrintSeriesResults outputs a strength sweep, dispatching based on the output format configured.
func PrintSeriesResults(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet(parquet.FromSamplePoints(result.Points), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet series to %s\n", cfg.OutputFile)
		return nil
	case schema.XLSXOut:
		if err := writeSeriesXLSX(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote XLSX series to %s\n", cfg.OutputFile)
		return nil
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSeriesResults(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s series", cfg.Output))
}

// WriteSeriesResults writes the sweep to w in one of the stream formats (text, csv, json).
func WriteSeriesResults(w io.Writer, result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForSeries(w, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := writeSeriesTable(w, result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

// writeSeriesTable writes the sweep as a table followed by a short summary.
func writeSeriesTable(writer io.Writer, result schema.SeriesResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	compact := isCompact(cfg)
	headers := []string{"#", "Factor", "Str 1", "Str 2", "B1 Normal"}
	if !compact {
		headers = append(headers, "B1 Crit")
	}
	headers = append(headers, "B2 Normal")
	if !compact {
		headers = append(headers, "B2 Crit")
	}
	headers = append(headers, "% Diff", "Label")

	// Headers are formatted when set, so configure first
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	table.Header(headers)

	var data [][]string
	for _, p := range schema.EnrichPoints(result.Points) {
		row := []string{
			strconv.Itoa(p.Index + 1),
			fmt.Sprintf("%.1fx", p.Factor),
			fmtFloat(p.Strength1),
			fmtFloat(p.Strength2),
			fmtFloat(p.Damage1Normal),
		}
		if !compact {
			row = append(row, fmtFloat(p.Damage1Crit))
		}
		row = append(row, fmtFloat(p.Damage2Normal))
		if !compact {
			row = append(row, fmtFloat(p.Damage2Crit))
		}
		label := string(p.Label)
		if cfg.UseColors {
			label = contract.GetColorLabel(p.PercentDiff)
		}
		row = append(row, formatPercentDelta(p.PercentDiff, cfg.UseColors), label)
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeSeriesSummary(writer, result, cfg, duration)
}

// writeSeriesSummary prints the lines shown under the series table.
func writeSeriesSummary(w io.Writer, result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	s := result.Summary
	if len(result.Points) > schema.SampleCount/2 {
		base := result.Points[schema.SampleCount/2].PercentDiff
		if _, err := fmt.Fprintf(w, "At base strength, Build 2 vs Build 1: %s (%s)\n", formatPercent(base), schema.GetDiffLabel(base)); err != nil {
			return err
		}
	}
	if s.FiniteSamples > 0 {
		if _, err := fmt.Fprintf(w, "Percent difference: min %.2f%%, max %.2f%%, mean %.2f%% over %d samples\n",
			s.MinPercentDiff, s.MaxPercentDiff, s.MeanPercentDiff, s.FiniteSamples); err != nil {
			return err
		}
	}
	if s.UndefinedPoints > 0 {
		if _, err := fmt.Fprintf(w, "Undefined percent difference at %d samples (Build 1 normal damage is zero)\n", s.UndefinedPoints); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Share: ?%s\n", result.Query); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Comparison completed in %v. History backend: %s\n", duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// formatPercent formats a percent difference with two decimals and a sign.
func formatPercent(v float64) string {
	if s := schema.FormatNonFinite(v); s != "" {
		return s
	}
	return fmt.Sprintf("%+.2f%%", v)
}

// formatPercentDelta decorates a percent difference with a direction marker.
func formatPercentDelta(v float64, useColors bool) string {
	var red, green, yellow, magenta func(...any) string
	if useColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
		magenta = color.New(color.FgMagenta).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
		magenta = fmt.Sprint
	}
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return magenta(formatPercent(v))
	case v > 0:
		return green(formatPercent(v) + " ▲")
	case v < 0:
		return red(formatPercent(v) + " ▼")
	default:
		return yellow(fmt.Sprintf("%.2f%%", 0.0))
	}
}

// writeCSVResultsForSeries writes one CSV row per sample point.
func writeCSVResultsForSeries(w io.Writer, result schema.SeriesResult, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, seriesCSVHeader, func(csvWriter *csv.Writer) error {
		for _, p := range schema.EnrichPoints(result.Points) {
			row := []string{
				strconv.Itoa(p.Index),
				strconv.FormatFloat(p.Factor, 'f', 1, 64),
				fmtFloat(p.Strength1),
				fmtFloat(p.Strength2),
				fmtFloat(p.Damage1Normal),
				fmtFloat(p.Damage1Crit),
				fmtFloat(p.Damage2Normal),
				fmtFloat(p.Damage2Crit),
				formatCSVPercent(p.PercentDiff),
				string(p.Label),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatCSVPercent keeps percent differences at their stored two decimals.
func formatCSVPercent(v float64) string {
	if s := schema.FormatNonFinite(v); s != "" {
		return s
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// writeSeriesXLSX writes a workbook with a "Series" sheet of sample points and
// a "Builds" sheet with both parameter sets side by side.
func writeSeriesXLSX(result schema.SeriesResult, outputFile string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	series := "Series"
	builds := "Builds"
	if err := f.SetSheetName("Sheet1", series); err != nil {
		return err
	}
	if _, err := f.NewSheet(builds); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for col, name := range seriesCSVHeader {
		if err := setCell(f, series, col+1, 1, name); err != nil {
			return err
		}
	}
	for i, p := range schema.EnrichPoints(result.Points) {
		row := i + 2
		values := []any{
			p.Index,
			p.Factor,
			xlsxNumber(p.Strength1),
			xlsxNumber(p.Strength2),
			xlsxNumber(p.Damage1Normal),
			xlsxNumber(p.Damage1Crit),
			xlsxNumber(p.Damage2Normal),
			xlsxNumber(p.Damage2Crit),
			xlsxNumber(p.PercentDiff),
			string(p.Label),
		}
		for col, v := range values {
			if err := setCell(f, series, col+1, row, v); err != nil {
				return err
			}
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(seriesCSVHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(series, "A1", lastHeader, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(series, "A", "J", 16); err != nil {
		return err
	}

	for col, name := range []string{"field", "label", "group", schema.Build1.Title(), schema.Build2.Title()} {
		if err := setCell(f, builds, col+1, 1, name); err != nil {
			return err
		}
	}
	for i, field := range schema.Fields {
		row := i + 2
		values := []any{
			field.Key,
			field.Label,
			string(field.Group),
			field.Get(result.Build1),
			field.Get(result.Build2),
		}
		for col, v := range values {
			if err := setCell(f, builds, col+1, row, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetCellStyle(builds, "A1", "E1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(builds, "A", "C", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(builds, "D", "E", 14); err != nil {
		return err
	}

	return f.SaveAs(outputFile)
}

// setCell writes v at the 1-based column and row.
func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}

// xlsxNumber returns v, or its sentinel text when v is not finite since
// spreadsheet cells cannot hold IEEE infinities or NaN.
func xlsxNumber(v float64) any {
	if s := schema.FormatNonFinite(v); s != "" {
		return s
	}
	return v
}
