package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintDamageResult outputs a single damage evaluation, dispatching based on the output format configured.
func PrintDamageResult(result schema.DamageResult, cfg *contract.Config, explain bool) error {
	switch cfg.Output {
	case schema.ParquetOut, schema.XLSXOut:
		return fmt.Errorf("output format %s is not supported for single evaluations", cfg.Output)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteDamageResult(w, result, cfg, explain)
	}, fmt.Sprintf("Wrote %s damage", cfg.Output))
}

// WriteDamageResult writes a single evaluation to w.
func WriteDamageResult(w io.Writer, result schema.DamageResult, cfg *contract.Config, explain bool) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForDamage(w, result, fmtFloat, explain); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeDamageText(w, result, cfg, fmtFloat, explain); err != nil {
			return fmt.Errorf("error writing damage output: %w", err)
		}
	}
	return nil
}

// writeDamageText prints the damage line and, when asked, every stage of the pipeline.
func writeDamageText(w io.Writer, result schema.DamageResult, cfg *contract.Config, fmtFloat func(float64) string, explain bool) error {
	kind := "normal"
	if result.ForceCrit {
		kind = "critical"
	}
	header := fmt.Sprintf("%s at strength %s", result.Build.Title(), fmtFloat(result.Strength))
	if cfg.UseEmojis {
		header = "💥 " + header
	}
	if cfg.UseColors {
		header = contract.HeaderColor.Sprint(header)
	}
	if _, err := fmt.Fprintf(w, "%s: %s (%s)\n", header, fmtFloat(result.Damage), kind); err != nil {
		return err
	}

	if explain {
		table := tablewriter.NewWriter(w)
		defer func() { _ = table.Close() }()
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Header.Formatting.AutoFormat = tw.Off
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		table.Header([]string{"Stage", "Value"})
		b := result.Breakdown
		rows := [][]string{{"bonus_sum", fmtFloat(b.BonusSum)}}
		stages := b.Stages()
		for _, stage := range schema.BreakdownStages {
			rows = append(rows, []string{stage, fmtFloat(stages[stage])})
		}
		if err := table.Bulk(rows); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Share: ?%s\n", result.Query); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForDamage writes the evaluation as a single CSV row.
func writeCSVResultsForDamage(w io.Writer, result schema.DamageResult, fmtFloat func(float64) string, explain bool) error {
	header := []string{"build", "strength", "force_crit", "damage"}
	if explain {
		header = append(header, "bonus_sum")
		header = append(header, schema.BreakdownStages...)
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		row := []string{
			string(result.Build),
			fmtFloat(result.Strength),
			strconv.FormatBool(result.ForceCrit),
			fmtFloat(result.Damage),
		}
		if explain {
			row = append(row, fmtFloat(result.Breakdown.BonusSum))
			stages := result.Breakdown.Stages()
			for _, stage := range schema.BreakdownStages {
				row = append(row, fmtFloat(stages[stage]))
			}
		}
		return csvWriter.Write(row)
	})
}
