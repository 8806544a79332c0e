package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/schema"
)

// PrintParamsDefinitions displays the parameter schema with defaults and the formula.
// This is a static display that does not evaluate any build.
func PrintParamsDefinitions(model schema.ParamsRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.ParquetOut, schema.XLSXOut:
		return fmt.Errorf("output format %s is not supported for parameter listings", cfg.Output)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteParamsDefinitions(w, model, cfg)
	}, fmt.Sprintf("Wrote %s parameters", cfg.Output))
}

// WriteParamsDefinitions writes the parameter schema to w.
func WriteParamsDefinitions(w io.Writer, model schema.ParamsRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, model)
	case schema.CSVOut:
		return writeCSVParams(w, model)
	default:
		return writeParamsText(w, model, cfg)
	}
}

// getDisplayNameForGroup returns the display name for a field group.
func getDisplayNameForGroup(group schema.FieldGroup, useEmojis bool) string {
	name := strings.ToUpper(string(group))
	if !useEmojis {
		return name
	}
	switch group {
	case schema.GroupBase:
		return "💪 " + name
	case schema.GroupBonus:
		return "➕ " + name
	case schema.GroupModifier:
		return "⚙️  " + name
	case schema.GroupCritical:
		return "🎯 " + name
	default:
		return name
	}
}

// writeParamsText displays the parameter schema in human-readable text format.
func writeParamsText(w io.Writer, model schema.ParamsRenderModel, cfg *contract.Config) error {
	title := model.Title
	if cfg.UseEmojis {
		title = "⚔️  " + title
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n\n", title, strings.Repeat("=", len(model.Title)+4), model.Description); err != nil {
		return err
	}

	for _, g := range model.Groups {
		if _, err := fmt.Fprintf(w, "%s: %s\n", getDisplayNameForGroup(g.Group, cfg.UseEmojis), g.Purpose); err != nil {
			return err
		}
		for _, f := range g.Fields {
			if _, err := fmt.Fprintf(w, "   %-30s %-20s default %s\n", f.Key, f.Label, schema.FormatValue(f.Default)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Formula"); err != nil {
		return err
	}
	for _, line := range model.Formula {
		if _, err := fmt.Fprintf(w, "   %s\n", line); err != nil {
			return err
		}
	}
	if len(model.Unused) > 0 {
		if _, err := fmt.Fprintf(w, "\nCarried but not used by the formula: %s\n", strings.Join(model.Unused, ", ")); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "\nChart series"); err != nil {
		return err
	}
	for _, s := range model.Series {
		line := "solid"
		if s.Dashed {
			line = "dashed"
		}
		if _, err := fmt.Fprintf(w, "   %-15s %-24s %s %s (%s axis)\n", s.Key, s.Label, s.Color, line, s.Axis); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVParams writes one CSV row per schema field.
func writeCSVParams(w io.Writer, model schema.ParamsRenderModel) error {
	return writeCSVWithHeader(w, []string{"group", "key", "label", "default"}, func(csvWriter *csv.Writer) error {
		for _, g := range model.Groups {
			for _, f := range g.Fields {
				row := []string{
					string(g.Group),
					f.Key,
					f.Label,
					strconv.FormatFloat(f.Default, 'f', -1, 64),
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
