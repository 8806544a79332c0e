// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/schema"
	"golang.org/x/term"
)

// compactWidth is the terminal width below which the crit columns are dropped.
const compactWidth = 100

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSeries prints a strength sweep using the configured output format.
func (ow *OutWriter) WriteSeries(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSeriesResults(result, cfg, duration)
}

// WriteDamage prints a single damage evaluation using the configured output format.
func (ow *OutWriter) WriteDamage(result schema.DamageResult, cfg *contract.Config, explain bool) error {
	return PrintDamageResult(result, cfg, explain)
}

// WriteParams prints the parameter schema using the configured output format.
func (ow *OutWriter) WriteParams(model schema.ParamsRenderModel, cfg *contract.Config) error {
	return PrintParamsDefinitions(model, cfg)
}

// GetTableWidth returns the width available for table output: the override
// from flag/env when set, otherwise the detected terminal width.
func GetTableWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80
	}
	return detectedWidth
}

// isCompact reports whether the series table should hide the crit columns.
func isCompact(cfg *contract.Config) bool {
	return GetTableWidth(cfg) < compactWidth
}
