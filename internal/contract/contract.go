// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"net/url"
	"time"

	"github.com/huangsam/dmgcalc/schema"
)

// StateSink is where the two builds are read from and written back to.
// It abstracts the browser address bar: a URL, an HTTP redirect or memory.
type StateSink interface {
	// ReadAll returns every key/value pair currently held by the sink.
	ReadAll() url.Values

	// WriteAll replaces the sink contents with values.
	WriteAll(values url.Values) error
}

// HistoryManager defines the interface for managing history stores.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording comparison runs.
type HistoryStore interface {
	// RecordRun stores a comparison with all of its sample points and returns the run ID.
	RecordRun(entry schema.HistoryEntry) (int64, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// GetPoints returns the sample points of a run in index order.
	GetPoints(runID int64) ([]schema.PointRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}

// OutputWriter renders results in the configured output format.
// This allows the core logic to be tested without touching stdout or files.
type OutputWriter interface {
	WriteSeries(result schema.SeriesResult, cfg *Config, duration time.Duration) error
	WriteDamage(result schema.DamageResult, cfg *Config, explain bool) error
	WriteParams(model schema.ParamsRenderModel, cfg *Config) error
}
