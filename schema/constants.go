package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for history tracking.
	DatabaseBackend string

	// BuildID identifies one of the two compared builds.
	BuildID string

	// FieldGroup represents the semantic group of a parameter field.
	FieldGroup string

	// DiffLabel classifies the percent difference at a sample point.
	DiffLabel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default when enabled
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Both builds. The prefix doubles as the query key prefix.
const (
	Build1 BuildID = "b1"
	Build2 BuildID = "b2"
)

// Parameter field groups.
const (
	GroupBase     FieldGroup = "base"
	GroupBonus    FieldGroup = "bonus"
	GroupModifier FieldGroup = "modifier"
	GroupCritical FieldGroup = "critical"
)

// Percent difference labels.
const (
	StrongerLabel  DiffLabel = "Stronger"
	EvenLabel      DiffLabel = "Even"
	WeakerLabel    DiffLabel = "Weaker"
	UndefinedLabel DiffLabel = "Undefined"
)

// SampleCount is the number of points in a strength sweep.
const SampleCount = 11

// AllBuilds lists the builds in query order.
var AllBuilds = []BuildID{Build1, Build2}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidBuilds lists all valid build identifiers.
var ValidBuilds = map[BuildID]struct{}{
	Build1: {},
	Build2: {},
}

// Title returns the display title of the build.
func (b BuildID) Title() string {
	switch b {
	case Build1:
		return "Build 1"
	case Build2:
		return "Build 2"
	default:
		return string(b)
	}
}
