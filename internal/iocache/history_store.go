package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for history tracking.
const (
	runsTable   = "dmgcalc_runs"
	pointsTable = "dmgcalc_points"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The schema is brought up to date with the embedded migrations.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// openDB opens a connection pool for backend without touching the schema.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		mysqlCfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		// Run times are scanned into time.Time and migrations hold several statements
		mysqlCfg.ParseTime = true
		mysqlCfg.MultiStatements = true
		db, err := sql.Open("mysql", mysqlCfg.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// RecordRun stores a comparison with all of its sample points in one transaction.
func (hs *HistoryStoreImpl) RecordRun(entry schema.HistoryEntry) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result := entry.Result
	summary := result.Summary
	var minDiff, maxDiff, meanDiff *float64
	if summary.FiniteSamples > 0 {
		minDiff, maxDiff, meanDiff = &summary.MinPercentDiff, &summary.MaxPercentDiff, &summary.MeanPercentDiff
	}

	runArgs := []any{
		formatTime(entry.RunTime, hs.backend),
		result.Query,
		entry.Source,
		result.Build1.BaseStrength,
		result.Build2.BaseStrength,
		minDiff,
		maxDiff,
		meanDiff,
		summary.UndefinedPoints,
	}
	insertRun := fmt.Sprintf(`INSERT INTO %s (run_time, query, source, base_strength1, base_strength2,
		min_percent_diff, max_percent_diff, mean_percent_diff, undefined_points)
		VALUES (%s)`, quoteTableName(runsTable, hs.backend), placeholders(hs.backend, len(runArgs)))

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		err = tx.QueryRow(insertRun+" RETURNING run_id", runArgs...).Scan(&runID)
	default: // SQLite and MySQL
		var res sql.Result
		res, err = tx.Exec(insertRun, runArgs...)
		if err == nil {
			runID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	insertPoint := fmt.Sprintf(`INSERT INTO %s (run_id, point_index, strength1, strength2,
		damage1_normal, damage1_crit, damage2_normal, damage2_crit, percent_diff, percent_text)
		VALUES (%s)`, quoteTableName(pointsTable, hs.backend), placeholders(hs.backend, 10))
	stmt, err := tx.Prepare(insertPoint)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, p := range result.Points {
		rec := toPointRecord(runID, int32(i), p)
		if _, err := stmt.Exec(
			rec.RunID, rec.PointIndex, rec.Strength1, rec.Strength2,
			rec.Damage1Normal, rec.Damage1Crit, rec.Damage2Normal, rec.Damage2Crit,
			rec.PercentDiff, rec.PercentText,
		); err != nil {
			return 0, fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// toPointRecord splits a non-finite percent difference into its text sentinel.
func toPointRecord(runID int64, index int32, p schema.SamplePoint) schema.PointRecord {
	rec := schema.PointRecord{
		RunID:         runID,
		PointIndex:    index,
		Strength1:     p.Strength1,
		Strength2:     p.Strength2,
		Damage1Normal: p.Damage1Normal,
		Damage1Crit:   p.Damage1Crit,
		Damage2Normal: p.Damage2Normal,
		Damage2Crit:   p.Damage2Crit,
	}
	if text := schema.FormatNonFinite(p.PercentDiff); text != "" {
		rec.PercentText = &text
	} else {
		v := p.PercentDiff
		rec.PercentDiff = &v
	}
	return rec
}

// ListRuns returns the most recent runs, newest first. A limit of 0 or less returns every run.
func (hs *HistoryStoreImpl) ListRuns(limit int) ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_time, query, source, base_strength1, base_strength2,
		min_percent_diff, max_percent_diff, mean_percent_diff, undefined_points
		FROM %s ORDER BY run_id DESC`, quoteTableName(runsTable, hs.backend))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var runTime any
		if err := rows.Scan(&record.RunID, &runTime, &record.Query, &record.Source,
			&record.BaseStrength1, &record.BaseStrength2,
			&record.MinPercentDiff, &record.MaxPercentDiff, &record.MeanPercentDiff,
			&record.UndefinedPoints); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if record.RunTime, err = parseTime(runTime); err != nil {
			return nil, fmt.Errorf("failed to parse run_time: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetPoints returns the sample points of a run in index order.
func (hs *HistoryStoreImpl) GetPoints(runID int64) ([]schema.PointRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, point_index, strength1, strength2,
		damage1_normal, damage1_crit, damage2_normal, damage2_crit, percent_diff, percent_text
		FROM %s WHERE run_id = %s ORDER BY point_index`,
		quoteTableName(pointsTable, hs.backend), placeholders(hs.backend, 1))

	rows, err := hs.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PointRecord
	for rows.Next() {
		var record schema.PointRecord
		if err := rows.Scan(&record.RunID, &record.PointIndex, &record.Strength1, &record.Strength2,
			&record.Damage1Normal, &record.Damage1Crit, &record.Damage2Normal, &record.Damage2Crit,
			&record.PercentDiff, &record.PercentText); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	for _, table := range []string{runsTable, pointsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRuns = int(status.TableSizes[runsTable])
	status.TotalPoints = int(status.TableSizes[pointsTable])

	if status.TotalRuns == 0 {
		return status, nil
	}

	var lastRunTime, oldestRunTime any
	lastRunQuery := fmt.Sprintf("SELECT run_id, run_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, hs.backend))
	if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTime); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	oldestRunQuery := fmt.Sprintf("SELECT run_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, hs.backend))
	if err := hs.db.QueryRow(oldestRunQuery).Scan(&oldestRunTime); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}

	var err error
	if status.LastRunTime, err = parseTime(lastRunTime); err != nil {
		return status, fmt.Errorf("failed to parse last run time: %w", err)
	}
	if status.OldestRunTime, err = parseTime(oldestRunTime); err != nil {
		return status, fmt.Errorf("failed to parse oldest run time: %w", err)
	}
	return status, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// parseTime accepts the native time of MySQL/PostgreSQL or the RFC 3339 text stored by SQLite.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value of type %T", v)
	}
}
