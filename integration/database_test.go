//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestHistoryWithMySQL records comparisons in a MySQL backend.
func TestHistoryWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "dmgcalc",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/dmgcalc?parseTime=true", host, port.Port())
	exerciseHistory(t, []string{
		"DMGCALC_HISTORY_BACKEND=mysql",
		"DMGCALC_HISTORY_DB_CONNECT=" + connStr,
	})
}

// TestHistoryWithPostgres records comparisons in a PostgreSQL backend.
func TestHistoryWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseHistory(t, []string{
		"DMGCALC_HISTORY_BACKEND=postgresql",
		"DMGCALC_HISTORY_DB_CONNECT=" + connStr,
	})
}

// exerciseHistory clears the store, records two comparisons and checks status.
func exerciseHistory(t *testing.T, env []string) {
	t.Helper()

	_, err := runCommand(t, env, "history", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, env, "compare")
	require.NoError(t, err)
	_, err = runCommand(t, env, "compare", "b1_baseStrength=0&b1_block=0&b1_fortitude=0")
	require.NoError(t, err)

	out, err := runCommand(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")
	assert.Contains(t, out, "Total Runs: 2")
	assert.Contains(t, out, "Total Points: 22")

	out, err = runCommand(t, env, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "mean n/a", "a sweep with no finite samples has no mean")

	_, err = runCommand(t, env, "history", "migrate", "--target-version", "0")
	require.NoError(t, err)
	_, err = runCommand(t, env, "history", "migrate")
	require.NoError(t, err)
}
