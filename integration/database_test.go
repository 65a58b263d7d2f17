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

// TestWorkloadWithMySQL tests the workload CLI with a MySQL export backend.
func TestWorkloadWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "workload",
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/workload?parseTime=true", host, port.Port())
	runExportScenario(t, []string{
		"WORKLOAD_EXPORT_BACKEND=mysql",
		"WORKLOAD_EXPORT_DB_CONNECT=" + connStr,
	})
}

// TestWorkloadWithPostgres tests the workload CLI with a PostgreSQL export backend.
func TestWorkloadWithPostgres(t *testing.T) {
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
	runExportScenario(t, []string{
		"WORKLOAD_EXPORT_BACKEND=postgresql",
		"WORKLOAD_EXPORT_DB_CONNECT=" + connStr,
	})
}

// runExportScenario migrates, exports twice and checks the recorded runs.
func runExportScenario(t *testing.T, env []string) {
	path := writeIssues(t)

	_, err := runWorkload(t, env, "migrate")
	require.NoError(t, err)

	for range 2 {
		_, err = runWorkload(t, env, "export", path)
		require.NoError(t, err)
	}

	out, err := runWorkload(t, env, "export", "runs", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "issues.csv")

	out, err = runWorkload(t, env, "export", "status", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_runs": 2`)
}
