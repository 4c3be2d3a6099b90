//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/dashline/internal/iocache"
	"github.com/huangsam/dashline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "dashline",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/dashline?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

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
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

// TestDashlineWithMySQL runs the snapshot commands against a MySQL backend.
func TestDashlineWithMySQL(t *testing.T) {
	connStr := startMySQL(t)
	t.Run("store", func(t *testing.T) { verifyStore(t, schema.MySQLBackend, connStr) })
	t.Run("cli", func(t *testing.T) { verifyCLI(t, schema.MySQLBackend, connStr) })
}

// TestDashlineWithPostgres runs the snapshot commands against a PostgreSQL backend.
func TestDashlineWithPostgres(t *testing.T) {
	connStr := startPostgres(t)
	t.Run("store", func(t *testing.T) { verifyStore(t, schema.PostgreSQLBackend, connStr) })
	t.Run("cli", func(t *testing.T) { verifyCLI(t, schema.PostgreSQLBackend, connStr) })
}

// verifyStore exercises migrations and the store API directly.
func verifyStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	require.NoError(t, iocache.MigrateSnapshots(backend, connStr, -1))
	// Running again is a no-op
	require.NoError(t, iocache.MigrateSnapshots(backend, connStr, -1))

	store, err := iocache.NewSnapshotStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	first, err := store.Save("prod", []byte(`{"title":"a"}`), 1700000000)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	second, err := store.Save("prod", []byte(`{"title":"b"}`), 1700000060)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	_, err = store.Save("staging", []byte(`{"title":"c"}`), 1700000120)
	require.NoError(t, err)

	latest, err := store.Get("prod")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, `{"title":"b"}`, string(latest.Payload))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "prod", records[0].Name)
	assert.Equal(t, "staging", records[1].Name)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 3, status.TotalEntries)
	assert.Equal(t, 2, status.TotalNames)

	require.NoError(t, store.Close())
	// Roll back to the initial state for the CLI run
	require.NoError(t, iocache.MigrateSnapshots(backend, connStr, 0))
}

// verifyCLI runs the snapshot workflow through the binary.
func verifyCLI(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	path := writeFixture(t)
	env := map[string]string{
		"DASHLINE_STORE_BACKEND":    string(backend),
		"DASHLINE_STORE_DB_CONNECT": connStr,
	}

	_, err := runDashline(t, env, "snapshot", "migrate")
	require.NoError(t, err)

	_, err = runDashline(t, env, "snapshot", "save", path, "--snapshot", "checkout")
	require.NoError(t, err)

	out, err := runDashline(t, env, "buckets", "--snapshot", "checkout", "--chart", "Requests", "--buckets", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "GET")

	out, err = runDashline(t, env, "snapshot", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")
	assert.Contains(t, out, "Total Snapshots: 1")

	_, err = runDashline(t, env, "snapshot", "migrate", "--target-version", "1")
	require.NoError(t, err)

	out, err = runDashline(t, env, "snapshot", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshots cleared successfully.")

	require.NoError(t, iocache.ClearStore(backend, "", connStr))
}
