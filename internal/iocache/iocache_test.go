package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SnapshotStoreImpl, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := NewSnapshotStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*SnapshotStoreImpl)
	require.True(t, ok)
	return impl, dbPath
}

func TestSnapshotStore_SaveAndGet(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.Save("prod", []byte(`{"charts":[]}`), 1700000000)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Len(t, first.ID, 36)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), first.Timestamp)

	second, err := store.Save("prod", []byte(`{"charts":[{"name":"cpu"}]}`), 1700000100)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err := store.Get("prod")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 2, latest.Version)
	assert.JSONEq(t, `{"charts":[{"name":"cpu"}]}`, string(latest.Payload))
}

func TestSnapshotStore_GetNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, contract.ErrSnapshotNotFound)
}

func TestSnapshotStore_SaveEmptyName(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save("", []byte("{}"), 1)
	assert.Error(t, err)
}

func TestSnapshotStore_List(t *testing.T) {
	store, _ := newTestStore(t)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	for _, name := range []string{"staging", "prod", "staging"} {
		_, err := store.Save(name, []byte("{}"), 1700000000)
		require.NoError(t, err)
	}

	records, err = store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "prod", records[0].Name)
	assert.Equal(t, 1, records[0].Version)
	assert.Equal(t, "staging", records[1].Name)
	assert.Equal(t, 2, records[1].Version)
}

func TestSnapshotStore_GetStatus(t *testing.T) {
	store, _ := newTestStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalEntries)

	_, err = store.Save("a", []byte("{}"), 100)
	require.NoError(t, err)
	_, err = store.Save("a", []byte("{}"), 300)
	require.NoError(t, err)
	_, err = store.Save("b", []byte("{}"), 200)
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalEntries)
	assert.Equal(t, 2, status.TotalNames)
	assert.Equal(t, time.Unix(300, 0).UTC(), status.LastEntryTime)
	assert.Equal(t, time.Unix(100, 0).UTC(), status.OldestEntryTime)
	assert.Positive(t, status.TableSizeBytes)
}

func TestSnapshotStore_NoneBackend(t *testing.T) {
	store, err := NewSnapshotStore(schema.NoneBackend, "")
	require.NoError(t, err)

	_, err = store.Save("prod", []byte("{}"), 1)
	assert.Error(t, err)

	_, err = store.Get("prod")
	assert.ErrorIs(t, err, contract.ErrSnapshotNotFound)

	records, err := store.List()
	assert.NoError(t, err)
	assert.Empty(t, records)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)

	assert.NoError(t, store.Close())
}

func TestNewSnapshotStoreErrors(t *testing.T) {
	_, err := NewSnapshotStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`dashline_snapshots`", quoteTableName(snapshotTable, schema.MySQLBackend))
	assert.Equal(t, `"dashline_snapshots"`, quoteTableName(snapshotTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"dashline_snapshots"`, quoteTableName(snapshotTable, schema.SQLiteBackend))
}

func TestRebind(t *testing.T) {
	query := "SELECT 1 FROM t WHERE a = ? AND b = ?"

	pg := &SnapshotStoreImpl{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT 1 FROM t WHERE a = $1 AND b = $2", pg.rebind(query))

	my := &SnapshotStoreImpl{backend: schema.MySQLBackend}
	assert.Equal(t, query, my.rebind(query))
}

func TestGetCreateTableQuery(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains string
	}{
		{schema.SQLiteBackend, "payload BLOB"},
		{schema.MySQLBackend, "payload LONGBLOB"},
		{schema.PostgreSQLBackend, "payload BYTEA"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			query := getCreateTableQuery(tt.backend)
			assert.Contains(t, query, "CREATE TABLE IF NOT EXISTS")
			assert.Contains(t, query, tt.contains)
		})
	}
}

func TestStoreLifecycle(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "global.db")
		Manager = &SnapshotStoreManager{}
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NotNil(t, Manager.GetSnapshotStore())

		// Multiple initializations should be safe (sync.Once)
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))

		CloseStores()
		CloseStores()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "database file should be created")
	})

	t.Run("none backend", func(t *testing.T) {
		Manager = &SnapshotStoreManager{}
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		require.NoError(t, InitStores(schema.NoneBackend, ""))
		assert.Nil(t, Manager.GetSnapshotStore())
		CloseStores()
	})

	t.Run("init error", func(t *testing.T) {
		Manager = &SnapshotStoreManager{}
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores(schema.DatabaseBackend("oracle"), "")
		assert.Error(t, err)
		assert.Nil(t, Manager.GetSnapshotStore())
	})
}

func TestClearStore(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "clear.db")
		store, err := NewSnapshotStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		assert.NoError(t, ClearStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearStore(schema.DatabaseBackend("oracle"), "", ""))
	})
}

func TestMigrateSnapshots_NoneBackend(t *testing.T) {
	err := MigrateSnapshots(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateSnapshots_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, -1))

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// Already at latest
	assert.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, -1))
	assert.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, 1))

	// The migrated table is usable by the store
	store, err := NewSnapshotStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	record, err := store.Save("after-migrate", []byte("{}"), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Version)
}

func TestMigrateSnapshots_SQLiteInMemory(t *testing.T) {
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, ":memory:", -1))
}
