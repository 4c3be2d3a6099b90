package cmd

import (
	"fmt"

	"github.com/huangsam/dashline/core"
	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/internal/iocache"
	"github.com/huangsam/dashline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig reads and validates the snapshot store settings without the full shared setup.
func storeConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// snapshotSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without a dashboard.
func snapshotSetup() error {
	backend, connStr, err := storeConfig()
	if err != nil {
		return err
	}
	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for snapshot commands.
func snapshotSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotSetup()
}

// snapshotMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores or create tables, so migrations can run on a fresh database.
func snapshotMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeConfig()
	if err != nil {
		return err
	}
	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDBFilePath()
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// snapshotCmd focused on snapshot management.
//
// Note: status, clear and migrate use minimal initialization (snapshotSetup) instead of
// the full sharedSetup, since they never read a dashboard.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store and manage versioned dashboard snapshots",
	Long: `Keep named, versioned copies of dashboard files in a SQL database.

Every save of a name adds a new version. Other commands load the latest
version of a name with --snapshot instead of reading a file.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  save    - Store a dashboard file as a new snapshot version
  list    - Show the latest version of every snapshot
  status  - Show store statistics and connection info
  clear   - Remove all snapshots
  migrate - Run database schema migrations

Examples:
  # Save and reuse a dashboard
  dashline snapshot save dashboard.json --snapshot prod
  dashline series --snapshot prod`,
}

// snapshotSaveCmd stores a dashboard file.
var snapshotSaveCmd = &cobra.Command{
	Use:   "save <dashboard-file>",
	Short: "Store a dashboard file as a new snapshot version",
	Long: `Validate a dashboard file and store it under a name. The name defaults to
the file name without its extension.

Examples:
  # Saved as "dashboard"
  dashline snapshot save dashboard.json

  # Saved as "prod" in PostgreSQL
  DASHLINE_STORE_BACKEND=postgresql DASHLINE_STORE_DB_CONNECT="host=... dbname=..." dashline snapshot save dashboard.json --snapshot prod`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshotSave(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to save snapshot", err)
		}
	},
}

// snapshotListCmd lists stored snapshots.
var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the latest version of every snapshot",
	Long: `List every stored snapshot name with its latest version, id, save time and size.

Examples:
  dashline snapshot list
  dashline snapshot list --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshotList(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to list snapshots", err)
		}
	},
}

// snapshotStatusCmd shows store status.
var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the snapshot store.

Displays:
- Backend type and connection status
- Total number of stored versions and distinct names
- Last and oldest save timestamps
- Table size

Examples:
  dashline snapshot status`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSnapshotStore()
		if store == nil {
			iocache.PrintStoreStatus(schema.StoreStatus{Backend: string(schema.NoneBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(status)
	},
}

// snapshotClearCmd clears the store.
var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored snapshots",
	Long: `Delete every stored snapshot from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot table

WARNING: This action cannot be undone.

Examples:
  dashline snapshot clear`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The SQLite file cannot be removed while the store holds it open.
		iocache.CloseStores()
		dbFilePath := contract.GetDBFilePath()
		if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect != "" {
			dbFilePath = cfg.StoreDBConnect
		}
		if err := iocache.ClearStore(cfg.StoreBackend, dbFilePath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshots", err)
		}
		fmt.Println("Snapshots cleared successfully.")
	},
}

// snapshotMigrateCmd runs schema migrations.
var snapshotMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations for the snapshot store",
	Long: `Apply or roll back schema migrations of the snapshot store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  dashline snapshot migrate

  # Migrate to specific version
  dashline snapshot migrate --target-version 1

  # Rollback to initial state
  dashline snapshot migrate --target-version 0`,
	PreRunE: snapshotMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateSnapshots(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
