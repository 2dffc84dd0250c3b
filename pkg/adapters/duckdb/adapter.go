// Package duckdb provides a DuckDB database adapter for LeapSync.
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcboeker/go-duckdb"

	"github.com/leapstack-labs/leapsync/pkg/adapter"
	"github.com/leapstack-labs/leapsync/pkg/core"
	"github.com/leapstack-labs/leapsync/pkg/dialect"
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
	dialect *dialect.Dialect
}

// New creates a new DuckDB adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d, _ := dialect.Get("duckdb")
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
		dialect:        d,
	}
}

// Dialect returns the SQL dialect for this adapter.
func (a *Adapter) Dialect() *dialect.Dialect {
	return a.dialect
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the DSN for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg core.ConnectionConfig) error {
	path := cfg.DSN
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// PrimaryKey returns the primary key column of a table, or "" when the
// table has no single-column primary key.
func (a *Adapter) PrimaryKey(ctx context.Context, table string) (string, error) {
	if a.DB == nil {
		return "", fmt.Errorf("database connection not established")
	}

	schema, tableName := adapter.ParseQualifiedName(table, a.dialect)

	query := `
		SELECT constraint_column_names
		FROM duckdb_constraints()
		WHERE constraint_type = 'PRIMARY KEY'
			AND schema_name = ?
			AND table_name = ?
	`

	// constraint_column_names is a LIST column; Composite handles the scan.
	var columns duckdb.Composite[[]string]
	row := a.DB.QueryRowContext(ctx, query, schema, tableName)
	if err := row.Scan(&columns); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to query primary key: %w", err)
	}

	names := columns.Get()
	if len(names) != 1 {
		return "", nil
	}
	return names[0], nil
}

// GetTableMetadata retrieves metadata for a specified table.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	return a.GetTableMetadataCommon(ctx, table, a.dialect)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
