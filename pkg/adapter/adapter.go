// Package adapter provides the database adapter contract for LeapSync.
//
// An adapter is the planner's window onto the source database: it executes
// queries, looks up table metadata and primary keys, and exposes the SQL
// dialect used to delimit identifiers. Concrete implementations live in
// pkg/adapters/ subdirectories and register themselves in init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapsync/pkg/core"
	"github.com/leapstack-labs/leapsync/pkg/dialect"
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg core.ConnectionConfig) error

	// Close closes the database connection and releases resources.
	// It is idempotent.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows. Column metadata
	// is available on the returned rows.
	Query(ctx context.Context, sql string) (*core.Rows, error)

	// PrimaryKey returns the primary key column of a table, or "" when
	// the table has no single-column primary key.
	PrimaryKey(ctx context.Context, table string) (string, error)

	// GetTableMetadata retrieves column metadata for a table.
	GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error)

	// Dialect returns the SQL dialect configuration for this adapter.
	Dialect() *dialect.Dialect
}
