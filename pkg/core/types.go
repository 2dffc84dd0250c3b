// Package core defines the shared domain types for LeapSync.
// It is imported by both the public adapter packages and the internal
// planning and extraction stages, and carries no dependencies beyond
// database/sql.
package core

import (
	"database/sql"
)

// ConditionsToken is the placeholder in a data SQL template that each
// extraction worker replaces with its partition's row-filtering predicate.
// Free-form job SQL must contain it; for named tables the planner appends
// the surrounding WHERE clause itself. Downstream components depend on the
// literal value, so it is part of the public contract.
const ConditionsToken = "${CONDITIONS}"

// SubqueryAlias is the fixed alias under which free-form job SQL is wrapped
// when the planner needs to qualify columns against it.
const SubqueryAlias = "sub"

// ConnectionConfig holds the parameters for connecting to the source
// database. Driver and DSN are required; credentials are optional and,
// when set, take precedence over credentials embedded in the DSN.
type ConnectionConfig struct {
	// Driver is the registered adapter name (e.g. "postgres", "duckdb").
	Driver string
	// DSN is the driver-specific connection string.
	DSN string

	Username string
	Password string
}

// JobConfig describes the row set to import. Exactly one of TableName and
// SQL must be set.
type JobConfig struct {
	// TableName names the source table (table mode).
	TableName string
	// SQL is a free-form query containing ConditionsToken (query mode).
	SQL string

	// Columns is an optional comma-separated list of columns to extract.
	Columns string
	// PartitionColumn overrides partition column inference.
	PartitionColumn string
	// BoundaryQuery overrides the synthesized MIN/MAX query. It must
	// return exactly one row with exactly two columns.
	BoundaryQuery string
}

// Column represents a column in a database table.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
	Position   int
}

// TableMetadata holds metadata about a database table.
type TableMetadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}
