package core

import "strings"

// Kind is the normalized type code of a partition column. It is published
// to the run context by the planner and selects the splitting strategy in
// the partitioner.
type Kind string

const (
	KindInteger   Kind = "integer"
	KindFloat     Kind = "float"
	KindDecimal   Kind = "decimal"
	KindDate      Kind = "date"
	KindTime      Kind = "time"
	KindTimestamp Kind = "timestamp"
	KindText      Kind = "text"
	KindUnknown   Kind = "unknown"
)

// KindOf normalizes a driver-reported database type name into a Kind.
// database/sql exposes dialect-specific names (INT4, BIGINT, VARCHAR, ...);
// the mapping below covers the names emitted by the bundled adapters.
func KindOf(databaseTypeName string) Kind {
	name := strings.ToUpper(strings.TrimSpace(databaseTypeName))

	// Strip length/precision suffixes such as VARCHAR(255) or DECIMAL(10,2).
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}

	switch name {
	case "INT", "INT2", "INT4", "INT8", "INTEGER", "SMALLINT", "BIGINT",
		"TINYINT", "HUGEINT", "SERIAL", "BIGSERIAL", "UINTEGER", "UBIGINT",
		"USMALLINT", "UTINYINT":
		return KindInteger
	case "FLOAT", "FLOAT4", "FLOAT8", "REAL", "DOUBLE", "DOUBLE PRECISION":
		return KindFloat
	case "NUMERIC", "DECIMAL":
		return KindDecimal
	case "DATE":
		return KindDate
	case "TIME", "TIMETZ":
		return KindTime
	case "TIMESTAMP", "TIMESTAMPTZ", "DATETIME":
		return KindTimestamp
	case "TEXT", "VARCHAR", "CHAR", "BPCHAR", "NAME", "STRING", "CLOB":
		return KindText
	}
	return KindUnknown
}
