// Package planner resolves the extraction contract for one import run.
//
// Given connection and job configuration it determines the partition
// column, computes the column's value range with a boundary query,
// synthesizes the parameterized data SQL template, and publishes the
// results into the run context consumed by the partition and extract
// stages. It performs no extraction itself and holds no state between
// invocations.
package planner

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapsync/internal/runctx"
	"github.com/leapstack-labs/leapsync/pkg/adapter"
	"github.com/leapstack-labs/leapsync/pkg/core"
)

// Plan is the planner's output: everything the partition and extract
// stages need for one run.
type Plan struct {
	Conn core.ConnectionConfig

	PartitionColumn string
	PartitionKind   core.Kind
	MinValue        string
	MaxValue        string

	// DataSQL is the extraction template containing core.ConditionsToken
	// exactly where each partition's predicate is substituted.
	DataSQL    string
	FieldNames []string
}

// Publish writes the plan into the run context. Either every key is
// written or, on the first conflict, the error is returned; the planner
// only calls this once per run with a fresh context.
func (p *Plan) Publish(rc *runctx.Context) error {
	pairs := []struct{ key, value string }{
		{runctx.KeyDriver, p.Conn.Driver},
		{runctx.KeyDSN, p.Conn.DSN},
		{runctx.KeyPartitionColumn, p.PartitionColumn},
		{runctx.KeyPartitionKind, string(p.PartitionKind)},
		{runctx.KeyPartitionMin, p.MinValue},
		{runctx.KeyPartitionMax, p.MaxValue},
		{runctx.KeyDataSQL, p.DataSQL},
		{runctx.KeyFieldNames, strings.Join(p.FieldNames, ",")},
	}
	if p.Conn.Username != "" {
		pairs = append(pairs, struct{ key, value string }{runctx.KeyUsername, p.Conn.Username})
	}
	if p.Conn.Password != "" {
		pairs = append(pairs, struct{ key, value string }{runctx.KeyPassword, p.Conn.Password})
	}
	for _, kv := range pairs {
		if err := rc.Set(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

// Planner plans the extraction contract for import runs.
type Planner struct {
	logger *slog.Logger

	// newAdapter is the adapter factory; overridable in tests.
	newAdapter func(driver string, logger *slog.Logger) (adapter.Adapter, error)
}

// New creates a planner. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Planner{
		logger:     logger,
		newAdapter: adapter.New,
	}
}

// Plan runs one planning pass. It acquires a single adapter handle and
// releases it on every exit path. No query is executed before the
// connection and source configuration have been validated.
func (p *Planner) Plan(ctx context.Context, conn core.ConnectionConfig, job core.JobConfig) (*Plan, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}

	src, err := resolveSource(job)
	if err != nil {
		return nil, err
	}

	ad, err := p.newAdapter(conn.Driver, p.logger)
	if err != nil {
		return nil, err
	}
	if err := ad.Connect(ctx, conn); err != nil {
		return nil, wrapError(CodeQueryFailed, err, "failed to connect to source")
	}
	defer func() { _ = ad.Close() }()

	plan := &Plan{Conn: conn}

	plan.PartitionColumn, err = p.resolvePartitionColumn(ctx, ad, src, job.PartitionColumn)
	if err != nil {
		return nil, err
	}

	boundarySQL := src.boundaryQuery(job.BoundaryQuery, plan.PartitionColumn, ad.Dialect())
	p.logger.Debug("using boundary query", slog.String("sql", boundarySQL))

	plan.PartitionKind, plan.MinValue, plan.MaxValue, err = p.executeBoundary(ctx, ad, boundarySQL)
	if err != nil {
		return nil, err
	}
	p.logger.Info("resolved partition boundaries",
		slog.String("column", plan.PartitionColumn),
		slog.String("kind", string(plan.PartitionKind)),
		slog.String("min", plan.MinValue),
		slog.String("max", plan.MaxValue))

	plan.DataSQL, plan.FieldNames, err = p.resolveDataSQL(ctx, ad, src, job.Columns)
	if err != nil {
		return nil, err
	}
	p.logger.Info("resolved data SQL",
		slog.String("sql", plan.DataSQL),
		slog.String("fields", strings.Join(plan.FieldNames, ",")))

	return plan, nil
}

// Initialize plans one run and publishes the result into rc. The context
// is only written after every resolution step has succeeded, so a failed
// pass publishes nothing.
func (p *Planner) Initialize(ctx context.Context, rc *runctx.Context, conn core.ConnectionConfig, job core.JobConfig) error {
	plan, err := p.Plan(ctx, conn, job)
	if err != nil {
		return err
	}
	return plan.Publish(rc)
}

func validateConnection(conn core.ConnectionConfig) error {
	if conn.Driver == "" {
		return newError(CodeMissingConnectionParam, "driver is required")
	}
	if conn.DSN == "" {
		return newError(CodeMissingConnectionParam, "connection DSN is required")
	}
	return nil
}

// resolvePartitionColumn returns the explicitly configured column, or
// infers the primary key of the named table. A free-form query with no
// explicit column is unresolvable, as is a table without a usable
// primary key.
func (p *Planner) resolvePartitionColumn(ctx context.Context, ad adapter.Adapter, src *source, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if src.kind == sourceTable {
		column, err := ad.PrimaryKey(ctx, src.table)
		if err != nil {
			return "", wrapError(CodeQueryFailed, err, "primary key lookup failed for table %s", src.table)
		}
		if column != "" {
			return column, nil
		}
		p.logger.Debug("no usable primary key", slog.String("table", src.table))
	}

	return "", newError(CodeUnresolvedPartitionColumn,
		"no partition column specified and none could be inferred")
}

// executeBoundary runs the boundary query and reads the partition
// column's type code and min/max values from its single row.
func (p *Planner) executeBoundary(ctx context.Context, ad adapter.Adapter, boundarySQL string) (core.Kind, string, string, error) {
	rows, err := ad.Query(ctx, boundarySQL)
	if err != nil {
		return "", "", "", wrapError(CodeQueryFailed, err, "boundary query failed")
	}
	defer func() { _ = rows.Close() }()

	types, err := rows.ColumnTypes()
	if err != nil {
		return "", "", "", wrapError(CodeQueryFailed, err, "boundary query metadata unavailable")
	}
	if len(types) != 2 {
		return "", "", "", newError(CodeMalformedBoundary,
			"boundary query must return exactly two columns, got %d", len(types))
	}
	kind := core.KindOf(types[0].DatabaseTypeName())

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", "", "", wrapError(CodeQueryFailed, err, "boundary query failed")
		}
		return "", "", "", newError(CodeMalformedBoundary, "boundary query returned no rows")
	}
	var minVal, maxVal sql.NullString
	if err := rows.Scan(&minVal, &maxVal); err != nil {
		return "", "", "", wrapError(CodeQueryFailed, err, "failed to read boundary row")
	}

	return kind, minVal.String, maxVal.String, nil
}

// resolveDataSQL synthesizes the extraction template and resolves field
// names, introspecting with an always-false predicate when no explicit
// column list is configured.
func (p *Planner) resolveDataSQL(ctx context.Context, ad adapter.Adapter, src *source, columns string) (string, []string, error) {
	dataSQL, fields := src.dataSQL(columns, ad.Dialect())
	if fields != nil {
		return dataSQL, fields, nil
	}

	probeSQL := strings.ReplaceAll(dataSQL, core.ConditionsToken, alwaysFalse)
	rows, err := ad.Query(ctx, probeSQL)
	if err != nil {
		return "", nil, wrapError(CodeQueryFailed, err, "field discovery query failed")
	}
	defer func() { _ = rows.Close() }()

	fields, err = rows.Columns()
	if err != nil {
		return "", nil, wrapError(CodeQueryFailed, err, "field discovery metadata unavailable")
	}
	return dataSQL, fields, nil
}
