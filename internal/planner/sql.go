package planner

import (
	"strings"

	"github.com/leapstack-labs/leapsync/pkg/core"
	"github.com/leapstack-labs/leapsync/pkg/dialect"
)

// Predicates substituted for core.ConditionsToken during planning.
// alwaysTrue makes the boundary query scan the full candidate set;
// alwaysFalse yields zero rows but valid result metadata for field-name
// discovery.
const (
	alwaysTrue  = "1 = 1"
	alwaysFalse = "1 = 0"
)

type sourceKind int

const (
	sourceTable sourceKind = iota
	sourceQuery
)

// source is the resolved table-vs-query variant of a job. Resolving it
// once up front centralizes the exclusivity and token checks for every
// later use site.
type source struct {
	kind  sourceKind
	table string
	query string
}

// resolveSource validates that exactly one of table name and free-form SQL
// is configured, and that free-form SQL carries the conditions token.
func resolveSource(job core.JobConfig) (*source, error) {
	switch {
	case job.TableName != "" && job.SQL != "":
		return nil, newError(CodeAmbiguousSource,
			"table name and free-form SQL are mutually exclusive")
	case job.TableName != "":
		return &source{kind: sourceTable, table: job.TableName}, nil
	case job.SQL != "":
		if !strings.Contains(job.SQL, core.ConditionsToken) {
			return nil, newError(CodeMissingConditionsToken,
				"free-form SQL must contain the %s token", core.ConditionsToken)
		}
		return &source{kind: sourceQuery, query: job.SQL}, nil
	default:
		return nil, newError(CodeUnspecifiedSource,
			"either a table name or free-form SQL must be specified")
	}
}

// boundaryQuery returns the MIN/MAX query for the partition column.
// An explicit override is used verbatim; otherwise the query is
// synthesized from the source variant.
func (s *source) boundaryQuery(override, column string, d *dialect.Dialect) string {
	if override != "" {
		return override
	}

	var b strings.Builder
	if s.kind == sourceTable {
		b.WriteString("SELECT MIN(")
		b.WriteString(column)
		b.WriteString("), MAX(")
		b.WriteString(column)
		b.WriteString(") FROM ")
		b.WriteString(d.QuoteIdentifier(s.table))
		return b.String()
	}

	qualified := d.Qualify(column, core.SubqueryAlias)
	b.WriteString("SELECT MIN(")
	b.WriteString(qualified)
	b.WriteString("), MAX(")
	b.WriteString(qualified)
	b.WriteString(") FROM (")
	b.WriteString(strings.ReplaceAll(s.query, core.ConditionsToken, alwaysTrue))
	b.WriteString(") ")
	b.WriteString(core.SubqueryAlias)
	return b.String()
}

// dataSQL returns the parameterized extraction template and, when an
// explicit column list is configured, the field names. With no explicit
// columns the returned field list is nil and the caller discovers field
// names by introspection.
func (s *source) dataSQL(columns string, d *dialect.Dialect) (string, []string) {
	explicit := splitColumns(columns)

	if s.kind == sourceTable {
		var b strings.Builder
		b.WriteString("SELECT ")
		if explicit == nil {
			b.WriteString("*")
		} else {
			b.WriteString(strings.Join(explicit, ", "))
		}
		b.WriteString(" FROM ")
		b.WriteString(d.QuoteIdentifier(s.table))
		b.WriteString(" WHERE ")
		b.WriteString(core.ConditionsToken)
		return b.String(), explicit
	}

	if explicit == nil {
		// The query already carries the conditions token.
		return s.query, nil
	}

	// The token stays inside the wrapped query; the outer SELECT only
	// projects the requested columns under the subquery alias.
	qualified := make([]string, len(explicit))
	for i, col := range explicit {
		qualified[i] = d.Qualify(col, core.SubqueryAlias)
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(qualified, ", "))
	b.WriteString(" FROM (")
	b.WriteString(s.query)
	b.WriteString(") ")
	b.WriteString(core.SubqueryAlias)
	return b.String(), explicit
}

// splitColumns splits a comma-separated column list, trimming whitespace.
// Returns nil for an empty list.
func splitColumns(columns string) []string {
	if strings.TrimSpace(columns) == "" {
		return nil
	}
	parts := strings.Split(columns, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
