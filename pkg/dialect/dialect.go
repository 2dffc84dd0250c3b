// Package dialect provides SQL dialect configuration for LeapSync.
//
// A dialect knows how to delimit identifiers, qualify columns under an
// alias, and format query placeholders for one database family. Concrete
// dialects are registered in builtin.go and looked up by adapter name.
package dialect

import (
	"strconv"
	"strings"
)

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase.
	NormUppercase
	// NormCaseInsensitive normalizes to lowercase for comparison.
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. (PostgreSQL).
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted.
type IdentifierConfig struct {
	Quote         string // Quote character: ", `, [
	QuoteEnd      string // End quote character (usually same as Quote)
	Escape        string // Escape sequence for an embedded quote character
	Normalization NormalizationStrategy
}

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name          string
	Identifiers   IdentifierConfig
	DefaultSchema string
	Placeholder   PlaceholderStyle
}

// QuoteIdentifier returns name delimited with the dialect's quote
// characters, escaping any embedded quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	quoted := name
	if d.Identifiers.Escape != "" {
		quoted = strings.ReplaceAll(quoted, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	}
	return d.Identifiers.Quote + quoted + d.Identifiers.QuoteEnd
}

// Qualify returns the column reference qualified under alias
// (e.g. "sub.id"). Neither part is quoted; callers quote first when the
// names need delimiting.
func (d *Dialect) Qualify(column, alias string) string {
	return alias + "." + column
}

// FormatPlaceholder returns the parameter placeholder for 1-based
// position n in this dialect.
func (d *Dialect) FormatPlaceholder(n int) string {
	if d.Placeholder == PlaceholderDollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
