package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	d := ANSI()

	assert.Equal(t, `"orders"`, d.QuoteIdentifier("orders"))
	assert.Equal(t, `"order""s"`, d.QuoteIdentifier(`order"s`))
	assert.Equal(t, `""`, d.QuoteIdentifier(""))
}

func TestQualify(t *testing.T) {
	d := ANSI()
	assert.Equal(t, "sub.id", d.Qualify("id", "sub"))
}

func TestFormatPlaceholder(t *testing.T) {
	assert.Equal(t, "?", ANSI().FormatPlaceholder(1))
	assert.Equal(t, "?", ANSI().FormatPlaceholder(3))
	assert.Equal(t, "$1", Postgres().FormatPlaceholder(1))
	assert.Equal(t, "$2", Postgres().FormatPlaceholder(2))
}

func TestBuiltinRegistrations(t *testing.T) {
	for _, name := range []string{"ansi", "postgres", "duckdb", "sqlite"} {
		d, ok := Get(name)
		require.True(t, ok, "dialect %s should be registered", name)
		assert.Equal(t, name, d.Name)
	}

	_, ok := Get("oracle")
	assert.False(t, ok)
}

func TestListIsSorted(t *testing.T) {
	names := List()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestDefaultSchemas(t *testing.T) {
	assert.Equal(t, "public", Postgres().DefaultSchema)
	assert.Equal(t, "main", DuckDB().DefaultSchema)
	assert.Equal(t, "main", SQLite().DefaultSchema)
	assert.Empty(t, ANSI().DefaultSchema)
}
