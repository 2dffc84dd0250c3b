package dialect

// Built-in dialects for the bundled adapters. All of them use ANSI
// double-quote delimiting; they differ in default schema and placeholder
// style.

func init() {
	Register(ANSI())
	Register(Postgres())
	Register(DuckDB())
	Register(SQLite())
}

func ansiIdentifiers() IdentifierConfig {
	return IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: NormLowercase,
	}
}

// ANSI returns a generic ANSI SQL dialect.
func ANSI() *Dialect {
	return &Dialect{
		Name:        "ansi",
		Identifiers: ansiIdentifiers(),
		Placeholder: PlaceholderQuestion,
	}
}

// Postgres returns the PostgreSQL dialect.
func Postgres() *Dialect {
	return &Dialect{
		Name:          "postgres",
		Identifiers:   ansiIdentifiers(),
		DefaultSchema: "public",
		Placeholder:   PlaceholderDollar,
	}
}

// DuckDB returns the DuckDB dialect.
func DuckDB() *Dialect {
	return &Dialect{
		Name: "duckdb",
		Identifiers: IdentifierConfig{
			Quote:         `"`,
			QuoteEnd:      `"`,
			Escape:        `""`,
			Normalization: NormCaseInsensitive,
		},
		DefaultSchema: "main",
		Placeholder:   PlaceholderQuestion,
	}
}

// SQLite returns the SQLite dialect.
func SQLite() *Dialect {
	return &Dialect{
		Name:          "sqlite",
		Identifiers:   ansiIdentifiers(),
		DefaultSchema: "main",
		Placeholder:   PlaceholderQuestion,
	}
}
