package dialect

// Source abstracts catalog and row access for the engine being migrated from.
type Source interface {
	// Metadata Queries (Schema Introspection)
	GetTablesQuery() string
	GetColumnsQuery() string
	IsSystemTable(name string) bool

	// Data Access
	RowsQuery(table string, cols []string) string
	CountQuery(table string) string

	// Query Generation (used when seeding a source database)
	InsertQuery(table string, cols []string) string
	Placeholder(index int) string
	QuoteIdent(name string) string
}

// Target abstracts statement text and literal syntax for the engine being migrated to.
type Target interface {
	// Identifiers
	QuoteIdent(name string) string
	QuoteIdents(names []string) []string

	// Statement Generation
	DropTableQuery(table string) string
	CreateTableQuery(table string, defs []string) string
	PrimaryKeyClause(cols []string) string
	InsertQuery(table string, cols []string, values []string) string
	ResetSequenceQuery(table, column string) string

	// Literals
	NullLiteral() string
	StringLiteral(s string) string
	BytesLiteral(b []byte) string
	IntegerLiteral(i int64) string
	FloatLiteral(f float64) string

	// Metadata Queries (Verification)
	GetTablesQuery(schema string) string
	CountQuery(table string) string
	GetSchemaName(input string) string
}
