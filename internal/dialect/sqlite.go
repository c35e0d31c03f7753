package dialect

import (
	"fmt"
	"strings"
)

type SqliteDialect struct{}

func (d *SqliteDialect) GetTablesQuery() string {
	// sqlite_master keeps creation order; views, indexes and triggers are skipped.
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'`
}

func (d *SqliteDialect) GetColumnsQuery() string {
	return `SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`
}

// IsSystemTable reports whether name is reserved by the engine itself.
func (d *SqliteDialect) IsSystemTable(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "sqlite_")
}

func (d *SqliteDialect) RowsQuery(table string, cols []string) string {
	// Unary plus turns each column into an expression without a declared type,
	// so the driver hands back the stored value instead of coercing
	// DATE/DATETIME/TIMESTAMP text into time.Time.
	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = "+" + d.QuoteIdent(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), d.QuoteIdent(table))
}

func (d *SqliteDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdent(table))
}

func (d *SqliteDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	quoted := MapIdents(cols, d.QuoteIdent)
	return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)", d.QuoteIdent(table), strings.Join(quoted, ", "), vals)
}

func (d *SqliteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SqliteDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
