package dialect

import (
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

type PostgresDialect struct{}

var bareIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// reservedWords are the PostgreSQL key words that cannot be used as bare
// table or column names.
var reservedWords = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"array": true, "as": true, "asc": true, "asymmetric": true, "authorization": true,
	"binary": true, "both": true, "case": true, "cast": true, "check": true,
	"collate": true, "collation": true, "column": true, "concurrently": true,
	"constraint": true, "create": true, "cross": true, "current_catalog": true,
	"current_date": true, "current_role": true, "current_schema": true,
	"current_time": true, "current_timestamp": true, "current_user": true,
	"default": true, "deferrable": true, "desc": true, "distinct": true, "do": true,
	"else": true, "end": true, "except": true, "false": true, "fetch": true,
	"for": true, "foreign": true, "freeze": true, "from": true, "full": true,
	"grant": true, "group": true, "having": true, "ilike": true, "in": true,
	"initially": true, "inner": true, "intersect": true, "into": true, "is": true,
	"isnull": true, "join": true, "lateral": true, "leading": true, "left": true,
	"like": true, "limit": true, "localtime": true, "localtimestamp": true,
	"natural": true, "not": true, "notnull": true, "null": true, "offset": true,
	"on": true, "only": true, "or": true, "order": true, "outer": true,
	"overlaps": true, "placing": true, "primary": true, "references": true,
	"returning": true, "right": true, "select": true, "session_user": true,
	"similar": true, "some": true, "symmetric": true, "system_user": true,
	"table": true, "tablesample": true, "then": true, "to": true, "trailing": true,
	"true": true, "union": true, "unique": true, "user": true, "using": true,
	"variadic": true, "verbose": true, "when": true, "where": true, "window": true,
	"with": true,
}

// QuoteIdent leaves plain lower-case names bare and quotes everything else,
// so mixed case, spaces and reserved words reach the target unchanged.
func (d *PostgresDialect) QuoteIdent(name string) string {
	if bareIdent.MatchString(name) && !reservedWords[name] {
		return name
	}
	return pq.QuoteIdentifier(name)
}

func (d *PostgresDialect) QuoteIdents(names []string) []string {
	return MapIdents(names, d.QuoteIdent)
}

func (d *PostgresDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", d.QuoteIdent(table))
}

func (d *PostgresDialect) CreateTableQuery(table string, defs []string) string {
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", d.QuoteIdent(table), strings.Join(defs, ",\n  "))
}

func (d *PostgresDialect) PrimaryKeyClause(cols []string) string {
	return fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(d.QuoteIdents(cols), ", "))
}

// InsertQuery renders a literal INSERT. A nil cols slice omits the column list.
func (d *PostgresDialect) InsertQuery(table string, cols []string, values []string) string {
	if len(values) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES;", d.QuoteIdent(table))
	}
	if cols == nil {
		return fmt.Sprintf("INSERT INTO %s VALUES (%s);", d.QuoteIdent(table), strings.Join(values, ", "))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		d.QuoteIdent(table), strings.Join(d.QuoteIdents(cols), ", "), strings.Join(values, ", "))
}

// ResetSequenceQuery moves the serial sequence past the highest explicit value.
func (d *PostgresDialect) ResetSequenceQuery(table, column string) string {
	col := d.QuoteIdent(column)
	return fmt.Sprintf("SELECT setval(pg_get_serial_sequence(%s, %s), COALESCE(MAX(%s), 1), MAX(%s) IS NOT NULL) FROM %s;",
		d.StringLiteral(d.QuoteIdent(table)), d.StringLiteral(column), col, col, d.QuoteIdent(table))
}

func (d *PostgresDialect) NullLiteral() string {
	return "NULL"
}

// StringLiteral doubles backslashes and single quotes. Strings that contain a
// backslash get the E prefix so standard_conforming_strings does not keep the
// doubled backslash.
func (d *PostgresDialect) StringLiteral(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `''`)
	if strings.Contains(s, `\`) {
		return "E'" + escaped + "'"
	}
	return "'" + escaped + "'"
}

func (d *PostgresDialect) BytesLiteral(b []byte) string {
	return `E'\\x` + hex.EncodeToString(b) + "'"
}

func (d *PostgresDialect) IntegerLiteral(i int64) string {
	return strconv.FormatInt(i, 10)
}

func (d *PostgresDialect) FloatLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return "'NaN'"
	case math.IsInf(f, 1):
		return "'Infinity'"
	case math.IsInf(f, -1):
		return "'-Infinity'"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = $1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *PostgresDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdent(table))
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return DefaultGetSchemaName(input)
}
