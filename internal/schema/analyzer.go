package schema

import (
	"database/sql"
	"fmt"
	"strings"

	"lite2pg/internal/dialect"
)

// ---------------------------------------------------------------------
// 1. Table Discovery
// ---------------------------------------------------------------------

// ListTables returns the user tables of the source in catalog order.
// A non-empty filter keeps only the named tables (case-insensitive) and must
// match at least one of them.
func ListTables(db *sql.DB, d dialect.Source, filter []string) ([]string, error) {
	rows, err := db.Query(d.GetTablesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		if d.IsSystemTable(name) {
			continue
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	if len(filter) == 0 {
		return names, nil
	}

	// Create a map for requested tables for O(1) lookup
	reqTables := make(map[string]bool)
	for _, t := range filter {
		reqTables[strings.ToLower(t)] = true
	}

	var selected []string
	for _, n := range names {
		if reqTables[strings.ToLower(n)] {
			selected = append(selected, n)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", filter)
	}
	return selected, nil
}

// ---------------------------------------------------------------------
// 2. Schema + Data Analysis
// ---------------------------------------------------------------------

// Analyze reads every selected table with its columns and all of its rows.
// It stops at the first table that cannot be read; a partial catalog would
// produce a statement stream that silently drops data.
func Analyze(db *sql.DB, d dialect.Source, filter []string, onProgress func(t *Table)) ([]*Table, error) {
	names, err := ListTables(db, d, filter)
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(names))
	for _, name := range names {
		t, err := ReadTable(db, d, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
		if onProgress != nil {
			onProgress(t)
		}
	}
	return tables, nil
}

// ReadTable loads one table's column definitions and materializes all rows.
func ReadTable(db *sql.DB, d dialect.Source, name string) (*Table, error) {
	t := &Table{Name: name}

	cols, err := readColumns(db, d, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema of table %s: %w", name, err)
	}
	t.Columns = cols

	rows, err := readRows(db, d, t)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of table %s: %w", name, err)
	}
	t.Rows = rows

	return t, nil
}

func readColumns(db *sql.DB, d dialect.Source, table string) ([]*Column, error) {
	rows, err := db.Query(d.GetColumnsQuery(), table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var cols []*Column
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}

		col := &Column{
			Name:         name,
			DeclaredType: colType,
			NotNull:      notNull != 0,
			IsPK:         pk > 0, // pk is the 1-based position inside the key
			Meaning:      AnalyzeMeaning(name),
		}
		if dflt.Valid {
			v := dflt.String
			col.Default = &v
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns found")
	}
	return cols, nil
}

func readRows(db *sql.DB, d dialect.Source, t *Table) ([]Row, error) {
	rows, err := db.Query(d.RowsQuery(t.Name, t.ColumnNames()))
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	n := len(t.Columns)
	raw := make([]any, n)
	ptrs := make([]any, n)
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	var out []Row
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(out)+1, err)
		}

		row := make(Row, n)
		for i, v := range raw {
			val, err := ValueOf(v)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", len(out)+1, t.Columns[i].Name, err)
			}
			row[i] = val
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------
// 3. Row Counts (Verification)
// ---------------------------------------------------------------------

// Summarize counts rows per table without materializing them.
func Summarize(db *sql.DB, d dialect.Source, filter []string) ([]TableSummary, error) {
	names, err := ListTables(db, d, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]TableSummary, 0, len(names))
	for _, name := range names {
		var count int
		if err := db.QueryRow(d.CountQuery(name)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count rows of table %s: %w", name, err)
		}
		summaries = append(summaries, TableSummary{Name: name, Rows: count})
	}
	return summaries, nil
}
