package apply

import (
	"context"
	"database/sql"
	"fmt"

	"lite2pg/internal/dialect"
	"lite2pg/internal/schema"
)

const (
	StatusOK       = "VERIFIED_OK"
	StatusMissing  = "MISSING_TABLE"
	StatusMismatch = "COUNT_MISMATCH"
	StatusFailed   = "VERIFY_FAIL"
)

// ListTables returns the base tables of the target schema, sorted by name.
func ListTables(ctx context.Context, db *sql.DB, d dialect.Target, schemaName string) ([]string, error) {
	target := d.GetSchemaName(schemaName)

	rows, err := db.QueryContext(ctx, d.GetTablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query target tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating target tables: %w", err)
	}
	return names, nil
}

// Verify checks that every expected table exists on the target and holds the
// same number of rows as the source. A failure on one table is recorded in its
// result and does not stop the others.
func Verify(ctx context.Context, db *sql.DB, d dialect.Target, schemaName string, expected []schema.TableSummary) ([]schema.TableResult, error) {
	names, err := ListTables(ctx, db, d, schemaName)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	results := make([]schema.TableResult, 0, len(expected))
	for _, exp := range expected {
		res := schema.TableResult{TableName: exp.Name, Expected: exp.Rows}

		if !present[exp.Name] {
			res.Status = StatusMissing
			res.ErrorMsg = "table not found in target schema"
			results = append(results, res)
			continue
		}

		var count int
		if err := db.QueryRowContext(ctx, d.CountQuery(exp.Name)).Scan(&count); err != nil {
			res.Status = StatusFailed
			res.ErrorMsg = err.Error()
			results = append(results, res)
			continue
		}

		res.Actual = count
		if count == exp.Rows {
			res.Status = StatusOK
		} else {
			res.Status = StatusMismatch
			res.ErrorMsg = fmt.Sprintf("expected %d rows, found %d", exp.Rows, count)
		}
		results = append(results, res)
	}
	return results, nil
}

// AllOK reports whether every result verified.
func AllOK(results []schema.TableResult) bool {
	for _, r := range results {
		if r.Status != StatusOK {
			return false
		}
	}
	return true
}
