package engine

import (
	"database/sql"
	"fmt"
	"strings"

	"lite2pg/internal/dialect"
	"lite2pg/internal/schema"
	"lite2pg/internal/typemap"
)

// DemoSchema is the sample source database created by the seed command.
var DemoSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email VARCHAR(120),
		bio TEXT,
		is_active BOOLEAN DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		title VARCHAR(200) NOT NULL,
		body TEXT,
		score REAL,
		attachment BLOB
	)`,
	`CREATE TABLE IF NOT EXISTS post_tags (
		post_id INTEGER NOT NULL REFERENCES posts(id),
		tag VARCHAR(40) NOT NULL,
		PRIMARY KEY (post_id, tag)
	)`,
}

// CreateDemoSchema creates the DemoSchema tables if they are missing.
func CreateDemoSchema(db *sql.DB) error {
	for _, stmt := range DemoSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create demo schema: %w", err)
		}
	}
	return nil
}

// isRowID reports whether c is SQLite's INTEGER PRIMARY KEY rowid alias,
// which the engine fills by itself.
func isRowID(t *schema.Table, c *schema.Column) bool {
	return c.IsPK && len(t.PrimaryKeys()) == 1 && typemap.Normalize(c.DeclaredType) == "INTEGER"
}

// Seed fills each table with count generated rows, in the given order, so
// parent tables seeded earlier can feed "<parent>_id" columns of later ones.
func Seed(db *sql.DB, d dialect.Source, tables []*schema.Table, count int, onProgress func()) ([]schema.TableResult, error) {
	var results []schema.TableResult
	fkPool := make(map[string][]any)

	for _, table := range tables {
		var initialCount int
		if err := db.QueryRow(d.CountQuery(table.Name)).Scan(&initialCount); err != nil {
			return results, fmt.Errorf("failed to count %s: %w", table.Name, err)
		}

		var insertCols []*schema.Column
		var colNames []string
		for _, c := range table.Columns {
			if !isRowID(table, c) {
				insertCols = append(insertCols, c)
				colNames = append(colNames, c.Name)
			}
		}

		inserted, err := seedTable(db, d, table, insertCols, colNames, count, fkPool, onProgress)
		if err != nil {
			return results, err
		}

		// 실제 들어간 개수 확인 (Verification)
		var finalCount int
		if err := db.QueryRow(d.CountQuery(table.Name)).Scan(&finalCount); err != nil {
			return results, fmt.Errorf("failed to count %s: %w", table.Name, err)
		}
		actual := finalCount - initialCount

		status := "OK"
		var errMsg string
		if actual < count {
			status = "MISSING DATA"
			errMsg = fmt.Sprintf("Only inserted %d out of %d. Duplicate keys?", inserted, count)
		}

		results = append(results, schema.TableResult{
			TableName: table.Name,
			Expected:  count,
			Actual:    actual,
			Status:    status,
			ErrorMsg:  errMsg,
		})

		// FK 풀 갱신 (다음 자식 테이블을 위해)
		if err := updateFKPool(db, d, table, fkPool); err != nil {
			return results, err
		}
	}

	return results, nil
}

func seedTable(db *sql.DB, d dialect.Source, table *schema.Table, cols []*schema.Column, colNames []string,
	count int, fkPool map[string][]any, onProgress func()) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s: %w", table.Name, err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(d.InsertQuery(table.Name, colNames))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert for %s: %w", table.Name, err)
	}
	defer stmt.Close()

	// Track used combinations for composite PK tables
	usedCombinations := make(map[string]bool)
	hasCompositePK := len(table.PrimaryKeys()) > 1

	inserted := 0
	attempts := 0
	for inserted < count && attempts < count*10 {
		attempts++
		values := generateRow(cols, fkPool, attempts)

		if hasCompositePK {
			var pkValues []string
			for i, c := range cols {
				if c.IsPK {
					pkValues = append(pkValues, fmt.Sprintf("%v", values[i]))
				}
			}
			combinationKey := strings.Join(pkValues, "|")
			if usedCombinations[combinationKey] {
				continue
			}
			usedCombinations[combinationKey] = true
		}

		res, err := stmt.Exec(values...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert into %s: %w", table.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			// INSERT OR IGNORE skipped a duplicate
			continue
		}
		inserted++
		if onProgress != nil {
			onProgress()
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit %s: %w", table.Name, err)
	}
	tx = nil
	return inserted, nil
}

func generateRow(cols []*schema.Column, fkPool map[string][]any, index int) []any {
	values := make([]any, 0, len(cols))
	for _, col := range cols {
		if vals := fkPool[refTable(col.Name, fkPool)]; len(vals) > 0 {
			values = append(values, vals[(index+seededRand.Intn(len(vals)))%len(vals)])
			continue
		}
		values = append(values, GenerateValue(col))
	}
	return values
}

// refTable guesses the parent table of a "<parent>_id" column among the
// tables already seeded.
func refTable(colName string, fkPool map[string][]any) string {
	base, ok := strings.CutSuffix(strings.ToLower(colName), "_id")
	if !ok || base == "" {
		return ""
	}
	for _, cand := range []string{base, base + "s", base + "es"} {
		if _, ok := fkPool[cand]; ok {
			return cand
		}
	}
	return ""
}

func updateFKPool(db *sql.DB, d dialect.Source, table *schema.Table, fkPool map[string][]any) error {
	pks := table.PrimaryKeys()
	if len(pks) != 1 {
		return nil
	}

	// PK 값 수집
	query := fmt.Sprintf("SELECT %s FROM %s", d.QuoteIdent(pks[0].Name), d.QuoteIdent(table.Name))
	rows, err := db.Query(query)
	if err != nil {
		return fmt.Errorf("failed to collect keys of %s: %w", table.Name, err)
	}
	defer rows.Close()

	key := strings.ToLower(table.Name)
	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan key of %s: %w", table.Name, err)
		}
		fkPool[key] = append(fkPool[key], id)
	}
	return rows.Err()
}
