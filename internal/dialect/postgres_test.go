package dialect_test

import (
	"math"
	"testing"

	"lite2pg/internal/dialect"
)

func TestPostgresStringLiteral(t *testing.T) {
	d := &dialect.PostgresDialect{}

	tests := []struct {
		in   string
		want string
	}{
		{"Ann", "'Ann'"},
		{"O'Ann", "'O''Ann'"},
		{`x\y`, `E'x\\y'`},
		{`O'Brien\path`, `E'O''Brien\\path'`},
		{"", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := d.StringLiteral(tt.in); got != tt.want {
				t.Errorf("StringLiteral(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestPostgresBytesLiteral(t *testing.T) {
	d := &dialect.PostgresDialect{}
	if got := d.BytesLiteral([]byte{0xDE, 0xAD}); got != `E'\\xdead'` {
		t.Errorf("BytesLiteral = %s", got)
	}
	if got := d.BytesLiteral(nil); got != `E'\\x'` {
		t.Errorf("BytesLiteral(nil) = %s", got)
	}
}

func TestPostgresNumericLiterals(t *testing.T) {
	d := &dialect.PostgresDialect{}
	if got := d.IntegerLiteral(-42); got != "-42" {
		t.Errorf("IntegerLiteral = %s", got)
	}
	tests := []struct {
		in   float64
		want string
	}{
		{2.5, "2.5"},
		{-0.125, "-0.125"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-07"},
		{math.NaN(), "'NaN'"},
		{math.Inf(1), "'Infinity'"},
		{math.Inf(-1), "'-Infinity'"},
	}
	for _, tt := range tests {
		if got := d.FloatLiteral(tt.in); got != tt.want {
			t.Errorf("FloatLiteral(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPostgresQuoteIdent(t *testing.T) {
	d := &dialect.PostgresDialect{}

	tests := []struct {
		in   string
		want string
	}{
		{"users", "users"},
		{"created_at", "created_at"},
		{"user", `"user"`},
		{"Order", `"Order"`},
		{"first name", `"first name"`},
		{`we"ird`, `"we""ird"`},
	}

	for _, tt := range tests {
		if got := d.QuoteIdent(tt.in); got != tt.want {
			t.Errorf("QuoteIdent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPostgresStatements(t *testing.T) {
	d := &dialect.PostgresDialect{}

	if got := d.DropTableQuery("users"); got != "DROP TABLE IF EXISTS users CASCADE;" {
		t.Errorf("DropTableQuery = %s", got)
	}
	if got := d.PrimaryKeyClause([]string{"a", "Order"}); got != `PRIMARY KEY (a, "Order")` {
		t.Errorf("PrimaryKeyClause = %s", got)
	}
	if got := d.InsertQuery("t", nil, []string{"1", "NULL"}); got != "INSERT INTO t VALUES (1, NULL);" {
		t.Errorf("InsertQuery positional = %s", got)
	}
	if got := d.InsertQuery("seq_only", nil, nil); got != "INSERT INTO seq_only DEFAULT VALUES;" {
		t.Errorf("InsertQuery empty = %s", got)
	}
	want := "SELECT setval(pg_get_serial_sequence('users', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM users;"
	if got := d.ResetSequenceQuery("users", "id"); got != want {
		t.Errorf("ResetSequenceQuery = %s", got)
	}
}

func TestGetDialects(t *testing.T) {
	if _, err := dialect.GetSource("sqlite"); err != nil {
		t.Errorf("GetSource(sqlite): %v", err)
	}
	if _, err := dialect.GetTarget("postgres"); err != nil {
		t.Errorf("GetTarget(postgres): %v", err)
	}
	if _, err := dialect.GetTarget("oracle"); err == nil {
		t.Error("expected error for unsupported target")
	}
}
