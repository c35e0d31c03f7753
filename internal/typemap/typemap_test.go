package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMapping(t *testing.T) {
	tm := Default()

	tests := []struct {
		declared string
		solePK   bool
		want     string
		autoInc  bool
	}{
		{"INTEGER", true, "SERIAL", true},
		{"integer", true, "SERIAL", true},
		{"INTEGER", false, "INTEGER", false},
		{"TEXT", false, "TEXT", false},
		{"REAL", false, "DOUBLE PRECISION", false},
		{"BLOB", false, "BYTEA", false},
		{"BIGINT", true, "INTEGER", false},
		{"tinyint", false, "INTEGER", false},
		{"VARCHAR(255)", false, "TEXT", false},
		{"nchar(10)", false, "TEXT", false},
		{"", false, "TEXT", false},
		{"DATETIME", false, "DATETIME", false},
		{"numeric(10,2)", false, "numeric(10,2)", false},
		{"boolean", false, "boolean", false},
	}

	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			got := tm.Resolve(tt.declared, tt.solePK)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.autoInc, got.AutoIncrement())
		})
	}
}

func TestFirstMatchWins(t *testing.T) {
	tm := Default()

	// "POINT" contains "INT" and is caught by the alias rule before passthrough.
	assert.Equal(t, "int-alias", tm.Resolve("POINT", false).Rule)
	// "INTEGER" never reaches the alias rule.
	assert.Equal(t, "integer", tm.Resolve("INTEGER", false).Rule)
	assert.Equal(t, "passthrough", tm.Resolve("json", false).Rule)
}

func TestWithOverrides(t *testing.T) {
	tm := Default().WithOverrides(map[string]string{
		"datetime": "TIMESTAMP",
		"INTEGER":  "BIGINT",
	})

	assert.Equal(t, "TIMESTAMP", tm.Resolve("DateTime", false).Type)
	// overrides run first, including over the serial rule
	got := tm.Resolve("INTEGER", true)
	assert.Equal(t, "BIGINT", got.Type)
	assert.False(t, got.AutoIncrement())
}
