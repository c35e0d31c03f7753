package engine_test

import (
	"strings"
	"testing"

	"lite2pg/internal/dialect"
	"lite2pg/internal/engine"
	"lite2pg/internal/schema"
	"lite2pg/internal/typemap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func usersTable() *schema.Table {
	return &schema.Table{
		Name: "users",
		Columns: []*schema.Column{
			{Name: "id", DeclaredType: "INTEGER", IsPK: true},
			{Name: "name", DeclaredType: "TEXT", NotNull: true},
			{Name: "bio", DeclaredType: "TEXT"},
		},
		Rows: []schema.Row{
			{schema.Integer(1), schema.Text("Ann"), schema.Null()},
			{schema.Integer(2), schema.Text("O'Ann"), schema.Text(`x\y`)},
		},
	}
}

func newEmitter(opts engine.Options) *engine.Emitter {
	return engine.NewEmitter(&dialect.PostgresDialect{}, typemap.Default(), opts)
}

func TestEmitTable_UsersScenario(t *testing.T) {
	e := newEmitter(engine.DefaultOptions())

	got, err := e.EmitTable(usersTable())
	require.NoError(t, err)

	want := `-- Table: users
DROP TABLE IF EXISTS users CASCADE;
CREATE TABLE users (
  id SERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  bio TEXT
);

-- Data for users (2 rows)
INSERT INTO users (id, name, bio) VALUES (1, 'Ann', NULL);
INSERT INTO users (id, name, bio) VALUES (2, 'O''Ann', E'x\\y');
SELECT setval(pg_get_serial_sequence('users', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM users;
`
	assert.Equal(t, want, got)
}

func TestEmitTable_CompositePrimaryKey(t *testing.T) {
	tbl := &schema.Table{
		Name: "post_tags",
		Columns: []*schema.Column{
			{Name: "post_id", DeclaredType: "INTEGER", NotNull: true, IsPK: true},
			{Name: "note", DeclaredType: "TEXT", Default: strPtr("'none'")},
			{Name: "tag", DeclaredType: "VARCHAR(40)", NotNull: true, IsPK: true},
		},
	}

	got, err := newEmitter(engine.DefaultOptions()).EmitTable(tbl)
	require.NoError(t, err)

	assert.Contains(t, got, "  post_id INTEGER NOT NULL,\n")
	assert.Contains(t, got, "  note TEXT DEFAULT 'none',\n")
	assert.Contains(t, got, "  tag TEXT NOT NULL,\n")
	assert.Contains(t, got, "  PRIMARY KEY (post_id, tag)\n);")
	assert.NotContains(t, got, "SERIAL")
}

func TestEmitTable_SingleNonIntegerPrimaryKey(t *testing.T) {
	tbl := &schema.Table{
		Name: "settings",
		Columns: []*schema.Column{
			{Name: "key", DeclaredType: "TEXT", NotNull: true, IsPK: true, Default: strPtr("'k'")},
			{Name: "value", DeclaredType: "TEXT"},
		},
	}

	got, err := newEmitter(engine.DefaultOptions()).EmitTable(tbl)
	require.NoError(t, err)

	// NOT NULL and DEFAULT are kept: only a serial key suppresses them.
	assert.Contains(t, got, "  key TEXT NOT NULL DEFAULT 'k',\n")
	assert.Contains(t, got, "  PRIMARY KEY (key)\n")
}

func TestEmitTable_SerialKeySuppressesNotNullAndDefault(t *testing.T) {
	tbl := &schema.Table{
		Name: "items",
		Columns: []*schema.Column{
			{Name: "id", DeclaredType: "integer", NotNull: true, IsPK: true, Default: strPtr("0")},
		},
	}

	got, err := newEmitter(engine.DefaultOptions()).EmitTable(tbl)
	require.NoError(t, err)
	assert.Contains(t, got, "  id SERIAL PRIMARY KEY\n);")
	assert.NotContains(t, got, "PRIMARY KEY (")
}

func TestEmitTable_EmptyTable(t *testing.T) {
	tbl := usersTable()
	tbl.Rows = nil

	got, err := newEmitter(engine.DefaultOptions()).EmitTable(tbl)
	require.NoError(t, err)

	assert.Contains(t, got, "CREATE TABLE users (")
	assert.NotContains(t, got, "INSERT")
	assert.NotContains(t, got, "-- Data for")
	assert.NotContains(t, got, "setval")
}

func TestEmitTable_BinaryValue(t *testing.T) {
	tbl := &schema.Table{
		Name:    "files",
		Columns: []*schema.Column{{Name: "data", DeclaredType: "BLOB"}},
		Rows:    []schema.Row{{schema.Blob([]byte{0xDE, 0xAD})}},
	}

	got, err := newEmitter(engine.DefaultOptions()).EmitTable(tbl)
	require.NoError(t, err)
	assert.Contains(t, got, "  data BYTEA\n")
	assert.Contains(t, got, `INSERT INTO files (data) VALUES (E'\\xdead');`)
}

func TestEmitTable_ColumnAndRowCounts(t *testing.T) {
	tbl := usersTable()
	for i := 3; i <= 10; i++ {
		tbl.Rows = append(tbl.Rows, schema.Row{schema.Integer(int64(i)), schema.Text("n"), schema.Float(0.5)})
	}

	got, err := newEmitter(engine.DefaultOptions()).EmitTable(tbl)
	require.NoError(t, err)

	assert.Equal(t, len(tbl.Rows), strings.Count(got, "INSERT INTO users "))
	create := got[strings.Index(got, "CREATE TABLE"):strings.Index(got, ");")]
	assert.Equal(t, len(tbl.Columns), strings.Count(create, ",\n")+1)
	assert.Less(t, strings.Index(create, "id SERIAL"), strings.Index(create, "name TEXT"))
	assert.Less(t, strings.Index(create, "name TEXT"), strings.Index(create, "bio TEXT"))
}

func TestEmitTable_InsertStyles(t *testing.T) {
	opts := engine.DefaultOptions()

	opts.InsertStyle = engine.InsertPositional
	got, err := newEmitter(opts).EmitTable(usersTable())
	require.NoError(t, err)
	assert.Contains(t, got, "INSERT INTO users VALUES (1, 'Ann', NULL);")

	opts.InsertStyle = engine.InsertOmitSerial
	got, err = newEmitter(opts).EmitTable(usersTable())
	require.NoError(t, err)
	assert.Contains(t, got, "INSERT INTO users (name, bio) VALUES ('Ann', NULL);")
	assert.NotContains(t, got, "setval")
}

func TestEmitTable_RowWidthMismatch(t *testing.T) {
	tbl := usersTable()
	tbl.Rows = append(tbl.Rows, schema.Row{schema.Integer(3)})

	_, err := newEmitter(engine.DefaultOptions()).EmitTable(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestEmit_UnrenderableValueFails(t *testing.T) {
	tbl := usersTable()
	tbl.Rows[0][2] = schema.Value{Kind: schema.ValueKind(99)}

	out, err := newEmitter(engine.DefaultOptions()).Emit([]*schema.Table{tbl})
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestEmit_OrderAndHeader(t *testing.T) {
	a := &schema.Table{Name: "zeta", Columns: []*schema.Column{{Name: "v", DeclaredType: "TEXT"}}}
	b := &schema.Table{Name: "alpha", Columns: []*schema.Column{{Name: "v", DeclaredType: "TEXT"}}}

	got, err := newEmitter(engine.DefaultOptions()).Emit([]*schema.Table{a, b})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "-- Migration from SQLite to PostgreSQL\n-- Generated automatically\n\n-- Table: zeta\n"))
	assert.Less(t, strings.Index(got, "zeta"), strings.Index(got, "alpha"))
	assert.Contains(t, got, ");\n\n-- Table: alpha\n")

	opts := engine.DefaultOptions()
	opts.Header = false
	got, err = newEmitter(opts).Emit([]*schema.Table{a})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "-- Table: zeta\n"))
}

func TestParseInsertStyle(t *testing.T) {
	s, err := engine.ParseInsertStyle("")
	require.NoError(t, err)
	assert.Equal(t, engine.InsertNamed, s)

	s, err = engine.ParseInsertStyle("Positional")
	require.NoError(t, err)
	assert.Equal(t, engine.InsertPositional, s)

	_, err = engine.ParseInsertStyle("bulk")
	assert.Error(t, err)
}
