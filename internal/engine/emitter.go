package engine

import (
	"fmt"
	"strings"

	"lite2pg/internal/dialect"
	"lite2pg/internal/schema"
	"lite2pg/internal/typemap"
)

// InsertStyle selects the column list of generated INSERT statements.
type InsertStyle string

const (
	// InsertNamed lists every column in declaration order.
	InsertNamed InsertStyle = "named"
	// InsertPositional omits the column list.
	InsertPositional InsertStyle = "positional"
	// InsertOmitSerial lists every column except the serial primary key, so
	// the target assigns fresh key values.
	InsertOmitSerial InsertStyle = "omit-serial"
)

// ParseInsertStyle validates a configured insert style.
func ParseInsertStyle(s string) (InsertStyle, error) {
	switch InsertStyle(strings.ToLower(s)) {
	case "", InsertNamed:
		return InsertNamed, nil
	case InsertPositional:
		return InsertPositional, nil
	case InsertOmitSerial:
		return InsertOmitSerial, nil
	}
	return "", fmt.Errorf("unknown insert style %q (want named, positional or omit-serial)", s)
}

type Options struct {
	InsertStyle    InsertStyle
	Header         bool
	ResetSequences bool
}

func DefaultOptions() Options {
	return Options{InsertStyle: InsertNamed, Header: true, ResetSequences: true}
}

// Emitter turns catalog tables into a PostgreSQL statement stream.
type Emitter struct {
	target dialect.Target
	types  *typemap.TypeMap
	opts   Options
}

func NewEmitter(target dialect.Target, types *typemap.TypeMap, opts Options) *Emitter {
	if types == nil {
		types = typemap.Default()
	}
	if opts.InsertStyle == "" {
		opts.InsertStyle = InsertNamed
	}
	return &Emitter{target: target, types: types, opts: opts}
}

// Emit renders all tables in the given order. Nothing is returned on error,
// so a caller never writes a stream with a table missing.
func (e *Emitter) Emit(tables []*schema.Table) (string, error) {
	var b strings.Builder

	if e.opts.Header {
		b.WriteString("-- Migration from SQLite to PostgreSQL\n")
		b.WriteString("-- Generated automatically\n")
	}

	for i, t := range tables {
		if i > 0 || e.opts.Header {
			b.WriteString("\n")
		}
		block, err := e.EmitTable(t)
		if err != nil {
			return "", err
		}
		b.WriteString(block)
	}

	return b.String(), nil
}

// EmitTable renders the DROP, CREATE and INSERT statements of one table.
func (e *Emitter) EmitTable(t *schema.Table) (string, error) {
	var b strings.Builder

	plan := e.plan(t)

	fmt.Fprintf(&b, "-- Table: %s\n", t.Name)
	b.WriteString(e.target.DropTableQuery(t.Name))
	b.WriteString("\n")
	b.WriteString(e.target.CreateTableQuery(t.Name, plan.defs))
	b.WriteString("\n")

	if len(t.Rows) == 0 {
		return b.String(), nil
	}

	fmt.Fprintf(&b, "\n-- Data for %s (%d rows)\n", t.Name, len(t.Rows))
	for i, row := range t.Rows {
		stmt, err := e.insert(t, plan, row)
		if err != nil {
			return "", fmt.Errorf("table %s, row %d: %w", t.Name, i+1, err)
		}
		b.WriteString(stmt)
		b.WriteString("\n")
	}

	if plan.serial >= 0 && e.opts.ResetSequences && e.opts.InsertStyle != InsertOmitSerial {
		b.WriteString(e.target.ResetSequenceQuery(t.Name, t.Columns[plan.serial].Name))
		b.WriteString("\n")
	}

	return b.String(), nil
}

// tablePlan is the per-table result of type mapping.
type tablePlan struct {
	defs   []string
	serial int // index of the serial primary-key column, -1 if none
}

func (e *Emitter) plan(t *schema.Table) tablePlan {
	p := tablePlan{serial: -1}

	pks := t.PrimaryKeys()
	solePK := len(pks) == 1

	for i, c := range t.Columns {
		m := e.types.Resolve(c.DeclaredType, solePK && c.IsPK)
		if m.AutoIncrement() {
			p.serial = i
		}
		p.defs = append(p.defs, e.ColumnDef(c, m))
	}

	// A serial column already carries PRIMARY KEY inline.
	if len(pks) > 0 && p.serial < 0 {
		names := make([]string, len(pks))
		for i, c := range pks {
			names[i] = c.Name
		}
		p.defs = append(p.defs, e.target.PrimaryKeyClause(names))
	}

	return p
}

// ColumnDef renders a single column definition for CREATE TABLE.
func (e *Emitter) ColumnDef(c *schema.Column, m typemap.Mapping) string {
	def := e.target.QuoteIdent(c.Name) + " " + m.Type

	if m.AutoIncrement() {
		return def + " PRIMARY KEY"
	}
	if c.NotNull {
		def += " NOT NULL"
	}
	if c.Default != nil {
		def += " DEFAULT " + *c.Default
	}
	return def
}

func (e *Emitter) insert(t *schema.Table, p tablePlan, row schema.Row) (string, error) {
	if len(row) != len(t.Columns) {
		return "", fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.Columns))
	}

	var cols []string
	values := make([]string, 0, len(row))
	for i, v := range row {
		if e.opts.InsertStyle == InsertOmitSerial && i == p.serial {
			continue
		}
		lit, err := e.Literal(v)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", t.Columns[i].Name, err)
		}
		values = append(values, lit)
		if e.opts.InsertStyle != InsertPositional {
			cols = append(cols, t.Columns[i].Name)
		}
	}

	return e.target.InsertQuery(t.Name, cols, values), nil
}
