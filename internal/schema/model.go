package schema

import (
	"fmt"
	"time"
)

type Table struct {
	Name    string
	Columns []*Column
	Rows    []Row
}

type Column struct {
	Name         string
	DeclaredType string  // 원본 선언 타입 그대로 (예: "VARCHAR(20)")
	NotNull      bool
	Default      *string // 파싱하지 않은 기본값 리터럴
	IsPK         bool
	Meaning      string // 약어 분석을 통해 파악된 의미 (예: "phone", "email")
}

// PrimaryKeys returns the primary-key columns in declaration order.
func (t *Table) PrimaryKeys() []*Column {
	var pks []*Column
	for _, c := range t.Columns {
		if c.IsPK {
			pks = append(pks, c)
		}
	}
	return pks
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Summary returns the table name and row count used for verification.
func (t *Table) Summary() TableSummary {
	return TableSummary{Name: t.Name, Rows: len(t.Rows)}
}

type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one cell. Exactly one of the payload fields is meaningful, chosen by Kind.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
	Blob  []byte
}

// Row is aligned positionally with its table's Columns.
type Row []Value

func Null() Value { return Value{Kind: KindNull} }

func Integer(i int64) Value { return Value{Kind: KindInteger, Int: i} }

func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

func Text(s string) Value { return Value{Kind: KindText, Text: s} }

func Blob(b []byte) Value { return Value{Kind: KindBlob, Blob: b} }

// sqliteTimeLayout matches what the sqlite driver writes for time.Time values.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

// ValueOf converts a value scanned from the source driver. Shapes that have no
// faithful rendering are rejected rather than guessed at.
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case int64:
		return Integer(val), nil
	case int:
		return Integer(int64(val)), nil
	case int32:
		return Integer(int64(val)), nil
	case float64:
		return Float(val), nil
	case float32:
		return Float(float64(val)), nil
	case bool:
		if val {
			return Integer(1), nil
		}
		return Integer(0), nil
	case string:
		return Text(val), nil
	case []byte:
		b := make([]byte, len(val))
		copy(b, val)
		return Blob(b), nil
	case time.Time:
		return Text(val.Format(sqliteTimeLayout)), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// TableSummary is what verification compares against the target.
type TableSummary struct {
	Name string
	Rows int
}

// 리포트용 구조체 (seed, verify 공용)
type TableResult struct {
	TableName string
	Expected  int
	Actual    int
	Status    string
	ErrorMsg  string
}
