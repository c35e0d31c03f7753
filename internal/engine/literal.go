package engine

import (
	"fmt"

	"lite2pg/internal/schema"
)

// Literal renders one value in the target's literal syntax:
// NULL, then numbers as decimal text, then blobs as hex byte strings, then
// everything else as an escaped string literal.
func (e *Emitter) Literal(v schema.Value) (string, error) {
	switch v.Kind {
	case schema.KindNull:
		return e.target.NullLiteral(), nil
	case schema.KindInteger:
		return e.target.IntegerLiteral(v.Int), nil
	case schema.KindFloat:
		return e.target.FloatLiteral(v.Float), nil
	case schema.KindBlob:
		return e.target.BytesLiteral(v.Blob), nil
	case schema.KindText:
		return e.target.StringLiteral(v.Text), nil
	default:
		return "", fmt.Errorf("cannot render value of kind %s", v.Kind)
	}
}
