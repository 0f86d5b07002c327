package types

import (
	"fmt"
	"time"
)

// Kind classifies a runtime value.
type Kind string

// Runtime value kinds produced by the default literal factory and calculator.
// Values of any other Go type report KindOther.
const (
	KindNumber  Kind = "number"
	KindString  Kind = "string"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
	KindList    Kind = "list"
	KindNil     Kind = "nil"
	KindOther   Kind = "other"
)

// KindOf reports the kind of v.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNil
	case float64:
		return KindNumber
	case string:
		return KindString
	case bool:
		return KindBoolean
	case time.Time:
		return KindDate
	case []interface{}:
		return KindList
	default:
		return KindOther
	}
}

// TypeName returns a short description of v's type for diagnostics.
// Values outside the default kinds are described by their Go type.
func TypeName(v interface{}) string {
	if k := KindOf(v); k != KindOther {
		return string(k)
	}
	return fmt.Sprintf("%T", v)
}

// LiteralKind identifies the lexical class of a literal token.
type LiteralKind uint8

const (
	LiteralNumber LiteralKind = iota + 1
	LiteralBoolean
	LiteralString
	LiteralDate
)

// String returns the name of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralNumber:
		return "number"
	case LiteralBoolean:
		return "boolean"
	case LiteralString:
		return "string"
	case LiteralDate:
		return "date"
	default:
		return "unknown"
	}
}

// Operand is a deferred sub-expression handed to calculators and functions.
// Nothing is computed until Evaluate is called, so implementations decide
// whether (and in which order) each operand is evaluated. Evaluate may be
// called more than once; the value is computed on the first call only.
type Operand interface {
	Evaluate() (interface{}, error)
	Node() *Node
}
