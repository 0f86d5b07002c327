// Package calculator defines the operator semantics used by the evaluator.
//
// Every operator is a method on Calculator that receives lazy operands, so an
// implementation decides whether and when each side is evaluated. This is what
// makes "and", "or" and the conditional short-circuit.
//
// Default implements the built-in semantics over float64, string, bool,
// time.Time and []interface{} values. To change a few operators, embed
// Default and override the methods of interest; an override can still call
// the embedded method for operand types it does not handle:
//
//	type Money struct{ calculator.Default }
//
//	func (m Money) Add(l, r types.Operand) (interface{}, error) {
//	    a, err := l.Evaluate()
//	    ...
//	    return m.Default.Add(l, r)
//	}
//
// Operands remember their value, so evaluating one before delegating does not
// evaluate the sub-expression twice.
package calculator

import (
	"fmt"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Calculator implements one method per operator.
// Unsupported operand types are reported with types.Unsupported.
type Calculator interface {
	Ternary(cond, middle, right types.Operand) (interface{}, error)

	Add(left, right types.Operand) (interface{}, error)
	Sub(left, right types.Operand) (interface{}, error)
	Mul(left, right types.Operand) (interface{}, error)
	Div(left, right types.Operand) (interface{}, error)
	Modulus(left, right types.Operand) (interface{}, error)
	Exponentiation(left, right types.Operand) (interface{}, error)

	MoreThan(left, right types.Operand) (interface{}, error)
	LessThan(left, right types.Operand) (interface{}, error)
	MoreThanEqual(left, right types.Operand) (interface{}, error)
	LessThanEqual(left, right types.Operand) (interface{}, error)
	Equals(left, right types.Operand) (interface{}, error)
	NotEquals(left, right types.Operand) (interface{}, error)

	And(left, right types.Operand) (interface{}, error)
	Or(left, right types.Operand) (interface{}, error)

	BitAnd(left, right types.Operand) (interface{}, error)
	BitOr(left, right types.Operand) (interface{}, error)
	BitXor(left, right types.Operand) (interface{}, error)
	BitLeftShift(left, right types.Operand) (interface{}, error)
	BitRightShift(left, right types.Operand) (interface{}, error)

	In(left, right types.Operand) (interface{}, error)
	NotIn(left, right types.Operand) (interface{}, error)

	Not(operand types.Operand) (interface{}, error)
	BitComplement(operand types.Operand) (interface{}, error)
	Negate(operand types.Operand) (interface{}, error)
}

// Binary applies the calculator method matching op.
func Binary(c Calculator, op types.Operator, left, right types.Operand) (interface{}, error) {
	switch op {
	case types.OpAddition:
		return c.Add(left, right)
	case types.OpSubtraction:
		return c.Sub(left, right)
	case types.OpMultiplication:
		return c.Mul(left, right)
	case types.OpDivision:
		return c.Div(left, right)
	case types.OpModulus:
		return c.Modulus(left, right)
	case types.OpExponentiation:
		return c.Exponentiation(left, right)
	case types.OpMoreThan:
		return c.MoreThan(left, right)
	case types.OpLessThan:
		return c.LessThan(left, right)
	case types.OpMoreThanEqual:
		return c.MoreThanEqual(left, right)
	case types.OpLessThanEqual:
		return c.LessThanEqual(left, right)
	case types.OpEquals:
		return c.Equals(left, right)
	case types.OpNotEquals:
		return c.NotEquals(left, right)
	case types.OpAnd:
		return c.And(left, right)
	case types.OpOr:
		return c.Or(left, right)
	case types.OpBitAnd:
		return c.BitAnd(left, right)
	case types.OpBitOr:
		return c.BitOr(left, right)
	case types.OpBitXor:
		return c.BitXor(left, right)
	case types.OpBitLeftShift:
		return c.BitLeftShift(left, right)
	case types.OpBitRightShift:
		return c.BitRightShift(left, right)
	case types.OpIn:
		return c.In(left, right)
	case types.OpNotIn:
		return c.NotIn(left, right)
	default:
		return nil, fmt.Errorf("unknown binary operator %q", op)
	}
}

// Unary applies the calculator method matching op.
func Unary(c Calculator, op types.Operator, operand types.Operand) (interface{}, error) {
	switch op {
	case types.OpNot:
		return c.Not(operand)
	case types.OpBitComplement:
		return c.BitComplement(operand)
	case types.OpNegate:
		return c.Negate(operand)
	default:
		return nil, fmt.Errorf("unknown unary operator %q", op)
	}
}

// Value is an already computed operand. It lets calculators be called
// outside the evaluator, and lets a function hand computed values back to
// a calculator.
type Value struct {
	V interface{}
}

// Evaluate returns the wrapped value.
func (v Value) Evaluate() (interface{}, error) {
	return v.V, nil
}

// Node returns a constant node holding the value.
func (v Value) Node() *types.Node {
	return types.Constant(v.V)
}

// Values wraps each argument in a Value.
func Values(vs ...interface{}) []types.Operand {
	out := make([]types.Operand, len(vs))
	for i, v := range vs {
		out[i] = Value{V: v}
	}
	return out
}
