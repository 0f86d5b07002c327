package calculator

import (
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Default implements the built-in operator semantics.
//
//   - Arithmetic works on numbers; "+" also concatenates two strings.
//   - Ordering works on numbers and on dates.
//   - Equality works on numbers, strings, booleans and dates.
//   - Logical operators take booleans and short-circuit.
//   - Bitwise operators truncate numbers to 32-bit integers.
//   - Membership tests a list element or a substring.
type Default struct{}

var _ Calculator = Default{}

// Ternary evaluates the condition, then exactly one branch.
func (Default) Ternary(cond, middle, right types.Operand) (interface{}, error) {
	c, err := cond.Evaluate()
	if err != nil {
		return nil, err
	}
	b, ok := c.(bool)
	if !ok {
		return nil, types.Unsupported(types.OpTernary, c)
	}
	if b {
		return middle.Evaluate()
	}
	return right.Evaluate()
}

func (Default) Add(left, right types.Operand) (interface{}, error) {
	a, b, err := evalBoth(left, right)
	if err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			return x + y, nil
		}
	case string:
		if y, ok := b.(string); ok {
			return x + y, nil
		}
	}
	return nil, types.Unsupported(types.OpAddition, a, b)
}

func (Default) Sub(left, right types.Operand) (interface{}, error) {
	return arithmetic(types.OpSubtraction, left, right, func(x, y float64) float64 { return x - y })
}

func (Default) Mul(left, right types.Operand) (interface{}, error) {
	return arithmetic(types.OpMultiplication, left, right, func(x, y float64) float64 { return x * y })
}

// Div follows IEEE 754: dividing by zero yields ±Inf or NaN.
func (Default) Div(left, right types.Operand) (interface{}, error) {
	return arithmetic(types.OpDivision, left, right, func(x, y float64) float64 { return x / y })
}

// Modulus keeps the sign of the dividend.
func (Default) Modulus(left, right types.Operand) (interface{}, error) {
	return arithmetic(types.OpModulus, left, right, math.Mod)
}

func (Default) Exponentiation(left, right types.Operand) (interface{}, error) {
	return arithmetic(types.OpExponentiation, left, right, math.Pow)
}

func (Default) MoreThan(left, right types.Operand) (interface{}, error) {
	return order(types.OpMoreThan, left, right, func(x, y float64) bool { return x > y })
}

func (Default) LessThan(left, right types.Operand) (interface{}, error) {
	return order(types.OpLessThan, left, right, func(x, y float64) bool { return x < y })
}

func (Default) MoreThanEqual(left, right types.Operand) (interface{}, error) {
	return order(types.OpMoreThanEqual, left, right, func(x, y float64) bool { return x >= y })
}

func (Default) LessThanEqual(left, right types.Operand) (interface{}, error) {
	return order(types.OpLessThanEqual, left, right, func(x, y float64) bool { return x <= y })
}

func (Default) Equals(left, right types.Operand) (interface{}, error) {
	a, b, err := evalBoth(left, right)
	if err != nil {
		return nil, err
	}
	eq, ok := Equal(a, b)
	if !ok {
		return nil, types.Unsupported(types.OpEquals, a, b)
	}
	return eq, nil
}

func (Default) NotEquals(left, right types.Operand) (interface{}, error) {
	a, b, err := evalBoth(left, right)
	if err != nil {
		return nil, err
	}
	eq, ok := Equal(a, b)
	if !ok {
		return nil, types.Unsupported(types.OpNotEquals, a, b)
	}
	return !eq, nil
}

// And evaluates right only when left is true.
func (Default) And(left, right types.Operand) (interface{}, error) {
	return logical(types.OpAnd, left, right, false)
}

// Or evaluates right only when left is false.
func (Default) Or(left, right types.Operand) (interface{}, error) {
	return logical(types.OpOr, left, right, true)
}

func (Default) BitAnd(left, right types.Operand) (interface{}, error) {
	return bitwise(types.OpBitAnd, left, right, func(x, y int32) int32 { return x & y })
}

func (Default) BitOr(left, right types.Operand) (interface{}, error) {
	return bitwise(types.OpBitOr, left, right, func(x, y int32) int32 { return x | y })
}

func (Default) BitXor(left, right types.Operand) (interface{}, error) {
	return bitwise(types.OpBitXor, left, right, func(x, y int32) int32 { return x ^ y })
}

// BitLeftShift uses the low five bits of the shift count.
func (Default) BitLeftShift(left, right types.Operand) (interface{}, error) {
	return bitwise(types.OpBitLeftShift, left, right, func(x, y int32) int32 { return x << (uint32(y) & 31) })
}

// BitRightShift is an arithmetic (sign-propagating) shift.
func (Default) BitRightShift(left, right types.Operand) (interface{}, error) {
	return bitwise(types.OpBitRightShift, left, right, func(x, y int32) int32 { return x >> (uint32(y) & 31) })
}

func (Default) In(left, right types.Operand) (interface{}, error) {
	a, b, err := evalBoth(left, right)
	if err != nil {
		return nil, err
	}
	return contains(types.OpIn, a, b)
}

func (Default) NotIn(left, right types.Operand) (interface{}, error) {
	a, b, err := evalBoth(left, right)
	if err != nil {
		return nil, err
	}
	found, err := contains(types.OpNotIn, a, b)
	if err != nil {
		return nil, err
	}
	return !found, nil
}

func (Default) Not(operand types.Operand) (interface{}, error) {
	v, err := operand.Evaluate()
	if err != nil {
		return nil, err
	}
	b, ok := v.(bool)
	if !ok {
		return nil, types.Unsupported(types.OpNot, v)
	}
	return !b, nil
}

func (Default) BitComplement(operand types.Operand) (interface{}, error) {
	v, err := operand.Evaluate()
	if err != nil {
		return nil, err
	}
	x, ok := v.(float64)
	if !ok {
		return nil, types.Unsupported(types.OpBitComplement, v)
	}
	return float64(^ToInt32(x)), nil
}

func (Default) Negate(operand types.Operand) (interface{}, error) {
	v, err := operand.Evaluate()
	if err != nil {
		return nil, err
	}
	x, ok := v.(float64)
	if !ok {
		return nil, types.Unsupported(types.OpNegate, v)
	}
	return -x, nil
}

// Equal compares two values of the default kinds.
// ok is false when the values are of different or unsupported kinds.
func Equal(a, b interface{}) (equal, ok bool) {
	switch x := a.(type) {
	case float64:
		if y, isNum := b.(float64); isNum {
			return x == y, true
		}
	case string:
		if y, isStr := b.(string); isStr {
			return x == y, true
		}
	case bool:
		if y, isBool := b.(bool); isBool {
			return x == y, true
		}
	case time.Time:
		if y, isDate := b.(time.Time); isDate {
			return x.Equal(y), true
		}
	}
	return false, false
}

// ToInt32 converts a number to a 32-bit integer the way bitwise operators
// see it: truncated toward zero and wrapped modulo 2^32. NaN and ±Inf become 0.
func ToInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Mod(math.Trunc(f), 1<<32)
	return int32(uint32(int64(t)))
}

func evalBoth(left, right types.Operand) (interface{}, interface{}, error) {
	a, err := left.Evaluate()
	if err != nil {
		return nil, nil, err
	}
	b, err := right.Evaluate()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func arithmetic(op types.Operator, left, right types.Operand, fn func(x, y float64) float64) (interface{}, error) {
	a, b, err := evalBoth(left, right)
	if err != nil {
		return nil, err
	}
	x, xok := a.(float64)
	y, yok := b.(float64)
	if !xok || !yok {
		return nil, types.Unsupported(op, a, b)
	}
	return fn(x, y), nil
}

// order compares two numbers, or two dates by instant.
func order(op types.Operator, left, right types.Operand, fn func(x, y float64) bool) (interface{}, error) {
	a, b, err := evalBoth(left, right)
	if err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			return fn(x, y), nil
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return fn(float64(x.Compare(y)), 0), nil
		}
	}
	return nil, types.Unsupported(op, a, b)
}

func logical(op types.Operator, left, right types.Operand, shortCircuitOn bool) (interface{}, error) {
	a, err := left.Evaluate()
	if err != nil {
		return nil, err
	}
	x, ok := a.(bool)
	if !ok {
		return nil, types.Unsupported(op, a)
	}
	if x == shortCircuitOn {
		return x, nil
	}

	b, err := right.Evaluate()
	if err != nil {
		return nil, err
	}
	y, ok := b.(bool)
	if !ok {
		return nil, types.Unsupported(op, a, b)
	}
	return y, nil
}

func bitwise(op types.Operator, left, right types.Operand, fn func(x, y int32) int32) (interface{}, error) {
	a, b, err := evalBoth(left, right)
	if err != nil {
		return nil, err
	}
	x, xok := a.(float64)
	y, yok := b.(float64)
	if !xok || !yok {
		return nil, types.Unsupported(op, a, b)
	}
	return float64(fn(ToInt32(x), ToInt32(y))), nil
}

// contains tests list membership by element equality, or substring
// containment when both sides are strings.
func contains(op types.Operator, needle, haystack interface{}) (bool, error) {
	switch h := haystack.(type) {
	case []interface{}:
		for _, item := range h {
			if eq, ok := Equal(needle, item); ok {
				if eq {
					return true, nil
				}
				continue
			}
			if reflect.DeepEqual(needle, item) {
				return true, nil
			}
		}
		return false, nil
	case string:
		if s, ok := needle.(string); ok {
			return strings.Contains(h, s), nil
		}
	}
	return false, types.Unsupported(op, needle, haystack)
}
