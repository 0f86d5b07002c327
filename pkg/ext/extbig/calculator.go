package extbig

import (
	"math/big"

	"github.com/sandrolain/gocalc/pkg/calculator"
	"github.com/sandrolain/gocalc/pkg/types"
)

// Calculator applies exact arithmetic and ordering to rationals. Operators
// it does not override, and operands that are not rationals, are handled by
// the embedded calculator.Default on float64 values.
type Calculator struct {
	calculator.Default
}

var _ calculator.Calculator = Calculator{}

func (c Calculator) Add(left, right types.Operand) (interface{}, error) {
	return c.arith(left, right, (*big.Rat).Add, c.Default.Add)
}

func (c Calculator) Sub(left, right types.Operand) (interface{}, error) {
	return c.arith(left, right, (*big.Rat).Sub, c.Default.Sub)
}

func (c Calculator) Mul(left, right types.Operand) (interface{}, error) {
	return c.arith(left, right, (*big.Rat).Mul, c.Default.Mul)
}

func (c Calculator) Div(left, right types.Operand) (interface{}, error) {
	a, b, ok, err := numbers(left, right)
	if err != nil {
		return nil, err
	}
	if !ok || b.Sign() == 0 {
		return c.Default.Div(floatPair(left, right))
	}
	return new(big.Rat).Quo(a, b), nil
}

// Modulus keeps the sign of the dividend, like math.Mod.
func (c Calculator) Modulus(left, right types.Operand) (interface{}, error) {
	a, b, ok, err := numbers(left, right)
	if err != nil {
		return nil, err
	}
	if !ok || b.Sign() == 0 {
		return c.Default.Modulus(floatPair(left, right))
	}
	q := new(big.Rat).Quo(a, b)
	// Truncate the quotient toward zero.
	t := new(big.Int).Quo(q.Num(), q.Denom())
	return new(big.Rat).Sub(a, new(big.Rat).Mul(b, new(big.Rat).SetInt(t))), nil
}

// Exponentiation is exact for integer exponents up to maxExponent in size.
func (c Calculator) Exponentiation(left, right types.Operand) (interface{}, error) {
	a, b, ok, err := numbers(left, right)
	if err != nil {
		return nil, err
	}
	if !ok || !b.IsInt() || !b.Num().IsInt64() {
		return c.Default.Exponentiation(floatPair(left, right))
	}
	n := b.Num().Int64()
	if n > maxExponent || n < -maxExponent || (n < 0 && a.Sign() == 0) {
		return c.Default.Exponentiation(floatPair(left, right))
	}
	return pow(a, n), nil
}

func (c Calculator) MoreThan(left, right types.Operand) (interface{}, error) {
	return c.compare(left, right, func(n int) bool { return n > 0 }, c.Default.MoreThan)
}

func (c Calculator) LessThan(left, right types.Operand) (interface{}, error) {
	return c.compare(left, right, func(n int) bool { return n < 0 }, c.Default.LessThan)
}

func (c Calculator) MoreThanEqual(left, right types.Operand) (interface{}, error) {
	return c.compare(left, right, func(n int) bool { return n >= 0 }, c.Default.MoreThanEqual)
}

func (c Calculator) LessThanEqual(left, right types.Operand) (interface{}, error) {
	return c.compare(left, right, func(n int) bool { return n <= 0 }, c.Default.LessThanEqual)
}

func (c Calculator) Equals(left, right types.Operand) (interface{}, error) {
	return c.compare(left, right, func(n int) bool { return n == 0 }, c.Default.Equals)
}

func (c Calculator) NotEquals(left, right types.Operand) (interface{}, error) {
	return c.compare(left, right, func(n int) bool { return n != 0 }, c.Default.NotEquals)
}

// In compares numbers in a list by value, so 2 is found in (1, 2.0).
func (c Calculator) In(left, right types.Operand) (interface{}, error) {
	found, ok, err := member(left, right)
	if err != nil || !ok {
		return c.Default.In(left, right)
	}
	return found, nil
}

func (c Calculator) NotIn(left, right types.Operand) (interface{}, error) {
	found, ok, err := member(left, right)
	if err != nil || !ok {
		return c.Default.NotIn(left, right)
	}
	return !found, nil
}

func (c Calculator) BitAnd(left, right types.Operand) (interface{}, error) {
	return c.Default.BitAnd(floatPair(left, right))
}

func (c Calculator) BitOr(left, right types.Operand) (interface{}, error) {
	return c.Default.BitOr(floatPair(left, right))
}

func (c Calculator) BitXor(left, right types.Operand) (interface{}, error) {
	return c.Default.BitXor(floatPair(left, right))
}

func (c Calculator) BitLeftShift(left, right types.Operand) (interface{}, error) {
	return c.Default.BitLeftShift(floatPair(left, right))
}

func (c Calculator) BitRightShift(left, right types.Operand) (interface{}, error) {
	return c.Default.BitRightShift(floatPair(left, right))
}

func (c Calculator) BitComplement(operand types.Operand) (interface{}, error) {
	return c.Default.BitComplement(floats(operand)[0])
}

func (c Calculator) Negate(operand types.Operand) (interface{}, error) {
	v, err := operand.Evaluate()
	if err != nil {
		return nil, err
	}
	if r, ok := v.(*big.Rat); ok && r != nil {
		return new(big.Rat).Neg(r), nil
	}
	return c.Default.Negate(operand)
}

type binaryFunc func(left, right types.Operand) (interface{}, error)

func (c Calculator) arith(left, right types.Operand, op func(z, x, y *big.Rat) *big.Rat, fallback binaryFunc) (interface{}, error) {
	a, b, ok, err := numbers(left, right)
	if err != nil {
		return nil, err
	}
	if !ok {
		return fallback(floatPair(left, right))
	}
	return op(new(big.Rat), a, b), nil
}

func (c Calculator) compare(left, right types.Operand, test func(int) bool, fallback binaryFunc) (interface{}, error) {
	a, b, ok, err := numbers(left, right)
	if err != nil {
		return nil, err
	}
	if !ok {
		return fallback(floatPair(left, right))
	}
	return test(a.Cmp(b)), nil
}

// member looks a numeric needle up in a list. ok is false when the
// operands are not a number and a list.
func member(left, right types.Operand) (found, ok bool, err error) {
	needle, err := left.Evaluate()
	if err != nil {
		return false, false, err
	}
	haystack, err := right.Evaluate()
	if err != nil {
		return false, false, err
	}
	n, isNum := ToRat(needle)
	list, isList := haystack.([]interface{})
	if !isNum || !isList {
		return false, false, nil
	}
	for _, item := range list {
		if r, ok := ToRat(item); ok && r.Cmp(n) == 0 {
			return true, true, nil
		}
	}
	return false, true, nil
}

func floatPair(left, right types.Operand) (types.Operand, types.Operand) {
	ops := floats(left, right)
	return ops[0], ops[1]
}

func pow(x *big.Rat, n int64) *big.Rat {
	neg := n < 0
	if neg {
		n = -n
	}
	num := new(big.Int).Exp(x.Num(), big.NewInt(n), nil)
	den := new(big.Int).Exp(x.Denom(), big.NewInt(n), nil)
	if neg {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den)
}
