// Package extbig evaluates formulas with exact rational arithmetic.
//
// Number literals become *big.Rat values, so "0.1 + 0.2 == 0.3" is true.
// Enable it with the evaluator options returned by Options:
//
//	ev := evaluator.New(extbig.Options()...)
//
// Rationals and float64 values mix freely: a float64 operand is converted
// to an exact rational first. Division by zero, fractional powers and
// bitwise operators fall back to float64 semantics.
package extbig

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

// DisplayPrecision is the number of fraction digits Format writes for
// rationals without a finite decimal expansion.
const DisplayPrecision = 10

// maxExponent bounds the decimal exponent of a literal parsed exactly.
const maxExponent = 4096

// Options returns the evaluator options for rational evaluation: the literal
// factory, the calculator and the rational overrides of the numeric
// built-ins.
func Options() []evaluator.EvalOption {
	return []evaluator.EvalOption{
		evaluator.WithLiteralFactory(Literals{}),
		evaluator.WithCalculator(Calculator{}),
		evaluator.WithFunctions(Functions()...),
	}
}

// Literals creates *big.Rat values for number literals and defers to
// parser.DefaultLiteralFactory for everything else.
type Literals struct {
	parser.DefaultLiteralFactory
}

// Create implements parser.LiteralFactory.
func (f Literals) Create(kind types.LiteralKind, text string) (interface{}, error) {
	if kind != types.LiteralNumber {
		return f.DefaultLiteralFactory.Create(kind, text)
	}
	if r, ok := ParseRat(text); ok {
		return r, nil
	}
	return parser.ParseNumber(text), nil
}

// ParseRat parses number literal text exactly.
func ParseRat(text string) (*big.Rat, bool) {
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		exp, err := strconv.Atoi(text[i+1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return nil, false
		}
	}
	return new(big.Rat).SetString(text)
}

// ToRat converts a numeric value to a rational. It reports false for
// non-numeric values and for NaN and ±Inf.
func ToRat(v interface{}) (*big.Rat, bool) {
	switch x := v.(type) {
	case *big.Rat:
		return x, x != nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(x), true
	default:
		return nil, false
	}
}

// ToFloat converts a numeric value to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case *big.Rat:
		if x == nil {
			return 0, false
		}
		f, _ := x.Float64()
		return f, true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// Format renders a rational as a decimal number, with at most
// DisplayPrecision fraction digits. It suits format.Printer.Literal.
func Format(v interface{}) (string, bool) {
	r, ok := v.(*big.Rat)
	if !ok || r == nil {
		return "", false
	}
	if r.IsInt() {
		return r.Num().String(), true
	}
	return ratToDecimal(r, DisplayPrecision), true
}

// ratToDecimal writes r with up to prec digits after the decimal point,
// truncating the rest.
func ratToDecimal(r *big.Rat, prec int) string {
	neg := r.Sign() < 0
	num := new(big.Int).Abs(r.Num())
	den := r.Denom()

	intPart, remainder := new(big.Int).QuoRem(num, den, new(big.Int))

	ten := big.NewInt(10)
	digit := new(big.Int)
	var digits []byte
	for i := 0; i < prec && remainder.Sign() != 0; i++ {
		remainder.Mul(remainder, ten)
		digit.QuoRem(remainder, den, remainder)
		digits = append(digits, byte('0'+digit.Int64()))
	}

	s := intPart.String()
	if frac := strings.TrimRight(string(digits), "0"); frac != "" {
		s += "." + frac
	}
	if neg && s != "0" {
		s = "-" + s
	}
	return s
}

// numbers evaluates both operands and converts them to rationals when both
// are numeric and at least one is a rational.
func numbers(left, right types.Operand) (a, b *big.Rat, ok bool, err error) {
	l, err := left.Evaluate()
	if err != nil {
		return nil, nil, false, err
	}
	r, err := right.Evaluate()
	if err != nil {
		return nil, nil, false, err
	}
	_, lr := l.(*big.Rat)
	_, rr := r.(*big.Rat)
	if !lr && !rr {
		return nil, nil, false, nil
	}
	a, okA := ToRat(l)
	b, okB := ToRat(r)
	return a, b, okA && okB, nil
}

// floats wraps operands so that rationals reach the embedded calculator as
// float64 values.
func floats(ops ...types.Operand) []types.Operand {
	out := make([]types.Operand, len(ops))
	for i, op := range ops {
		out[i] = floatOperand{op}
	}
	return out
}

type floatOperand struct {
	types.Operand
}

func (o floatOperand) Evaluate() (interface{}, error) {
	v, err := o.Operand.Evaluate()
	if err != nil {
		return nil, err
	}
	if r, ok := v.(*big.Rat); ok && r != nil {
		f, _ := r.Float64()
		return f, nil
	}
	return v, nil
}
