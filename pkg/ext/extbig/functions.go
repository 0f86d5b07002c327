package extbig

import (
	"context"
	"math/big"

	"github.com/sandrolain/gocalc/pkg/functions"
	"github.com/sandrolain/gocalc/pkg/types"
)

var half = big.NewRat(1, 2)

// Functions returns rational-aware replacements for the built-in math
// functions. Abs, Ceiling, Floor, Max, Min, Round, Sign and Truncate are
// exact on rationals; the others convert rationals to float64 first.
// "if" and "ifs" pass values through untouched and are not replaced.
func Functions() []functions.Definition {
	exact := map[string]functions.Func{
		"Abs":      unaryExact("Abs", func(r *big.Rat) *big.Rat { return new(big.Rat).Abs(r) }),
		"Ceiling":  unaryExact("Ceiling", ceil),
		"Floor":    unaryExact("Floor", floor),
		"Truncate": unaryExact("Truncate", trunc),
		"Sign":     unaryExact("Sign", func(r *big.Rat) *big.Rat { return big.NewRat(int64(r.Sign()), 1) }),
		"Round":    round,
		"Max":      extreme("Max", func(n int) bool { return n > 0 }),
		"Min":      extreme("Min", func(n int) bool { return n < 0 }),
	}

	var defs []functions.Definition
	for _, name := range functions.Names() {
		if name == "if" || name == "ifs" {
			continue
		}
		builtin, _ := functions.Lookup(name)
		def := *builtin
		if fn, ok := exact[name]; ok {
			def.Fn = fn
		} else {
			def.Fn = viaFloat(builtin.Fn)
		}
		defs = append(defs, def)
	}
	return defs
}

func viaFloat(fn functions.Func) functions.Func {
	return func(ctx context.Context, args []types.Operand) (interface{}, error) {
		return fn(ctx, floats(args...))
	}
}

// unaryExact applies fn to a rational argument and defers to the built-in
// for any other value.
func unaryExact(name string, fn func(*big.Rat) *big.Rat) functions.Func {
	builtin := functions.Builtin(name)
	return func(ctx context.Context, args []types.Operand) (interface{}, error) {
		v, err := args[0].Evaluate()
		if err != nil {
			return nil, err
		}
		if r, ok := v.(*big.Rat); ok && r != nil {
			return fn(r), nil
		}
		return builtin(ctx, args)
	}
}

func round(ctx context.Context, args []types.Operand) (interface{}, error) {
	values, anyRat, err := evaluate(args)
	if err != nil {
		return nil, err
	}
	if !anyRat {
		return functions.Builtin("Round")(ctx, args)
	}
	x, ok := ToRat(values[0])
	if !ok {
		return nil, functions.TypeMismatch("Round", "number", values[0])
	}
	digits := int64(0)
	if len(values) == 2 {
		d, ok := ToRat(values[1])
		if !ok || !d.IsInt() || !d.Num().IsInt64() {
			return nil, functions.TypeMismatch("Round", "whole number", values[1])
		}
		digits = d.Num().Int64()
		if digits > maxExponent || digits < -maxExponent {
			return nil, functions.TypeMismatch("Round", "digit count", values[1])
		}
	}
	scale := pow(big.NewRat(10, 1), digits)
	scaled := new(big.Rat).Mul(x, scale)
	// Halves round up, as in the built-in Round.
	r := floor(scaled.Add(scaled, half))
	return r.Quo(r, scale), nil
}

func extreme(name string, better func(int) bool) functions.Func {
	builtin := functions.Builtin(name)
	return func(ctx context.Context, args []types.Operand) (interface{}, error) {
		values, anyRat, err := evaluate(args)
		if err != nil {
			return nil, err
		}
		if !anyRat {
			return builtin(ctx, args)
		}
		var best *big.Rat
		for _, v := range values {
			r, ok := ToRat(v)
			if !ok {
				return nil, functions.TypeMismatch(name, "number", v)
			}
			if best == nil || better(r.Cmp(best)) {
				best = r
			}
		}
		return best, nil
	}
}

// evaluate evaluates every argument and reports whether any is a rational.
func evaluate(args []types.Operand) ([]interface{}, bool, error) {
	values := make([]interface{}, len(args))
	anyRat := false
	for i, arg := range args {
		v, err := arg.Evaluate()
		if err != nil {
			return nil, false, err
		}
		if _, ok := v.(*big.Rat); ok {
			anyRat = true
		}
		values[i] = v
	}
	return values, anyRat, nil
}

func trunc(r *big.Rat) *big.Rat {
	return new(big.Rat).SetInt(new(big.Int).Quo(r.Num(), r.Denom()))
}

func floor(r *big.Rat) *big.Rat {
	// Int.Div rounds toward negative infinity for a positive divisor.
	return new(big.Rat).SetInt(new(big.Int).Div(r.Num(), r.Denom()))
}

func ceil(r *big.Rat) *big.Rat {
	f := floor(r)
	if f.Cmp(r) != 0 {
		f.Add(f, big.NewRat(1, 1))
	}
	return f
}
