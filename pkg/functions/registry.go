// Package functions provides the function types of gocalc and its
// built-in function table.
//
// Functions receive their arguments as lazy operands, so a function such as
// "if" evaluates only the branch it needs. Most functions just want values;
// wrap those with Eager:
//
//	double := functions.Definition{
//	    Name:    "Double",
//	    MinArgs: 1,
//	    MaxArgs: 1,
//	    Fn: functions.Eager(func(ctx context.Context, args ...interface{}) (interface{}, error) {
//	        return args[0].(float64) * 2, nil
//	    }),
//	}
package functions

import (
	"context"
	"fmt"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Func is the signature of functions callable from formulas.
// args holds one unevaluated operand per argument, in call order.
type Func func(ctx context.Context, args []types.Operand) (interface{}, error)

// CustomFunc is the signature for functions that take evaluated arguments.
type CustomFunc func(ctx context.Context, args ...interface{}) (interface{}, error)

// Eager adapts fn to Func. Arguments are evaluated left to right before fn
// is called; the first failing argument aborts the call.
func Eager(fn CustomFunc) Func {
	return func(ctx context.Context, args []types.Operand) (interface{}, error) {
		values := make([]interface{}, len(args))
		for i, arg := range args {
			v, err := arg.Evaluate()
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return fn(ctx, values...)
	}
}

// Definition describes a named function together with its arity bounds.
type Definition struct {
	// Name is the function name as it appears inside formulas (case-sensitive).
	Name string
	// MinArgs is the minimum number of arguments.
	MinArgs int
	// MaxArgs is the maximum number of arguments, -1 for unlimited.
	MaxArgs int
	// Fn is the implementation.
	Fn Func
}

// CheckArity reports an ErrArityMismatch error when n arguments do not fit
// the definition's bounds.
func (d *Definition) CheckArity(n int) error {
	if n >= d.MinArgs && (d.MaxArgs < 0 || n <= d.MaxArgs) {
		return nil
	}

	var want string
	switch {
	case d.MaxArgs < 0:
		want = fmt.Sprintf("at least %d", d.MinArgs)
	case d.MinArgs == d.MaxArgs:
		want = fmt.Sprintf("%d", d.MinArgs)
	default:
		want = fmt.Sprintf("%d to %d", d.MinArgs, d.MaxArgs)
	}
	return types.NewError(types.ErrArityMismatch,
		fmt.Sprintf("%s expects %s arguments, got %d", d.Name, want, n), -1).WithName(d.Name)
}

// Call checks the arity and invokes the function.
func (d *Definition) Call(ctx context.Context, args []types.Operand) (interface{}, error) {
	if err := d.CheckArity(len(args)); err != nil {
		return nil, err
	}
	return d.Fn(ctx, args)
}

// Variadic returns a definition without arity bounds.
func Variadic(name string, fn Func) Definition {
	return Definition{Name: name, MinArgs: 0, MaxArgs: -1, Fn: fn}
}

// AsNumber evaluates arg and requires a number.
// fn names the calling function in the error.
func AsNumber(fn string, arg types.Operand) (float64, error) {
	v, err := arg.Evaluate()
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, typeMismatch(fn, "number", v)
	}
	return f, nil
}

// AsBool evaluates arg and requires a boolean.
func AsBool(fn string, arg types.Operand) (bool, error) {
	v, err := arg.Evaluate()
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeMismatch(fn, "boolean", v)
	}
	return b, nil
}

// TypeMismatch reports an argument of the wrong type.
func TypeMismatch(fn, want string, got interface{}) error {
	return typeMismatch(fn, want, got)
}

func typeMismatch(fn, want string, got interface{}) *types.Error {
	return types.NewError(types.ErrTypeMismatch,
		fmt.Sprintf("%s expected %s, got %s", fn, want, types.TypeName(got)), -1).WithName(fn)
}
