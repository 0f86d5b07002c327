package functions

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/sandrolain/gocalc/pkg/types"
)

var (
	builtinFunctions     map[string]*Definition
	builtinFunctionsOnce sync.Once
)

// initBuiltinFunctions initializes the built-in function registry.
func initBuiltinFunctions() {
	builtinFunctionsOnce.Do(func() {
		builtinFunctions = map[string]*Definition{
			// Math functions
			"Abs":      unary("Abs", math.Abs),
			"Acos":     unary("Acos", math.Acos),
			"Asin":     unary("Asin", math.Asin),
			"Atan":     unary("Atan", math.Atan),
			"Ceiling":  unary("Ceiling", math.Ceil),
			"Cos":      unary("Cos", math.Cos),
			"Exp":      unary("Exp", math.Exp),
			"Floor":    unary("Floor", math.Floor),
			"Ln":       unary("Ln", math.Log),
			"Log10":    unary("Log10", math.Log10),
			"Sign":     unary("Sign", sign),
			"Sin":      unary("Sin", math.Sin),
			"Sqrt":     unary("Sqrt", math.Sqrt),
			"Tan":      unary("Tan", math.Tan),
			"Truncate": unary("Truncate", math.Trunc),

			"IEEERemainder": {Name: "IEEERemainder", MinArgs: 2, MaxArgs: 2, Fn: fnIEEERemainder},
			"Log":           {Name: "Log", MinArgs: 1, MaxArgs: 2, Fn: fnLog},
			"Pow":           {Name: "Pow", MinArgs: 2, MaxArgs: 2, Fn: fnPow},
			"Round":         {Name: "Round", MinArgs: 1, MaxArgs: 2, Fn: fnRound},
			"Max":           {Name: "Max", MinArgs: 1, MaxArgs: -1, Fn: fnMax},
			"Min":           {Name: "Min", MinArgs: 1, MaxArgs: -1, Fn: fnMin},

			// Conditional functions
			"if":  {Name: "if", MinArgs: 3, MaxArgs: 3, Fn: fnIf},
			"ifs": {Name: "ifs", MinArgs: 3, MaxArgs: -1, Fn: fnIfs},
		}
	})
}

// Lookup retrieves a built-in function by name.
func Lookup(name string) (*Definition, bool) {
	initBuiltinFunctions()
	fn, ok := builtinFunctions[name]
	return fn, ok
}

// IsBuiltin reports whether name is a built-in function.
func IsBuiltin(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Builtin returns the implementation of a built-in with its arity check,
// or nil. A caller-supplied function can use it to fall back to the
// built-in it shadows.
func Builtin(name string) Func {
	def, ok := Lookup(name)
	if !ok {
		return nil
	}
	return def.Call
}

// Names returns the sorted names of all built-in functions.
func Names() []string {
	initBuiltinFunctions()
	names := make([]string, 0, len(builtinFunctions))
	for name := range builtinFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// unary wraps a one-argument numeric function.
func unary(name string, fn func(float64) float64) *Definition {
	return &Definition{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(_ context.Context, args []types.Operand) (interface{}, error) {
			x, err := AsNumber(name, args[0])
			if err != nil {
				return nil, err
			}
			return fn(x), nil
		},
	}
}

// --- Math Functions ---

func fnIEEERemainder(_ context.Context, args []types.Operand) (interface{}, error) {
	x, err := AsNumber("IEEERemainder", args[0])
	if err != nil {
		return nil, err
	}
	y, err := AsNumber("IEEERemainder", args[1])
	if err != nil {
		return nil, err
	}
	return x - y*Round(x/y), nil
}

// fnLog is the natural logarithm, or the logarithm in the given base.
func fnLog(_ context.Context, args []types.Operand) (interface{}, error) {
	x, err := AsNumber("Log", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return math.Log(x), nil
	}
	base, err := AsNumber("Log", args[1])
	if err != nil {
		return nil, err
	}
	return math.Log(x) / math.Log(base), nil
}

func fnPow(_ context.Context, args []types.Operand) (interface{}, error) {
	x, err := AsNumber("Pow", args[0])
	if err != nil {
		return nil, err
	}
	y, err := AsNumber("Pow", args[1])
	if err != nil {
		return nil, err
	}
	return math.Pow(x, y), nil
}

func fnRound(_ context.Context, args []types.Operand) (interface{}, error) {
	x, err := AsNumber("Round", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return Round(x), nil
	}
	digits, err := AsNumber("Round", args[1])
	if err != nil {
		return nil, err
	}
	factor := math.Pow(10, digits)
	return Round(x*factor) / factor, nil
}

func fnMax(_ context.Context, args []types.Operand) (interface{}, error) {
	return extreme("Max", args, math.Max)
}

func fnMin(_ context.Context, args []types.Operand) (interface{}, error) {
	return extreme("Min", args, math.Min)
}

func extreme(name string, args []types.Operand, pick func(x, y float64) float64) (interface{}, error) {
	result, err := AsNumber(name, args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		x, err := AsNumber(name, arg)
		if err != nil {
			return nil, err
		}
		result = pick(result, x)
	}
	return result, nil
}

// Round rounds half toward positive infinity: Round(2.5) is 3 and
// Round(-2.5) is -2.
func Round(x float64) float64 {
	r := math.Round(x)
	if x-r == 0.5 {
		r++
	}
	return r
}

// sign returns -1, 0 or 1; zero and NaN are returned unchanged.
func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return x
	}
}

// --- Conditional Functions ---

// fnIf evaluates the condition and then exactly one branch.
func fnIf(_ context.Context, args []types.Operand) (interface{}, error) {
	cond, err := AsBool("if", args[0])
	if err != nil {
		return nil, err
	}
	if cond {
		return args[1].Evaluate()
	}
	return args[2].Evaluate()
}

// fnIfs walks condition/value pairs and returns the value of the first true
// condition, or the trailing default.
func fnIfs(_ context.Context, args []types.Operand) (interface{}, error) {
	if len(args)%2 == 0 {
		return nil, types.NewError(types.ErrArityMismatch,
			"ifs expects condition/value pairs followed by a default value", -1).WithName("ifs")
	}

	last := len(args) - 1
	for i := 0; i < last; i += 2 {
		cond, err := AsBool("ifs", args[i])
		if err != nil {
			return nil, err
		}
		if cond {
			return args[i+1].Evaluate()
		}
	}
	return args[last].Evaluate()
}
