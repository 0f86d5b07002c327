// Package exttypes provides type predicates and fallbacks for gocalc
// formulas.
//
// IsDefined and Default receive their argument unevaluated, so
// Default([discount], 0) yields 0 when no "discount" parameter was supplied
// instead of failing the whole evaluation.
package exttypes

import (
	"context"

	"github.com/sandrolain/gocalc/pkg/ext/extutil"
	"github.com/sandrolain/gocalc/pkg/functions"
	"github.com/sandrolain/gocalc/pkg/types"
)

// All returns all extended type function definitions.
func All() []functions.Definition {
	return []functions.Definition{
		IsNumber(),
		IsString(),
		IsBoolean(),
		IsDate(),
		IsList(),
		IsEmpty(),
		TypeOf(),
		IsDefined(),
		Default(),
	}
}

// IsNumber returns the definition for IsNumber(v).
func IsNumber() functions.Definition {
	return kindPredicate("IsNumber", types.KindNumber)
}

// IsString returns the definition for IsString(v).
func IsString() functions.Definition {
	return kindPredicate("IsString", types.KindString)
}

// IsBoolean returns the definition for IsBoolean(v).
func IsBoolean() functions.Definition {
	return kindPredicate("IsBoolean", types.KindBoolean)
}

// IsDate returns the definition for IsDate(v).
func IsDate() functions.Definition {
	return kindPredicate("IsDate", types.KindDate)
}

// IsList returns the definition for IsList(v).
func IsList() functions.Definition {
	return kindPredicate("IsList", types.KindList)
}

// IsEmpty returns the definition for IsEmpty(v): true for "", () and nil.
func IsEmpty() functions.Definition {
	return extutil.Define("IsEmpty", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		switch v := args[0].(type) {
		case nil:
			return true, nil
		case string:
			return v == "", nil
		case []interface{}:
			return len(v) == 0, nil
		default:
			return false, nil
		}
	})
}

// TypeOf returns the definition for TypeOf(v), the name of v's kind.
func TypeOf() functions.Definition {
	return extutil.Define("TypeOf", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		return types.TypeName(args[0]), nil
	})
}

// IsDefined returns the definition for IsDefined(expr). It is false when
// evaluating expr refers to a parameter that has no value; other errors
// propagate.
func IsDefined() functions.Definition {
	return functions.Definition{
		Name:    "IsDefined",
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(_ context.Context, args []types.Operand) (interface{}, error) {
			_, err := args[0].Evaluate()
			if err == nil {
				return true, nil
			}
			if types.IsCode(err, types.ErrUndefinedParameter) {
				return false, nil
			}
			return nil, err
		},
	}
}

// Default returns the definition for Default(expr, fallback). fallback is
// evaluated only when expr refers to an undefined parameter or yields nil.
func Default() functions.Definition {
	return functions.Definition{
		Name:    "Default",
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(_ context.Context, args []types.Operand) (interface{}, error) {
			v, err := args[0].Evaluate()
			switch {
			case err == nil && v != nil:
				return v, nil
			case err != nil && !types.IsCode(err, types.ErrUndefinedParameter):
				return nil, err
			}
			return args[1].Evaluate()
		},
	}
}

func kindPredicate(name string, kind types.Kind) functions.Definition {
	return extutil.Define(name, 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		return types.KindOf(args[0]) == kind, nil
	})
}
