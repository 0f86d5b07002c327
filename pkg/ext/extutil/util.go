// Package extutil provides shared helpers for the ext sub-packages.
//
// The converters report a wrong argument type as an ErrTypeMismatch error
// naming the calling function.
package extutil

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/sandrolain/gocalc/pkg/calculator"
	"github.com/sandrolain/gocalc/pkg/functions"
	"github.com/sandrolain/gocalc/pkg/types"
)

// Define builds a definition whose function receives evaluated arguments.
func Define(name string, minArgs, maxArgs int, fn functions.CustomFunc) functions.Definition {
	return functions.Definition{
		Name:    name,
		MinArgs: minArgs,
		MaxArgs: maxArgs,
		Fn:      functions.Eager(fn),
	}
}

// Invalid reports an argument that has the right type but an unusable value.
func Invalid(fn, format string, args ...interface{}) error {
	return types.NewError(types.ErrTypeMismatch, fn+": "+fmt.Sprintf(format, args...), -1).WithName(fn)
}

// Number requires v to be a number.
func Number(fn string, v interface{}) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, functions.TypeMismatch(fn, "number", v)
	}
	return f, nil
}

// Int requires v to be a whole number.
func Int(fn string, v interface{}) (int, error) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, functions.TypeMismatch(fn, "whole number", v)
	}
	return int(f), nil
}

// String requires v to be a string.
func String(fn string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", functions.TypeMismatch(fn, "string", v)
	}
	return s, nil
}

// Date requires v to be a date.
func Date(fn string, v interface{}) (time.Time, error) {
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, functions.TypeMismatch(fn, "date", v)
	}
	return t, nil
}

// List requires v to be a list.
func List(fn string, v interface{}) ([]interface{}, error) {
	l, ok := v.([]interface{})
	if !ok {
		return nil, functions.TypeMismatch(fn, "list", v)
	}
	return l, nil
}

// Numbers collects numeric arguments; a list argument contributes each of
// its items, so Sum(1, 2) and Sum((1, 2)) agree.
func Numbers(fn string, args []interface{}) ([]float64, error) {
	var out []float64
	for _, arg := range args {
		if l, ok := arg.([]interface{}); ok {
			nums, err := Numbers(fn, l)
			if err != nil {
				return nil, err
			}
			out = append(out, nums...)
			continue
		}
		f, err := Number(fn, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Equal compares two runtime values the way the membership operators do.
func Equal(a, b interface{}) bool {
	if eq, ok := calculator.Equal(a, b); ok {
		return eq
	}
	if types.KindOf(a) != types.KindOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}
