// Package extarray provides list functions for gocalc formulas.
//
// Lists are written as "(1, 2, 3)" or "(1,)" in formulas and arrive in
// functions as []interface{}.
package extarray

import (
	"context"
	"math"
	"strings"

	"github.com/sandrolain/gocalc/pkg/ext/extutil"
	"github.com/sandrolain/gocalc/pkg/format"
	"github.com/sandrolain/gocalc/pkg/functions"
)

// maxRangeItems bounds the size of a list produced by Range.
const maxRangeItems = 100000

// All returns all extended list function definitions.
func All() []functions.Definition {
	return []functions.Definition{
		Count(),
		First(),
		Last(),
		Take(),
		Skip(),
		Reverse(),
		Distinct(),
		Flatten(),
		Range(),
		Join(),
		Union(),
		Intersection(),
		Difference(),
	}
}

// Count returns the definition for Count(list).
func Count() functions.Definition {
	return extutil.Define("Count", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, err := extutil.List("Count", args[0])
		if err != nil {
			return nil, err
		}
		return float64(len(arr)), nil
	})
}

// First returns the definition for First(list).
func First() functions.Definition {
	return extutil.Define("First", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, err := nonEmpty("First", args[0])
		if err != nil {
			return nil, err
		}
		return arr[0], nil
	})
}

// Last returns the definition for Last(list).
func Last() functions.Definition {
	return extutil.Define("Last", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, err := nonEmpty("Last", args[0])
		if err != nil {
			return nil, err
		}
		return arr[len(arr)-1], nil
	})
}

// Take returns the definition for Take(list, n): the first n items.
func Take() functions.Definition {
	return extutil.Define("Take", 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, n, err := listAndCount("Take", args)
		if err != nil {
			return nil, err
		}
		return copyOf(arr[:n]), nil
	})
}

// Skip returns the definition for Skip(list, n): all items after the first n.
func Skip() functions.Definition {
	return extutil.Define("Skip", 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, n, err := listAndCount("Skip", args)
		if err != nil {
			return nil, err
		}
		return copyOf(arr[n:]), nil
	})
}

// Reverse returns the definition for Reverse(list).
func Reverse() functions.Definition {
	return extutil.Define("Reverse", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, err := extutil.List("Reverse", args[0])
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(arr))
		for i, v := range arr {
			out[len(arr)-1-i] = v
		}
		return out, nil
	})
}

// Distinct returns the definition for Distinct(list), keeping the first
// occurrence of each value.
func Distinct() functions.Definition {
	return extutil.Define("Distinct", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, err := extutil.List("Distinct", args[0])
		if err != nil {
			return nil, err
		}
		return appendDistinct(make([]interface{}, 0, len(arr)), arr), nil
	})
}

// Flatten returns the definition for Flatten(list [, depth]).
// Without depth the list is flattened completely.
func Flatten() functions.Definition {
	return extutil.Define("Flatten", 1, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, err := extutil.List("Flatten", args[0])
		if err != nil {
			return nil, err
		}
		depth := -1
		if len(args) == 2 {
			d, err := extutil.Int("Flatten", args[1])
			if err != nil {
				return nil, err
			}
			if d < 0 {
				return nil, extutil.Invalid("Flatten", "depth must not be negative, got %d", d)
			}
			depth = d
		}
		return flatten(make([]interface{}, 0, len(arr)), arr, depth), nil
	})
}

func flatten(out, arr []interface{}, depth int) []interface{} {
	for _, item := range arr {
		if inner, ok := item.([]interface{}); ok && depth != 0 {
			next := depth - 1
			if depth < 0 {
				next = depth
			}
			out = flatten(out, inner, next)
			continue
		}
		out = append(out, item)
	}
	return out
}

// Range returns the definition for Range(start, end [, step]), the numbers
// from start up to and including end.
func Range() functions.Definition {
	return extutil.Define("Range", 2, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		start, err := extutil.Number("Range", args[0])
		if err != nil {
			return nil, err
		}
		end, err := extutil.Number("Range", args[1])
		if err != nil {
			return nil, err
		}
		step := 1.0
		if len(args) == 3 {
			if step, err = extutil.Number("Range", args[2]); err != nil {
				return nil, err
			}
			if step == 0 || math.IsNaN(step) {
				return nil, extutil.Invalid("Range", "step must be a non-zero number")
			}
		}
		result := []interface{}{}
		for i := 0; ; i++ {
			v := start + float64(i)*step
			if (step > 0 && v > end) || (step < 0 && v < end) || math.IsNaN(v) {
				break
			}
			if i >= maxRangeItems {
				return nil, extutil.Invalid("Range", "would produce more than %d items", maxRangeItems)
			}
			// Round away accumulated floating-point error.
			v = math.Round(v*1e10) / 1e10
			result = append(result, v)
		}
		return result, nil
	})
}

// Join returns the definition for Join(list [, separator]). Items that are
// not strings are rendered the way they would be displayed.
func Join() functions.Definition {
	return extutil.Define("Join", 1, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		arr, err := extutil.List("Join", args[0])
		if err != nil {
			return nil, err
		}
		sep := ""
		if len(args) == 2 {
			if sep, err = extutil.String("Join", args[1]); err != nil {
				return nil, err
			}
		}
		parts := make([]string, len(arr))
		for i, item := range arr {
			parts[i] = format.Value(item)
		}
		return strings.Join(parts, sep), nil
	})
}

// Union returns the definition for Union(list1, list2): the distinct items
// of both lists in order of first appearance.
func Union() functions.Definition {
	return setOp("Union", func(a, b []interface{}) []interface{} {
		out := appendDistinct(make([]interface{}, 0, len(a)+len(b)), a)
		return appendDistinct(out, b)
	})
}

// Intersection returns the definition for Intersection(list1, list2).
func Intersection() functions.Definition {
	return setOp("Intersection", func(a, b []interface{}) []interface{} {
		out := []interface{}{}
		for _, v := range a {
			if contains(b, v) && !contains(out, v) {
				out = append(out, v)
			}
		}
		return out
	})
}

// Difference returns the definition for Difference(list1, list2): the items
// of list1 not found in list2.
func Difference() functions.Definition {
	return setOp("Difference", func(a, b []interface{}) []interface{} {
		out := []interface{}{}
		for _, v := range a {
			if !contains(b, v) && !contains(out, v) {
				out = append(out, v)
			}
		}
		return out
	})
}

// ── helpers ────────────────────────────────────────────────────────────────

func setOp(name string, fn func(a, b []interface{}) []interface{}) functions.Definition {
	return extutil.Define(name, 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		a, err := extutil.List(name, args[0])
		if err != nil {
			return nil, err
		}
		b, err := extutil.List(name, args[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b), nil
	})
}

func nonEmpty(name string, v interface{}) ([]interface{}, error) {
	arr, err := extutil.List(name, v)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, extutil.Invalid(name, "list is empty")
	}
	return arr, nil
}

// listAndCount reads a list and an item count clamped to [0, len(list)].
func listAndCount(name string, args []interface{}) ([]interface{}, int, error) {
	arr, err := extutil.List(name, args[0])
	if err != nil {
		return nil, 0, err
	}
	n, err := extutil.Int(name, args[1])
	if err != nil {
		return nil, 0, err
	}
	if n < 0 {
		n = 0
	}
	if n > len(arr) {
		n = len(arr)
	}
	return arr, n, nil
}

func copyOf(arr []interface{}) []interface{} {
	out := make([]interface{}, len(arr))
	copy(out, arr)
	return out
}

func contains(arr []interface{}, v interface{}) bool {
	for _, item := range arr {
		if extutil.Equal(item, v) {
			return true
		}
	}
	return false
}

func appendDistinct(out, arr []interface{}) []interface{} {
	for _, v := range arr {
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
