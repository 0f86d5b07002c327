// Package extnumeric provides numeric and statistical functions beyond the
// built-in math functions. Register them via evaluator.WithFunctions or
// via the top-level ext.WithNumeric() helper.
//
// The aggregate functions accept numbers, lists of numbers or a mix:
// Sum(1, 2, 3), Sum((1, 2, 3)) and Sum(1, (2, 3)) are all 6. An empty input
// sums to 0; the other aggregates return NaN for it.
package extnumeric

import (
	"context"
	"math"
	"sort"

	"github.com/sandrolain/gocalc/pkg/ext/extutil"
	"github.com/sandrolain/gocalc/pkg/functions"
)

// All returns all extended numeric function definitions.
func All() []functions.Definition {
	return []functions.Definition{
		Clamp(),
		Atan2(),
		Pi(),
		E(),
		Sum(),
		Average(),
		Median(),
		Variance(),
		StdDev(),
		Percentile(),
	}
}

// Clamp returns the definition for Clamp(x, min, max).
func Clamp() functions.Definition {
	return extutil.Define("Clamp", 3, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		nums, err := numberArgs("Clamp", args)
		if err != nil {
			return nil, err
		}
		x, lo, hi := nums[0], nums[1], nums[2]
		if lo > hi {
			return nil, extutil.Invalid("Clamp", "min %g is greater than max %g", lo, hi)
		}
		return math.Min(math.Max(x, lo), hi), nil
	})
}

// Atan2 returns the definition for Atan2(y, x).
func Atan2() functions.Definition {
	return extutil.Define("Atan2", 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		nums, err := numberArgs("Atan2", args)
		if err != nil {
			return nil, err
		}
		return math.Atan2(nums[0], nums[1]), nil
	})
}

// Pi returns the definition for Pi().
func Pi() functions.Definition {
	return constant("Pi", math.Pi)
}

// E returns the definition for E().
func E() functions.Definition {
	return constant("E", math.E)
}

// Sum returns the definition for Sum(values...).
func Sum() functions.Definition {
	return aggregate("Sum", func(nums []float64) float64 {
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total
	})
}

// Average returns the definition for Average(values...).
func Average() functions.Definition {
	return aggregate("Average", mean)
}

// Median returns the definition for Median(values...).
func Median() functions.Definition {
	return aggregate("Median", func(nums []float64) float64 {
		if len(nums) == 0 {
			return math.NaN()
		}
		sorted := sortedCopy(nums)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	})
}

// Variance returns the definition for Variance(values...), the population
// variance.
func Variance() functions.Definition {
	return aggregate("Variance", variance)
}

// StdDev returns the definition for StdDev(values...), the population
// standard deviation.
func StdDev() functions.Definition {
	return aggregate("StdDev", func(nums []float64) float64 {
		return math.Sqrt(variance(nums))
	})
}

// Percentile returns the definition for Percentile(list, p) with p in
// [0, 100], interpolating linearly between the closest ranks.
func Percentile() functions.Definition {
	return extutil.Define("Percentile", 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		nums, err := extutil.Numbers("Percentile", args[:1])
		if err != nil {
			return nil, err
		}
		p, err := extutil.Number("Percentile", args[1])
		if err != nil {
			return nil, err
		}
		if p < 0 || p > 100 {
			return nil, extutil.Invalid("Percentile", "p must be between 0 and 100, got %g", p)
		}
		if len(nums) == 0 {
			return math.NaN(), nil
		}
		sorted := sortedCopy(nums)
		idx := p / 100 * float64(len(sorted)-1)
		lo := int(math.Floor(idx))
		hi := int(math.Ceil(idx))
		if lo == hi {
			return sorted[lo], nil
		}
		frac := idx - float64(lo)
		return sorted[lo]*(1-frac) + sorted[hi]*frac, nil
	})
}

// ── helpers ────────────────────────────────────────────────────────────────

func constant(name string, v float64) functions.Definition {
	return extutil.Define(name, 0, 0, func(_ context.Context, _ ...interface{}) (interface{}, error) {
		return v, nil
	})
}

func aggregate(name string, fn func([]float64) float64) functions.Definition {
	return extutil.Define(name, 1, -1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		nums, err := extutil.Numbers(name, args)
		if err != nil {
			return nil, err
		}
		return fn(nums), nil
	})
}

func numberArgs(name string, args []interface{}) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, arg := range args {
		n, err := extutil.Number(name, arg)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	return nums, nil
}

func sortedCopy(nums []float64) []float64 {
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)
	return sorted
}

func mean(nums []float64) float64 {
	if len(nums) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums))
}

func variance(nums []float64) float64 {
	m := mean(nums)
	v := 0.0
	for _, n := range nums {
		diff := n - m
		v += diff * diff
	}
	return v / float64(len(nums))
}
