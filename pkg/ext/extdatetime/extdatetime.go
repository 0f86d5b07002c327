// Package extdatetime provides date functions for gocalc formulas.
//
// Dates are time.Time values. Dates built here are in UTC, like the
// "#2024-01-31#" literals of the default literal factory.
package extdatetime

import (
	"context"
	"strings"
	"time"

	"github.com/sandrolain/gocalc/pkg/ext/extutil"
	"github.com/sandrolain/gocalc/pkg/functions"
)

// Clock returns the current time. Tests replace it.
var Clock = time.Now

// All returns all extended date function definitions.
func All() []functions.Definition {
	return []functions.Definition{
		Now(),
		Today(),
		Date(),
		Year(),
		Month(),
		Day(),
		Weekday(),
		DateAdd(),
		DateDiff(),
		FormatDate(),
	}
}

// Now returns the definition for Now().
func Now() functions.Definition {
	return extutil.Define("Now", 0, 0, func(_ context.Context, _ ...interface{}) (interface{}, error) {
		return Clock().UTC(), nil
	})
}

// Today returns the definition for Today(), the current date at midnight.
func Today() functions.Definition {
	return extutil.Define("Today", 0, 0, func(_ context.Context, _ ...interface{}) (interface{}, error) {
		return startOfDay(Clock().UTC()), nil
	})
}

// Date returns the definition for Date(year, month, day [, hour [, minute
// [, second]]]). Out-of-range parts roll over, so Date(2024, 13, 1) is
// 2025-01-01.
func Date() functions.Definition {
	return extutil.Define("Date", 3, 6, func(_ context.Context, args ...interface{}) (interface{}, error) {
		parts := [6]int{}
		for i, arg := range args {
			n, err := extutil.Int("Date", arg)
			if err != nil {
				return nil, err
			}
			parts[i] = n
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC), nil
	})
}

// Year returns the definition for Year(date).
func Year() functions.Definition {
	return component("Year", func(t time.Time) int { return t.Year() })
}

// Month returns the definition for Month(date), 1 to 12.
func Month() functions.Definition {
	return component("Month", func(t time.Time) int { return int(t.Month()) })
}

// Day returns the definition for Day(date), the day of the month.
func Day() functions.Definition {
	return component("Day", func(t time.Time) int { return t.Day() })
}

// Weekday returns the definition for Weekday(date), 0 for Sunday to 6.
func Weekday() functions.Definition {
	return component("Weekday", func(t time.Time) int { return int(t.Weekday()) })
}

// DateAdd returns the definition for DateAdd(date, amount [, unit]).
// The unit defaults to "day"; supported units are "year", "month", "day",
// "hour", "minute", "second" and "millisecond".
func DateAdd() functions.Definition {
	return extutil.Define("DateAdd", 2, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		t, err := extutil.Date("DateAdd", args[0])
		if err != nil {
			return nil, err
		}
		n, err := extutil.Int("DateAdd", args[1])
		if err != nil {
			return nil, err
		}
		unit, err := unitArg("DateAdd", args, 2)
		if err != nil {
			return nil, err
		}
		switch unit {
		case "year":
			return t.AddDate(n, 0, 0), nil
		case "month":
			return t.AddDate(0, n, 0), nil
		case "day":
			return t.AddDate(0, 0, n), nil
		case "hour":
			return t.Add(time.Duration(n) * time.Hour), nil
		case "minute":
			return t.Add(time.Duration(n) * time.Minute), nil
		case "second":
			return t.Add(time.Duration(n) * time.Second), nil
		case "millisecond":
			return t.Add(time.Duration(n) * time.Millisecond), nil
		default:
			return nil, extutil.Invalid("DateAdd", "unsupported unit %q", unit)
		}
	})
}

// DateDiff returns the definition for DateDiff(from, to [, unit]), the number
// of whole units from from to to. The unit defaults to "day".
func DateDiff() functions.Definition {
	return extutil.Define("DateDiff", 2, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		from, err := extutil.Date("DateDiff", args[0])
		if err != nil {
			return nil, err
		}
		to, err := extutil.Date("DateDiff", args[1])
		if err != nil {
			return nil, err
		}
		unit, err := unitArg("DateDiff", args, 2)
		if err != nil {
			return nil, err
		}
		d := to.Sub(from)
		switch unit {
		case "millisecond":
			return float64(d.Milliseconds()), nil
		case "second":
			return float64(int64(d / time.Second)), nil
		case "minute":
			return float64(int64(d / time.Minute)), nil
		case "hour":
			return float64(int64(d / time.Hour)), nil
		case "day":
			return float64(int64(d / (24 * time.Hour))), nil
		case "month":
			return float64(monthsBetween(from, to)), nil
		case "year":
			return float64(monthsBetween(from, to) / 12), nil
		default:
			return nil, extutil.Invalid("DateDiff", "unsupported unit %q", unit)
		}
	})
}

// FormatDate returns the definition for FormatDate(date, layout). layout
// uses Go reference-time notation, as in "02/01/2006".
func FormatDate() functions.Definition {
	return extutil.Define("FormatDate", 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		t, err := extutil.Date("FormatDate", args[0])
		if err != nil {
			return nil, err
		}
		layout, err := extutil.String("FormatDate", args[1])
		if err != nil {
			return nil, err
		}
		return t.Format(layout), nil
	})
}

// ── helpers ────────────────────────────────────────────────────────────────

func component(name string, fn func(time.Time) int) functions.Definition {
	return extutil.Define(name, 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		t, err := extutil.Date(name, args[0])
		if err != nil {
			return nil, err
		}
		return float64(fn(t)), nil
	})
}

func unitArg(name string, args []interface{}, i int) (string, error) {
	if len(args) <= i {
		return "day", nil
	}
	unit, err := extutil.String(name, args[i])
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.ToLower(unit), "s"), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// monthsBetween counts whole calendar months from from to to, negative when
// to is earlier.
func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return -monthsBetween(to, from)
	}
	y1, m1, _ := from.Date()
	y2, m2, _ := to.Date()
	months := (y2-y1)*12 + int(m2) - int(m1)
	if months > 0 && from.AddDate(0, months, 0).After(to) {
		months--
	}
	return months
}
