// Package extstring provides string functions for gocalc formulas. Register
// them via evaluator.WithFunctions or via the top-level ext.WithString()
// helper.
//
// Positions and lengths count characters (runes), not bytes.
package extstring

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sandrolain/gocalc/pkg/ext/extutil"
	"github.com/sandrolain/gocalc/pkg/format"
	"github.com/sandrolain/gocalc/pkg/functions"
)

// All returns all extended string function definitions.
func All() []functions.Definition {
	return []functions.Definition{
		Len(),
		Upper(),
		Lower(),
		Title(),
		Trim(),
		Substring(),
		IndexOf(),
		StartsWith(),
		EndsWith(),
		Contains(),
		Replace(),
		Repeat(),
		Concat(),
	}
}

// Len returns the definition for Len(str).
func Len() functions.Definition {
	return extutil.Define("Len", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		s, err := extutil.String("Len", args[0])
		if err != nil {
			return nil, err
		}
		return float64(utf8.RuneCountInString(s)), nil
	})
}

// Upper returns the definition for Upper(str [, locale]).
func Upper() functions.Definition {
	return caser("Upper", cases.Upper)
}

// Lower returns the definition for Lower(str [, locale]).
func Lower() functions.Definition {
	return caser("Lower", cases.Lower)
}

// Title returns the definition for Title(str [, locale]), which capitalizes
// the first letter of every word.
func Title() functions.Definition {
	return caser("Title", cases.Title)
}

// Trim returns the definition for Trim(str), which strips leading and
// trailing white space.
func Trim() functions.Definition {
	return extutil.Define("Trim", 1, 1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		s, err := extutil.String("Trim", args[0])
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(s), nil
	})
}

// Substring returns the definition for Substring(str, start [, length]).
// start is 0-based; a negative start counts from the end.
func Substring() functions.Definition {
	return extutil.Define("Substring", 2, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		s, err := extutil.String("Substring", args[0])
		if err != nil {
			return nil, err
		}
		start, err := extutil.Int("Substring", args[1])
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		if start < 0 {
			start += len(runes)
		}
		start = clamp(start, 0, len(runes))
		end := len(runes)
		if len(args) == 3 {
			n, err := extutil.Int("Substring", args[2])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, extutil.Invalid("Substring", "length must not be negative, got %d", n)
			}
			end = clamp(start+n, start, len(runes))
		}
		return string(runes[start:end]), nil
	})
}

// IndexOf returns the definition for IndexOf(str, search), the character
// position of the first match or -1.
func IndexOf() functions.Definition {
	return extutil.Define("IndexOf", 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		s, search, err := twoStrings("IndexOf", args)
		if err != nil {
			return nil, err
		}
		idx := strings.Index(s, search)
		if idx < 0 {
			return float64(-1), nil
		}
		return float64(utf8.RuneCountInString(s[:idx])), nil
	})
}

// StartsWith returns the definition for StartsWith(str, prefix).
func StartsWith() functions.Definition {
	return stringPredicate("StartsWith", strings.HasPrefix)
}

// EndsWith returns the definition for EndsWith(str, suffix).
func EndsWith() functions.Definition {
	return stringPredicate("EndsWith", strings.HasSuffix)
}

// Contains returns the definition for Contains(str, substr).
func Contains() functions.Definition {
	return stringPredicate("Contains", strings.Contains)
}

// Replace returns the definition for Replace(str, old, new), replacing every
// occurrence of old.
func Replace() functions.Definition {
	return extutil.Define("Replace", 3, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		s, old, err := twoStrings("Replace", args)
		if err != nil {
			return nil, err
		}
		repl, err := extutil.String("Replace", args[2])
		if err != nil {
			return nil, err
		}
		if old == "" {
			return s, nil
		}
		return strings.ReplaceAll(s, old, repl), nil
	})
}

// Repeat returns the definition for Repeat(str, count).
func Repeat() functions.Definition {
	return extutil.Define("Repeat", 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		s, err := extutil.String("Repeat", args[0])
		if err != nil {
			return nil, err
		}
		n, err := extutil.Int("Repeat", args[1])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, extutil.Invalid("Repeat", "count must not be negative, got %d", n)
		}
		return strings.Repeat(s, n), nil
	})
}

// Concat returns the definition for Concat(values...). Values that are not
// strings are rendered the way they would be displayed.
func Concat() functions.Definition {
	return extutil.Define("Concat", 1, -1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		var sb strings.Builder
		for _, arg := range args {
			sb.WriteString(format.Value(arg))
		}
		return sb.String(), nil
	})
}

// ── helpers ────────────────────────────────────────────────────────────────

func caser(name string, mk func(language.Tag, ...cases.Option) cases.Caser) functions.Definition {
	return extutil.Define(name, 1, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		s, err := extutil.String(name, args[0])
		if err != nil {
			return nil, err
		}
		tag := language.Und
		if len(args) == 2 {
			loc, err := extutil.String(name, args[1])
			if err != nil {
				return nil, err
			}
			if tag, err = language.Parse(loc); err != nil {
				return nil, extutil.Invalid(name, "unknown locale %q", loc)
			}
		}
		return mk(tag).String(s), nil
	})
}

func stringPredicate(name string, fn func(s, sub string) bool) functions.Definition {
	return extutil.Define(name, 2, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		s, sub, err := twoStrings(name, args)
		if err != nil {
			return nil, err
		}
		return fn(s, sub), nil
	})
}

func twoStrings(name string, args []interface{}) (string, string, error) {
	a, err := extutil.String(name, args[0])
	if err != nil {
		return "", "", err
	}
	b, err := extutil.String(name, args[1])
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
