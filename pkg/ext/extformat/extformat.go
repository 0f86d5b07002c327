// Package extformat provides locale-aware number formatting and text
// templates for gocalc formulas.
//
// Locales are BCP 47 tags such as "en", "de-CH" or "it"; the default is
// "en".
package extformat

import (
	"context"
	"regexp"
	"strconv"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sandrolain/gocalc/pkg/ext/extutil"
	"github.com/sandrolain/gocalc/pkg/format"
	"github.com/sandrolain/gocalc/pkg/functions"
)

const defaultLocale = "en"

var placeholder = regexp.MustCompile(`\{(\d+)\}`)

// All returns all extended format function definitions.
func All() []functions.Definition {
	return []functions.Definition{
		FormatNumber(),
		FormatPercent(),
		FormatCurrency(),
		Template(),
	}
}

// FormatNumber returns the definition for FormatNumber(x [, decimals
// [, locale]]). Without decimals the number keeps its own fraction digits.
func FormatNumber() functions.Definition {
	return extutil.Define("FormatNumber", 1, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		x, err := extutil.Number("FormatNumber", args[0])
		if err != nil {
			return nil, err
		}
		var opts []number.Option
		if len(args) >= 2 {
			d, err := extutil.Int("FormatNumber", args[1])
			if err != nil {
				return nil, err
			}
			if d < 0 {
				return nil, extutil.Invalid("FormatNumber", "decimals must not be negative, got %d", d)
			}
			opts = append(opts, number.Scale(d))
		}
		p, err := printer("FormatNumber", args, 2)
		if err != nil {
			return nil, err
		}
		return p.Sprintf("%v", number.Decimal(x, opts...)), nil
	})
}

// FormatPercent returns the definition for FormatPercent(x [, locale]);
// 0.25 formats as "25%".
func FormatPercent() functions.Definition {
	return extutil.Define("FormatPercent", 1, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		x, err := extutil.Number("FormatPercent", args[0])
		if err != nil {
			return nil, err
		}
		p, err := printer("FormatPercent", args, 1)
		if err != nil {
			return nil, err
		}
		return p.Sprintf("%v", number.Percent(x)), nil
	})
}

// FormatCurrency returns the definition for FormatCurrency(x, code
// [, locale]) where code is an ISO 4217 currency code.
func FormatCurrency() functions.Definition {
	return extutil.Define("FormatCurrency", 2, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		x, err := extutil.Number("FormatCurrency", args[0])
		if err != nil {
			return nil, err
		}
		code, err := extutil.String("FormatCurrency", args[1])
		if err != nil {
			return nil, err
		}
		unit, err := currency.ParseISO(code)
		if err != nil {
			return nil, extutil.Invalid("FormatCurrency", "unknown currency %q", code)
		}
		p, err := printer("FormatCurrency", args, 2)
		if err != nil {
			return nil, err
		}
		return p.Sprintf("%v", currency.Symbol(unit.Amount(x))), nil
	})
}

// Template returns the definition for Template(text, values...). Each
// "{n}" placeholder is replaced by the n-th value (0-based); placeholders
// without a value are left as is.
func Template() functions.Definition {
	return extutil.Define("Template", 1, -1, func(_ context.Context, args ...interface{}) (interface{}, error) {
		tmpl, err := extutil.String("Template", args[0])
		if err != nil {
			return nil, err
		}
		values := args[1:]
		return placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
			i, err := strconv.Atoi(match[1 : len(match)-1])
			if err != nil || i >= len(values) {
				return match
			}
			return format.Value(values[i])
		}), nil
	})
}

// printer returns a message printer for the locale in args[i], or for the
// default locale when the argument is absent.
func printer(name string, args []interface{}, i int) (*message.Printer, error) {
	locale := defaultLocale
	if len(args) > i {
		s, err := extutil.String(name, args[i])
		if err != nil {
			return nil, err
		}
		locale = s
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, extutil.Invalid(name, "unknown locale %q", locale)
	}
	return message.NewPrinter(tag), nil
}
