// Package ext provides optional extension functions for gocalc beyond the
// built-in math functions.
//
// The extension functions live in sub-packages grouped by category:
//   - extstring   – Len, Upper, Title, Substring, Replace, Concat, …
//   - extnumeric  – Clamp, Atan2, Pi, Sum, Average, Median, StdDev, …
//   - extarray    – Count, First, Take, Distinct, Range, Join, set ops, …
//   - exttypes    – IsNumber, IsList, TypeOf, IsDefined, Default, …
//   - extdatetime – Now, Today, Date, Year, DateAdd, DateDiff, FormatDate, …
//   - extcrypto   – NewGuid, Hash, HMAC
//   - extformat   – FormatNumber, FormatPercent, FormatCurrency, Template
//
// extbig is not part of WithAll: it changes how number literals are
// represented and is enabled on its own with extbig.Options.
//
// # Integration – all extensions at once
//
//	import "github.com/sandrolain/gocalc/pkg/ext"
//
//	result, err := gocalc.Evaluate(expr, gocalc.WithEvalOptions(ext.WithAll()))
//
// # Integration – by category
//
//	result, err := gocalc.Evaluate(expr, gocalc.WithEvalOptions(
//	    ext.WithString(),
//	    ext.WithArray(),
//	))
//
// # Integration – single function from a sub-package
//
//	import "github.com/sandrolain/gocalc/pkg/ext/extstring"
//
//	result, err := gocalc.Evaluate(expr, gocalc.WithFunctionDef(extstring.Upper()))
package ext

import (
	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/ext/extarray"
	"github.com/sandrolain/gocalc/pkg/ext/extcrypto"
	"github.com/sandrolain/gocalc/pkg/ext/extdatetime"
	"github.com/sandrolain/gocalc/pkg/ext/extformat"
	"github.com/sandrolain/gocalc/pkg/ext/extnumeric"
	"github.com/sandrolain/gocalc/pkg/ext/extstring"
	"github.com/sandrolain/gocalc/pkg/ext/exttypes"
	"github.com/sandrolain/gocalc/pkg/functions"
)

// All returns every extension function definition.
func All() []functions.Definition {
	var all []functions.Definition
	all = append(all, extstring.All()...)
	all = append(all, extnumeric.All()...)
	all = append(all, extarray.All()...)
	all = append(all, exttypes.All()...)
	all = append(all, extdatetime.All()...)
	all = append(all, extcrypto.All()...)
	all = append(all, extformat.All()...)
	return all
}

// WithAll registers every extension function.
func WithAll() evaluator.EvalOption {
	return evaluator.WithFunctions(All()...)
}

// WithString registers the extstring functions.
func WithString() evaluator.EvalOption {
	return evaluator.WithFunctions(extstring.All()...)
}

// WithNumeric registers the extnumeric functions.
func WithNumeric() evaluator.EvalOption {
	return evaluator.WithFunctions(extnumeric.All()...)
}

// WithArray registers the extarray functions.
func WithArray() evaluator.EvalOption {
	return evaluator.WithFunctions(extarray.All()...)
}

// WithTypes registers the exttypes functions.
func WithTypes() evaluator.EvalOption {
	return evaluator.WithFunctions(exttypes.All()...)
}

// WithDateTime registers the extdatetime functions.
func WithDateTime() evaluator.EvalOption {
	return evaluator.WithFunctions(extdatetime.All()...)
}

// WithCrypto registers the extcrypto functions.
func WithCrypto() evaluator.EvalOption {
	return evaluator.WithFunctions(extcrypto.All()...)
}

// WithFormat registers the extformat functions.
func WithFormat() evaluator.EvalOption {
	return evaluator.WithFunctions(extformat.All()...)
}
