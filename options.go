package gocalc

import (
	"log/slog"
	"time"

	"github.com/sandrolain/gocalc/pkg/calculator"
	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/functions"
	"github.com/sandrolain/gocalc/pkg/parser"
)

// Options configures Evaluate and Execute.
type Options struct {
	// Params maps parameter names to values.
	Params map[string]interface{}
	// LazyParams supplies values for names missing from Params. A callback
	// runs on every reference to its parameter.
	LazyParams map[string]evaluator.LazyParam
	// EvalOptions configure the underlying evaluator.
	EvalOptions []evaluator.EvalOption
}

// Option configures Options.
type Option func(*Options)

func buildOptions(opts []Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) evaluator() *evaluator.Evaluator {
	return evaluator.New(o.EvalOptions...)
}

// WithParams adds parameter values. Later values replace earlier ones.
func WithParams(params map[string]interface{}) Option {
	return func(o *Options) {
		if o.Params == nil {
			o.Params = make(map[string]interface{}, len(params))
		}
		for k, v := range params {
			o.Params[k] = v
		}
	}
}

// WithParam adds a single parameter value.
func WithParam(name string, value interface{}) Option {
	return WithParams(map[string]interface{}{name: value})
}

// WithLazyParam adds a parameter whose value is computed on demand.
func WithLazyParam(name string, fn evaluator.LazyParam) Option {
	return func(o *Options) {
		if o.LazyParams == nil {
			o.LazyParams = make(map[string]evaluator.LazyParam)
		}
		o.LazyParams[name] = fn
	}
}

// WithFunction registers a function that receives unevaluated operands.
// It takes precedence over a built-in function of the same name.
func WithFunction(name string, fn functions.Func) Option {
	return WithEvalOptions(evaluator.WithFunction(name, fn))
}

// WithCustomFunction registers a function that receives evaluated arguments.
func WithCustomFunction(name string, fn functions.CustomFunc) Option {
	return WithEvalOptions(evaluator.WithCustomFunction(name, fn))
}

// WithFunctionDef registers a function with arity bounds.
func WithFunctionDef(defs ...functions.Definition) Option {
	return WithEvalOptions(evaluator.WithFunctions(defs...))
}

// WithCalculator replaces the operator semantics.
func WithCalculator(c calculator.Calculator) Option {
	return WithEvalOptions(evaluator.WithCalculator(c))
}

// WithLiteralFactory sets how Evaluate turns literal text into values.
func WithLiteralFactory(f parser.LiteralFactory) Option {
	return WithEvalOptions(evaluator.WithLiteralFactory(f))
}

// WithMaxDepth bounds both the nesting depth Evaluate parses and the depth
// of evaluation.
func WithMaxDepth(depth int) Option {
	return WithEvalOptions(
		evaluator.WithMaxDepth(depth),
		evaluator.WithCompileOptions(parser.WithMaxDepth(depth)),
	)
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return WithEvalOptions(evaluator.WithLogger(logger))
}

// WithDebug enables per-node debug logging.
func WithDebug(enabled bool) Option {
	return WithEvalOptions(evaluator.WithDebug(enabled))
}

// WithTimeout bounds the duration of each evaluation.
func WithTimeout(timeout time.Duration) Option {
	return WithEvalOptions(evaluator.WithTimeout(timeout))
}

// WithEvalOptions passes options straight to the evaluator.
func WithEvalOptions(opts ...evaluator.EvalOption) Option {
	return func(o *Options) {
		o.EvalOptions = append(o.EvalOptions, opts...)
	}
}
