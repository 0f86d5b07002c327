// Package evaluator implements the gocalc tree-walking evaluator.
//
// The evaluator receives a parsed expression and computes its value for a
// set of parameters. Operators are delegated to a calculator.Calculator and
// function calls to the caller's functions or the built-in table. Every
// operand is handed over lazily, which is what makes "and", "or", the
// conditional operator and the "if" function evaluate only what they need.
//
// # Example
//
//	ev := evaluator.New()
//	result, err := ev.Eval(ctx, expr, map[string]interface{}{"x": 2.0})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// An Evaluator is immutable after New and safe for concurrent use.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandrolain/gocalc/pkg/cache"
	"github.com/sandrolain/gocalc/pkg/calculator"
	"github.com/sandrolain/gocalc/pkg/functions"
	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

// DefaultMaxDepth is the default limit on nested node evaluation.
const DefaultMaxDepth = 10000

// Evaluator evaluates gocalc expressions.
type Evaluator struct {
	opts      EvalOptions
	logger    *slog.Logger
	calc      calculator.Calculator
	cache     *cache.Cache                     // non-nil when Caching is enabled
	customFns map[string]*functions.Definition // caller-registered functions
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Calculator implements the operators. Defaults to calculator.Default.
	Calculator calculator.Calculator
	// CustomFunctions are resolved before the built-in functions, so a
	// custom function may shadow a built-in of the same name.
	CustomFunctions []functions.Definition
	// CompileOptions are used by Compile and EvalString.
	CompileOptions []parser.CompileOption
	// Caching enables compiled-expression caching in Compile and EvalString.
	Caching bool
	// CacheSize sets the maximum number of cached expressions.
	// Only used when Caching is true and no explicit Cache is provided.
	// Defaults to 256.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implicitly enabled.
	// Sharing a cache between evaluators with different literal factories
	// mixes their compiled trees.
	Cache *cache.Cache
	// MaxDepth limits nested evaluation. Zero or less disables the check.
	MaxDepth int
	// Timeout sets the evaluation timeout. Zero means no timeout.
	Timeout time.Duration
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// New creates a new Evaluator.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Caching:  false,
		MaxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Calculator == nil {
		options.Calculator = calculator.Default{}
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New(options.CacheSize)
	}

	// Later registrations replace earlier ones with the same name.
	customFns := make(map[string]*functions.Definition, len(options.CustomFunctions))
	for i := range options.CustomFunctions {
		def := options.CustomFunctions[i]
		customFns[def.Name] = &def
	}

	return &Evaluator{
		opts:      options,
		logger:    options.Logger,
		calc:      options.Calculator,
		cache:     c,
		customFns: customFns,
	}
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Calculator returns the calculator used for operators.
func (e *Evaluator) Calculator() calculator.Calculator {
	return e.calc
}

// Eval evaluates an expression with the given parameters.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression, params map[string]interface{}) (interface{}, error) {
	return e.EvalWithLazyParams(ctx, expr, params, nil)
}

// EvalWithLazyParams evaluates an expression with eager and lazy parameters.
// A lazy parameter is consulted only when the name is missing from params,
// and its callback runs again on every reference.
func (e *Evaluator) EvalWithLazyParams(ctx context.Context, expr *types.Expression, params map[string]interface{}, lazy map[string]LazyParam) (interface{}, error) {
	if expr == nil || expr.AST() == nil {
		return nil, fmt.Errorf("invalid expression")
	}
	evalCtx := NewContext(params)
	evalCtx.SetLazyParams(lazy)
	return e.EvalNode(ctx, expr.AST(), evalCtx)
}

// EvalNode evaluates a tree directly, skipping parsing.
func (e *Evaluator) EvalNode(ctx context.Context, node *types.Node, evalCtx *EvalContext) (interface{}, error) {
	if node == nil {
		return nil, fmt.Errorf("invalid expression")
	}
	if evalCtx == nil {
		evalCtx = NewContext(nil)
	}

	// Apply timeout if configured
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	// Each evaluation tree gets its own depth counter.
	ctx = withNewDepthCounter(ctx)

	return e.evalNode(ctx, node, evalCtx)
}

// EvalString compiles source and evaluates it.
func (e *Evaluator) EvalString(ctx context.Context, source string, params map[string]interface{}) (interface{}, error) {
	expr, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx, expr, params)
}

// Compile parses source with the evaluator's compile options. When caching
// is enabled the compiled expression is reused across calls.
func (e *Evaluator) Compile(source string) (*types.Expression, error) {
	compile := func() (*types.Expression, error) {
		return parser.Compile(source, e.opts.CompileOptions...)
	}
	if e.cache == nil {
		return compile()
	}

	expr, hit, err := e.cache.GetOrCompile(source, compile)
	if e.opts.Debug && err == nil {
		e.logger.Debug("expression cache", "source", source, "hit", hit, "size", e.cache.Len())
	}
	return expr, err
}

// getCustomFunction returns a caller-registered function by name, or (nil, false).
func (e *Evaluator) getCustomFunction(name string) (*functions.Definition, bool) {
	if len(e.customFns) == 0 {
		return nil, false
	}
	fn, ok := e.customFns[name]
	return fn, ok
}

// WithCalculator sets the calculator used for operators.
func WithCalculator(c calculator.Calculator) EvalOption {
	return func(opts *EvalOptions) {
		opts.Calculator = c
	}
}

// WithFunction registers a function that receives lazy operands.
// It accepts any number of arguments.
func WithFunction(name string, fn functions.Func) EvalOption {
	return WithFunctionDef(functions.Variadic(name, fn))
}

// WithFunctionDef registers a function with arity bounds.
func WithFunctionDef(def functions.Definition) EvalOption {
	return func(opts *EvalOptions) {
		opts.CustomFunctions = append(opts.CustomFunctions, def)
	}
}

// WithFunctions registers several functions at once.
func WithFunctions(defs ...functions.Definition) EvalOption {
	return func(opts *EvalOptions) {
		opts.CustomFunctions = append(opts.CustomFunctions, defs...)
	}
}

// WithCustomFunction registers a function that receives evaluated arguments.
//
// Example:
//
//	ev := evaluator.New(evaluator.WithCustomFunction("Greet", func(ctx context.Context, args ...interface{}) (interface{}, error) {
//	    return "Hello, " + args[0].(string) + "!", nil
//	}))
func WithCustomFunction(name string, fn functions.CustomFunc) EvalOption {
	return WithFunction(name, functions.Eager(fn))
}

// WithCompileOptions adds parser options used by Compile and EvalString.
func WithCompileOptions(copts ...parser.CompileOption) EvalOption {
	return func(opts *EvalOptions) {
		opts.CompileOptions = append(opts.CompileOptions, copts...)
	}
}

// WithLiteralFactory sets the literal factory used by Compile and EvalString.
func WithLiteralFactory(f parser.LiteralFactory) EvalOption {
	return WithCompileOptions(parser.WithLiteralFactory(f))
}

// WithCaching enables or disables expression compilation caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external expression cache.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum evaluation depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}
