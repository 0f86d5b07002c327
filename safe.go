package gocalc

import (
	"context"
	"fmt"

	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/references"
	"github.com/sandrolain/gocalc/pkg/types"
)

// Result holds either the value of a call or the error it failed with.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap returns the value and the error.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// ParseSafe is Parse returning a Result.
func ParseSafe(text string, opts ...parser.CompileOption) Result[*types.Expression] {
	return capture(func() (*types.Expression, error) {
		return Parse(text, opts...)
	})
}

// FormatSafe is Format returning a Result.
func FormatSafe(expr *types.Expression) Result[string] {
	return capture(func() (string, error) {
		return Format(expr), nil
	})
}

// EvaluateSafe is Evaluate returning a Result.
func EvaluateSafe(text string, opts ...Option) Result[interface{}] {
	return EvaluateContextSafe(context.Background(), text, opts...)
}

// EvaluateContextSafe is EvaluateContext returning a Result.
func EvaluateContextSafe(ctx context.Context, text string, opts ...Option) Result[interface{}] {
	return capture(func() (interface{}, error) {
		return EvaluateContext(ctx, text, opts...)
	})
}

// ExecuteSafe is Execute returning a Result.
func ExecuteSafe(expr *types.Expression, opts ...Option) Result[interface{}] {
	return ExecuteContextSafe(context.Background(), expr, opts...)
}

// ExecuteContextSafe is ExecuteContext returning a Result.
func ExecuteContextSafe(ctx context.Context, expr *types.Expression, opts ...Option) Result[interface{}] {
	return capture(func() (interface{}, error) {
		return ExecuteContext(ctx, expr, opts...)
	})
}

// CollectReferencesSafe is CollectReferences returning a Result.
func CollectReferencesSafe(expr *types.Expression) Result[references.References] {
	return capture(func() (references.References, error) {
		return CollectReferences(expr), nil
	})
}

// capture runs fn and converts a panic into the Result error.
func capture[T any](fn func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: panicError(r)}
		}
	}()
	v, err := fn()
	return Result[T]{Value: v, Err: err}
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("gocalc: panic: %w", err)
	}
	return fmt.Errorf("gocalc: panic: %v", r)
}
