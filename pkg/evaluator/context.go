package evaluator

import (
	"context"
	"fmt"
)

// LazyParam computes a parameter value on demand.
// It is called again every time the parameter is referenced.
type LazyParam func(ctx context.Context) (interface{}, error)

// EvalContext holds the parameter scope of one evaluation.
type EvalContext struct {
	// params stores eagerly supplied values
	params map[string]interface{}

	// lazy stores callbacks for parameters missing from params
	lazy map[string]LazyParam
}

// NewContext creates a new evaluation context.
func NewContext(params map[string]interface{}) *EvalContext {
	if params == nil {
		params = make(map[string]interface{})
	}
	return &EvalContext{
		params: params,
		lazy:   make(map[string]LazyParam),
	}
}

// SetParam sets an eager parameter.
func (c *EvalContext) SetParam(name string, value interface{}) {
	c.params[name] = value
}

// SetParams sets multiple parameters at once.
func (c *EvalContext) SetParams(params map[string]interface{}) {
	for name, value := range params {
		c.params[name] = value
	}
}

// SetLazyParam registers a lazy parameter.
func (c *EvalContext) SetLazyParam(name string, fn LazyParam) {
	c.lazy[name] = fn
}

// SetLazyParams registers multiple lazy parameters at once.
func (c *EvalContext) SetLazyParams(lazy map[string]LazyParam) {
	for name, fn := range lazy {
		c.lazy[name] = fn
	}
}

// Lookup resolves a parameter: eager values first, then lazy ones.
// found is false when the name is in neither.
func (c *EvalContext) Lookup(ctx context.Context, name string) (value interface{}, found bool, err error) {
	if value, ok := c.params[name]; ok {
		return value, true, nil
	}
	if fn, ok := c.lazy[name]; ok {
		value, err := fn(ctx)
		return value, true, err
	}
	return nil, false, nil
}

// String returns a string representation of the context.
func (c *EvalContext) String() string {
	return fmt.Sprintf("Context{params=%d, lazy=%d}", len(c.params), len(c.lazy))
}

type depthKey struct{}

// withNewDepthCounter returns a context that carries a fresh depth counter.
// Call this once at the start of each top-level evaluation.
func withNewDepthCounter(ctx context.Context) context.Context {
	d := 0
	return context.WithValue(ctx, depthKey{}, &d)
}

// depthCounter returns the depth counter of the current evaluation, or nil.
func depthCounter(ctx context.Context) *int {
	if p, ok := ctx.Value(depthKey{}).(*int); ok {
		return p
	}
	return nil
}
