package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/gocalc/pkg/calculator"
	"github.com/sandrolain/gocalc/pkg/functions"
	"github.com/sandrolain/gocalc/pkg/types"
)

// evalNode evaluates an AST node in the given context.
func (e *Evaluator) evalNode(ctx context.Context, node *types.Node, evalCtx *EvalContext) (interface{}, error) {
	// Check context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if node == nil {
		return nil, fmt.Errorf("invalid expression")
	}

	// The counter is shared by the whole tree; operands evaluate inside
	// their parent's call, so it tracks the evaluation stack.
	depth := depthCounter(ctx)
	if depth != nil {
		*depth++
		defer func() { *depth-- }()
		if e.opts.MaxDepth > 0 && *depth > e.opts.MaxDepth {
			return nil, types.NewError(types.ErrEvalDepthExceed,
				fmt.Sprintf("maximum evaluation depth %d exceeded", e.opts.MaxDepth), node.Position)
		}
	}

	if e.opts.Debug {
		e.logger.Debug("evaluating node",
			"type", node.Type,
			"operator", node.Operator,
			"name", node.Name,
			"position", node.Position,
			"depth", deref(depth))
	}

	result, err := e.dispatch(ctx, node, evalCtx)
	if err != nil {
		return nil, locate(err, node)
	}
	return result, nil
}

func (e *Evaluator) dispatch(ctx context.Context, node *types.Node, evalCtx *EvalContext) (interface{}, error) {
	switch node.Type {
	case types.NodeConstant:
		return node.Value, nil
	case types.NodeParameter:
		return e.evalParameter(ctx, node, evalCtx)
	case types.NodeList:
		return e.evalList(ctx, node, evalCtx)
	case types.NodeFunction:
		return e.evalFunction(ctx, node, evalCtx)
	case types.NodeBinary:
		return calculator.Binary(e.calc, node.Operator,
			e.operand(ctx, node.LHS, evalCtx), e.operand(ctx, node.RHS, evalCtx))
	case types.NodeUnary:
		return calculator.Unary(e.calc, node.Operator, e.operand(ctx, node.LHS, evalCtx))
	case types.NodeTernary:
		return e.calc.Ternary(
			e.operand(ctx, node.LHS, evalCtx),
			e.operand(ctx, node.Middle, evalCtx),
			e.operand(ctx, node.RHS, evalCtx))
	default:
		return nil, fmt.Errorf("unknown node type %q", node.Type)
	}
}

// evalParameter resolves a parameter reference.
func (e *Evaluator) evalParameter(ctx context.Context, node *types.Node, evalCtx *EvalContext) (interface{}, error) {
	value, found, err := evalCtx.Lookup(ctx, node.Name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.NewError(types.ErrUndefinedParameter,
			fmt.Sprintf("parameter %q is not defined", node.Name), node.Position).WithName(node.Name)
	}
	return value, nil
}

// evalList evaluates list items left to right.
func (e *Evaluator) evalList(ctx context.Context, node *types.Node, evalCtx *EvalContext) (interface{}, error) {
	items := make([]interface{}, len(node.Items))
	for i, item := range node.Items {
		v, err := e.evalNode(ctx, item, evalCtx)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// evalFunction resolves the function and calls it with lazy operands.
func (e *Evaluator) evalFunction(ctx context.Context, node *types.Node, evalCtx *EvalContext) (interface{}, error) {
	def, custom := e.getCustomFunction(node.Name)
	if !custom {
		var ok bool
		def, ok = functions.Lookup(node.Name)
		if !ok {
			return nil, types.NewError(types.ErrUnknownFunction,
				fmt.Sprintf("function %q is not defined", node.Name), node.Position).WithName(node.Name)
		}
	}

	if e.opts.Debug {
		e.logger.Debug("calling function", "name", node.Name, "custom", custom, "args", len(node.Arguments))
	}

	if err := def.CheckArity(len(node.Arguments)); err != nil {
		return nil, err
	}

	args := make([]types.Operand, len(node.Arguments))
	for i, arg := range node.Arguments {
		args[i] = e.operand(ctx, arg, evalCtx)
	}
	return def.Fn(ctx, args)
}

// locate gives a position-less evaluation or calculator error the position
// of the node that produced it. The error is copied, never modified.
func locate(err error, node *types.Node) error {
	te, ok := err.(*types.Error)
	if !ok || te.Position >= 0 {
		return err
	}
	switch te.Category() {
	case types.CategoryEval, types.CategoryCalculator:
		located := *te
		located.Position = node.Position
		return &located
	}
	return err
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
