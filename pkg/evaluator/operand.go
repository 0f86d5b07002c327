package evaluator

import (
	"context"

	"github.com/sandrolain/gocalc/pkg/types"
)

// operand is the lazy handle given to calculators and functions.
// The sub-expression runs on the first Evaluate; later calls return the
// remembered result. Operands are not safe for concurrent use.
type operand struct {
	e       *Evaluator
	ctx     context.Context
	node    *types.Node
	evalCtx *EvalContext

	done  bool
	value interface{}
	err   error
}

func (e *Evaluator) operand(ctx context.Context, node *types.Node, evalCtx *EvalContext) *operand {
	return &operand{e: e, ctx: ctx, node: node, evalCtx: evalCtx}
}

// Evaluate implements types.Operand.
func (o *operand) Evaluate() (interface{}, error) {
	if !o.done {
		o.value, o.err = o.e.evalNode(o.ctx, o.node, o.evalCtx)
		o.done = true
	}
	return o.value, o.err
}

// Node implements types.Operand.
func (o *operand) Node() *types.Node {
	return o.node
}
