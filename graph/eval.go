//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vtfr/vislum-sub000/internal/telemetry"
)

// Evaluator drives lazy evaluation over a compiled tree.
//
// Evaluation is single-threaded and re-entrant: an operator's Evaluate may
// request outputs of other nodes, which recursively evaluates them. All
// cross-node reads are routed through the evaluator so that at most one
// node is being mutated at any time; re-entering a node that is currently
// evaluating is a cycle and fails with a CycleError carrying the active
// stack. The check is unconditional.
type Evaluator struct {
	tree    *EvalTree
	stack   []NodeID
	depth   int
	touched []*EvalNode
}

// NewEvaluator creates an evaluator over the given compiled tree.
func NewEvaluator(tree *EvalTree) *Evaluator {
	return &Evaluator{tree: tree}
}

// EvalContext is the context in which an operator is evaluated.
type EvalContext struct {
	// Context is the caller's context, threaded through for tracing.
	Context context.Context
	// NodeID is the id of the node being evaluated.
	NodeID NodeID

	evaluator *Evaluator
}

// GetOutput evaluates as much of the tree as needed to produce the value of
// the given output of the given node.
//
// Within one top-level call each node evaluates at most once; later reads
// return the stored outputs. Nothing is memoized across calls: every
// top-level GetOutput re-evaluates from fresh state.
func (e *Evaluator) GetOutput(ctx context.Context, id NodeID, output int) (Value, error) {
	node, ok := e.tree.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return e.getNodeOutput(ctx, node, output)
}

func (e *Evaluator) getNodeOutput(ctx context.Context, node *EvalNode, output int) (Value, error) {
	if e.depth == 0 {
		spanCtx, span := telemetry.StartSpan(ctx, telemetry.SpanNameEvaluateGraph,
			attribute.String(telemetry.KeyNodeID, string(node.id)))
		telemetry.GraphEvalCount.Add(spanCtx, 1)

		v, err := e.evalOutput(spanCtx, node, output)
		e.resetTouched()
		telemetry.EndSpan(span, err)
		return v, err
	}
	return e.evalOutput(ctx, node, output)
}

func (e *Evaluator) evalOutput(ctx context.Context, node *EvalNode, output int) (Value, error) {
	switch node.state {
	case nodeEvaluated:
		// Already evaluated during this top-level call.
	case nodeEvaluating:
		stack := make([]NodeID, len(e.stack), len(e.stack)+1)
		copy(stack, e.stack)
		return nil, &CycleError{Stack: append(stack, node.id)}
	case nodeFresh:
		if err := e.evaluateNode(ctx, node); err != nil {
			return nil, err
		}
	}

	outputs := node.op.Outputs()
	if output < 0 || output >= len(outputs) {
		return nil, fmt.Errorf("%w: node %s output %d", ErrOutputNotFound, node.id, output)
	}
	v, ok := outputs[output].Value()
	if !ok {
		return nil, fmt.Errorf("%w: node %s output %d", ErrNoOutputValue, node.id, output)
	}
	return v, nil
}

func (e *Evaluator) evaluateNode(ctx context.Context, node *EvalNode) error {
	node.state = nodeEvaluating
	e.stack = append(e.stack, node.id)
	e.depth++
	e.touched = append(e.touched, node)

	err := node.op.Evaluate(&EvalContext{
		Context:   ctx,
		NodeID:    node.id,
		evaluator: e,
	})

	e.depth--
	e.stack = e.stack[:len(e.stack)-1]

	if err != nil {
		// Leave the node evaluating-free but unusable; the whole
		// top-level call fails and resets it anyway.
		node.state = nodeFresh
		if _, ok := err.(*CycleError); ok {
			return err
		}
		return &EvalError{NodeID: node.id, Err: err}
	}
	node.state = nodeEvaluated
	return nil
}

// resetTouched returns every node evaluated during the finished top-level
// call to the fresh state.
func (e *Evaluator) resetTouched() {
	for _, node := range e.touched {
		node.reset()
	}
	e.touched = e.touched[:0]
	e.stack = e.stack[:0]
}

// GetOutput fetches an output of another node through the evaluator,
// recursively evaluating it if needed.
func (c *EvalContext) GetOutput(node *EvalNode, output int) (Value, error) {
	return c.evaluator.getNodeOutput(c.Context, node, output)
}
