//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtfr/vislum-sub000/graph"
	"github.com/vtfr/vislum-sub000/graph/ops"
)

func evaluate(t *testing.T, g *graph.GraphBlueprint, node graph.NodeID, output int) (graph.Value, error) {
	t.Helper()
	tree, err := graph.Compile(g)
	require.NoError(t, err)
	return graph.NewEvaluator(tree).GetOutput(context.Background(), node, output)
}

func TestDiamondEvaluation(t *testing.T) {
	g := graph.NewGraphBlueprint()
	a := g.AddNode(ops.ConstantFloatType)
	b := g.AddNode(ops.ConstantFloatType)
	c := g.AddNode(ops.AddFloatsType)
	d := g.AddNode(ops.MultiplyFloatsType)

	require.NoError(t, g.AssignConstant(a, 0, graph.Float(3)))
	require.NoError(t, g.AssignConstant(b, 0, graph.Float(4)))
	require.NoError(t, g.Connect(c, 0, graph.PlacementEnd, graph.Connection{NodeID: a}))
	require.NoError(t, g.Connect(c, 1, graph.PlacementEnd, graph.Connection{NodeID: b}))
	require.NoError(t, g.Connect(d, 0, graph.PlacementEnd, graph.Connection{NodeID: c}))
	require.NoError(t, g.Connect(d, 1, graph.PlacementEnd, graph.Connection{NodeID: c}))

	v, err := evaluate(t, g, d, 0)
	require.NoError(t, err)
	assert.Equal(t, graph.Float(49), v)
}

func TestDiamondCompilesSharedNodeOnce(t *testing.T) {
	instantiated := 0
	counting := graph.NewOperatorNodeType(
		"vislum.test.CountingAdd",
		func() graph.Operator {
			instantiated++
			return &ops.AddFloats{}
		},
		[]graph.InputSpec{{Name: "a"}, {Name: "b"}},
		[]string{"add"},
	)

	g := graph.NewGraphBlueprint()
	shared := g.AddNode(counting)
	d := g.AddNode(ops.MultiplyFloatsType)
	require.NoError(t, g.Connect(d, 0, graph.PlacementEnd, graph.Connection{NodeID: shared}))
	require.NoError(t, g.Connect(d, 1, graph.PlacementEnd, graph.Connection{NodeID: shared}))

	instantiated = 0
	_, err := graph.Compile(g, d)
	require.NoError(t, err)
	assert.Equal(t, 1, instantiated, "the shared node must compile exactly once")
}

func TestCycleAbort(t *testing.T) {
	g := graph.NewGraphBlueprint()
	a := g.AddNode(ops.AddFloatsType)
	b := g.AddNode(ops.AddFloatsType)

	require.NoError(t, g.Connect(a, 0, graph.PlacementEnd, graph.Connection{NodeID: b}))
	require.NoError(t, g.AssignConstant(a, 1, graph.Float(1)))
	require.NoError(t, g.Connect(b, 0, graph.PlacementEnd, graph.Connection{NodeID: a}))
	require.NoError(t, g.AssignConstant(b, 1, graph.Float(2)))

	_, err := evaluate(t, g, a, 0)
	require.Error(t, err)

	var cycle *graph.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Contains(t, cycle.Stack, a)
	assert.Contains(t, cycle.Stack, b)
}

func TestDanglingInput(t *testing.T) {
	connOnly := graph.NewOperatorNodeType(
		"vislum.test.DanglingAdd",
		func() graph.Operator { return &ops.AddFloats{} },
		[]graph.InputSpec{
			{Name: "a", Flags: graph.AssignConnection},
			{Name: "b", Flags: graph.AssignConnection},
		},
		[]string{"add"},
	)

	g := graph.NewGraphBlueprint()
	id := g.AddNode(connOnly)

	_, err := evaluate(t, g, id, 0)
	assert.ErrorIs(t, err, graph.ErrDanglingInput)
}

func TestMultiInputSumsConnections(t *testing.T) {
	g := graph.NewGraphBlueprint()
	a := g.AddNode(ops.ConstantFloatType)
	b := g.AddNode(ops.ConstantFloatType)
	sum := g.AddNode(ops.SumFloatsType)

	require.NoError(t, g.AssignConstant(a, 0, graph.Float(1.5)))
	require.NoError(t, g.AssignConstant(b, 0, graph.Float(2.5)))
	require.NoError(t, g.Connect(sum, 0, graph.PlacementEnd, graph.Connection{NodeID: a}))
	require.NoError(t, g.Connect(sum, 0, graph.PlacementEnd, graph.Connection{NodeID: b}))

	v, err := evaluate(t, g, sum, 0)
	require.NoError(t, err)
	assert.Equal(t, graph.Float(4), v)
}

func TestMultiInputEmpty(t *testing.T) {
	g := graph.NewGraphBlueprint()
	sum := g.AddNode(ops.SumFloatsType)

	v, err := evaluate(t, g, sum, 0)
	require.NoError(t, err)
	assert.Equal(t, graph.Float(0), v)
}

// statefulCounter bumps its output on every evaluation, exposing whether
// the evaluator re-evaluates across and within top-level calls.
type statefulCounter struct {
	calls int

	Count graph.Output[graph.Float]
}

func (op *statefulCounter) Evaluate(ctx *graph.EvalContext) error {
	op.calls++
	op.Count.Set(graph.Float(op.calls))
	return nil
}

func (op *statefulCounter) Inputs() []graph.InputSlot   { return nil }
func (op *statefulCounter) Outputs() []graph.OutputSlot { return []graph.OutputSlot{&op.Count} }

var statefulCounterType = graph.NewOperatorNodeType(
	"vislum.test.StatefulCounter",
	func() graph.Operator { return &statefulCounter{} },
	nil,
	[]string{"count"},
)

func TestNodeEvaluatesOncePerTopLevelCall(t *testing.T) {
	g := graph.NewGraphBlueprint()
	counter := g.AddNode(statefulCounterType)
	add := g.AddNode(ops.AddFloatsType)
	require.NoError(t, g.Connect(add, 0, graph.PlacementEnd, graph.Connection{NodeID: counter}))
	require.NoError(t, g.Connect(add, 1, graph.PlacementEnd, graph.Connection{NodeID: counter}))

	tree, err := graph.Compile(g)
	require.NoError(t, err)
	ev := graph.NewEvaluator(tree)

	// Both reads within one call observe the same evaluation.
	v, err := ev.GetOutput(context.Background(), add, 0)
	require.NoError(t, err)
	assert.Equal(t, graph.Float(2), v)

	// A second top-level call re-evaluates from fresh state.
	v, err = ev.GetOutput(context.Background(), add, 0)
	require.NoError(t, err)
	assert.Equal(t, graph.Float(4), v)
}

func TestGetOutputErrors(t *testing.T) {
	g := graph.NewGraphBlueprint()
	id := g.AddNode(ops.ConstantFloatType)

	tree, err := graph.Compile(g)
	require.NoError(t, err)
	ev := graph.NewEvaluator(tree)

	_, err = ev.GetOutput(context.Background(), "missing", 0)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)

	_, err = ev.GetOutput(context.Background(), id, 7)
	assert.ErrorIs(t, err, graph.ErrOutputNotFound)
}
