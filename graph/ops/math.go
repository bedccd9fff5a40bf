//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

// Package ops provides the built-in math operators.
package ops

import (
	"math"

	"github.com/vtfr/vislum-sub000/graph"
)

// ConstantFloat forwards its constant input to its output.
type ConstantFloat struct {
	Value graph.Single[graph.Float]

	Constant graph.Output[graph.Float]
}

// Evaluate implements graph.Operator.
func (op *ConstantFloat) Evaluate(ctx *graph.EvalContext) error {
	v, err := op.Value.Evaluate(ctx)
	if err != nil {
		return err
	}
	op.Constant.Set(v)
	return nil
}

// Inputs implements graph.Operator.
func (op *ConstantFloat) Inputs() []graph.InputSlot {
	return []graph.InputSlot{&op.Value}
}

// Outputs implements graph.Operator.
func (op *ConstantFloat) Outputs() []graph.OutputSlot {
	return []graph.OutputSlot{&op.Constant}
}

// ConstantFloatType is the node type of ConstantFloat.
var ConstantFloatType = graph.NewOperatorNodeType(
	"vislum.std.math.ConstantFloat",
	func() graph.Operator { return &ConstantFloat{} },
	[]graph.InputSpec{{Name: "value"}},
	[]string{"constant"},
)

// ConstantInt forwards its constant input to its output.
type ConstantInt struct {
	Value graph.Single[graph.Int]

	Constant graph.Output[graph.Int]
}

// Evaluate implements graph.Operator.
func (op *ConstantInt) Evaluate(ctx *graph.EvalContext) error {
	v, err := op.Value.Evaluate(ctx)
	if err != nil {
		return err
	}
	op.Constant.Set(v)
	return nil
}

// Inputs implements graph.Operator.
func (op *ConstantInt) Inputs() []graph.InputSlot {
	return []graph.InputSlot{&op.Value}
}

// Outputs implements graph.Operator.
func (op *ConstantInt) Outputs() []graph.OutputSlot {
	return []graph.OutputSlot{&op.Constant}
}

// ConstantIntType is the node type of ConstantInt.
var ConstantIntType = graph.NewOperatorNodeType(
	"vislum.std.math.ConstantInt",
	func() graph.Operator { return &ConstantInt{} },
	[]graph.InputSpec{{Name: "value"}},
	[]string{"constant"},
)

// AddFloats adds two floats.
type AddFloats struct {
	A graph.Single[graph.Float]
	B graph.Single[graph.Float]

	Add graph.Output[graph.Float]
}

// Evaluate implements graph.Operator.
func (op *AddFloats) Evaluate(ctx *graph.EvalContext) error {
	a, err := op.A.Evaluate(ctx)
	if err != nil {
		return err
	}
	b, err := op.B.Evaluate(ctx)
	if err != nil {
		return err
	}
	op.Add.Set(a + b)
	return nil
}

// Inputs implements graph.Operator.
func (op *AddFloats) Inputs() []graph.InputSlot {
	return []graph.InputSlot{&op.A, &op.B}
}

// Outputs implements graph.Operator.
func (op *AddFloats) Outputs() []graph.OutputSlot {
	return []graph.OutputSlot{&op.Add}
}

// AddFloatsType is the node type of AddFloats.
var AddFloatsType = graph.NewOperatorNodeType(
	"vislum.std.math.AddFloats",
	func() graph.Operator { return &AddFloats{} },
	[]graph.InputSpec{{Name: "a"}, {Name: "b"}},
	[]string{"add"},
)

// MultiplyFloats multiplies two floats.
type MultiplyFloats struct {
	A graph.Single[graph.Float]
	B graph.Single[graph.Float]

	Multiplied graph.Output[graph.Float]
}

// Evaluate implements graph.Operator.
func (op *MultiplyFloats) Evaluate(ctx *graph.EvalContext) error {
	a, err := op.A.Evaluate(ctx)
	if err != nil {
		return err
	}
	b, err := op.B.Evaluate(ctx)
	if err != nil {
		return err
	}
	op.Multiplied.Set(a * b)
	return nil
}

// Inputs implements graph.Operator.
func (op *MultiplyFloats) Inputs() []graph.InputSlot {
	return []graph.InputSlot{&op.A, &op.B}
}

// Outputs implements graph.Operator.
func (op *MultiplyFloats) Outputs() []graph.OutputSlot {
	return []graph.OutputSlot{&op.Multiplied}
}

// MultiplyFloatsType is the node type of MultiplyFloats.
var MultiplyFloatsType = graph.NewOperatorNodeType(
	"vislum.std.math.MultiplyFloats",
	func() graph.Operator { return &MultiplyFloats{} },
	[]graph.InputSpec{{Name: "a"}, {Name: "b"}},
	[]string{"multiplied"},
)

// SumFloats sums an arbitrary number of connected floats.
type SumFloats struct {
	Values graph.Multi[graph.Float]

	Sum graph.Output[graph.Float]
}

// Evaluate implements graph.Operator.
func (op *SumFloats) Evaluate(ctx *graph.EvalContext) error {
	var sum graph.Float
	it := op.Values.Iter(ctx)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		sum += v
	}
	if err := it.Err(); err != nil {
		return err
	}
	op.Sum.Set(sum)
	return nil
}

// Inputs implements graph.Operator.
func (op *SumFloats) Inputs() []graph.InputSlot {
	return []graph.InputSlot{&op.Values}
}

// Outputs implements graph.Operator.
func (op *SumFloats) Outputs() []graph.OutputSlot {
	return []graph.OutputSlot{&op.Sum}
}

// SumFloatsType is the node type of SumFloats.
var SumFloatsType = graph.NewOperatorNodeType(
	"vislum.std.math.SumFloats",
	func() graph.Operator { return &SumFloats{} },
	[]graph.InputSpec{{Name: "values"}},
	[]string{"sum"},
)

// SinFloat computes sin(value + phase) * amplitude.
type SinFloat struct {
	Value     graph.Single[graph.Float]
	Phase     graph.Single[graph.Float]
	Amplitude graph.Single[graph.Float]

	Sin graph.Output[graph.Float]
}

// Evaluate implements graph.Operator.
func (op *SinFloat) Evaluate(ctx *graph.EvalContext) error {
	value, phase, amplitude, err := evalWave(ctx, &op.Value, &op.Phase, &op.Amplitude)
	if err != nil {
		return err
	}
	op.Sin.Set(graph.Float(math.Sin(value+phase)) * amplitude)
	return nil
}

// Inputs implements graph.Operator.
func (op *SinFloat) Inputs() []graph.InputSlot {
	return []graph.InputSlot{&op.Value, &op.Phase, &op.Amplitude}
}

// Outputs implements graph.Operator.
func (op *SinFloat) Outputs() []graph.OutputSlot {
	return []graph.OutputSlot{&op.Sin}
}

// SinFloatType is the node type of SinFloat.
var SinFloatType = graph.NewOperatorNodeType(
	"vislum.std.math.SinFloat",
	func() graph.Operator { return &SinFloat{} },
	[]graph.InputSpec{{Name: "value"}, {Name: "phase"}, {Name: "amplitude"}},
	[]string{"sin"},
)

// CosFloat computes cos(value + phase) * amplitude.
type CosFloat struct {
	Value     graph.Single[graph.Float]
	Phase     graph.Single[graph.Float]
	Amplitude graph.Single[graph.Float]

	Cos graph.Output[graph.Float]
}

// Evaluate implements graph.Operator.
func (op *CosFloat) Evaluate(ctx *graph.EvalContext) error {
	value, phase, amplitude, err := evalWave(ctx, &op.Value, &op.Phase, &op.Amplitude)
	if err != nil {
		return err
	}
	op.Cos.Set(graph.Float(math.Cos(value+phase)) * amplitude)
	return nil
}

// Inputs implements graph.Operator.
func (op *CosFloat) Inputs() []graph.InputSlot {
	return []graph.InputSlot{&op.Value, &op.Phase, &op.Amplitude}
}

// Outputs implements graph.Operator.
func (op *CosFloat) Outputs() []graph.OutputSlot {
	return []graph.OutputSlot{&op.Cos}
}

// CosFloatType is the node type of CosFloat.
var CosFloatType = graph.NewOperatorNodeType(
	"vislum.std.math.CosFloat",
	func() graph.Operator { return &CosFloat{} },
	[]graph.InputSpec{{Name: "value"}, {Name: "phase"}, {Name: "amplitude"}},
	[]string{"cos"},
)

// SinCosFloat computes sin and cos of (value + phase), scaled by amplitude.
type SinCosFloat struct {
	Value     graph.Single[graph.Float]
	Phase     graph.Single[graph.Float]
	Amplitude graph.Single[graph.Float]

	Sin graph.Output[graph.Float]
	Cos graph.Output[graph.Float]
}

// Evaluate implements graph.Operator.
func (op *SinCosFloat) Evaluate(ctx *graph.EvalContext) error {
	value, phase, amplitude, err := evalWave(ctx, &op.Value, &op.Phase, &op.Amplitude)
	if err != nil {
		return err
	}
	sin, cos := math.Sincos(value + phase)
	op.Sin.Set(graph.Float(sin) * amplitude)
	op.Cos.Set(graph.Float(cos) * amplitude)
	return nil
}

// Inputs implements graph.Operator.
func (op *SinCosFloat) Inputs() []graph.InputSlot {
	return []graph.InputSlot{&op.Value, &op.Phase, &op.Amplitude}
}

// Outputs implements graph.Operator.
func (op *SinCosFloat) Outputs() []graph.OutputSlot {
	return []graph.OutputSlot{&op.Sin, &op.Cos}
}

// SinCosFloatType is the node type of SinCosFloat.
var SinCosFloatType = graph.NewOperatorNodeType(
	"vislum.std.math.SinCosFloat",
	func() graph.Operator { return &SinCosFloat{} },
	[]graph.InputSpec{{Name: "value"}, {Name: "phase"}, {Name: "amplitude"}},
	[]string{"sin", "cos"},
)

func evalWave(
	ctx *graph.EvalContext,
	value, phase, amplitude *graph.Single[graph.Float],
) (float64, float64, graph.Float, error) {
	v, err := value.Evaluate(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	p, err := phase.Evaluate(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	a, err := amplitude.Evaluate(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	return float64(v), float64(p), a, nil
}

// Register adds every math operator to the registry.
func Register(registry *graph.NodeTypeRegistry) error {
	for _, t := range []*graph.NodeType{
		ConstantFloatType,
		ConstantIntType,
		AddFloatsType,
		MultiplyFloatsType,
		SumFloatsType,
		SinFloatType,
		CosFloatType,
		SinCosFloatType,
	} {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}
