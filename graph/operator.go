//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package graph

import "fmt"

// Operator is the runtime behavior of a node. Implementations declare their
// typed input and output slots as struct fields and surface them, in
// definition order, through Inputs and Outputs.
//
// Evaluate reads inputs through the evaluation context, which may
// recursively drive the evaluation of connected nodes, and writes results
// into the output slots.
type Operator interface {
	// Evaluate computes the operator's outputs from its inputs.
	Evaluate(ctx *EvalContext) error
	// Inputs returns the input slots in definition order.
	Inputs() []InputSlot
	// Outputs returns the output slots in definition order.
	Outputs() []OutputSlot
}

// InputSlot is the type-erased surface of a Single or Multi slot, used by
// the compiler to fill slots from a blueprint.
type InputSlot interface {
	// Type returns the value type of the slot.
	Type() *ValueType
	// Cardinality returns Single for Single slots and Multiple for Multi.
	Cardinality() Cardinality

	assign(s compiledSlot) error
}

// OutputSlot is the type-erased surface of an Output slot.
type OutputSlot interface {
	// Type returns the value type of the slot.
	Type() *ValueType
	// Value returns the value produced by the last evaluation, if any.
	Value() (Value, bool)

	reset()
}

// slotKind discriminates compiled slot states.
type slotKind int

const (
	slotDangling slotKind = iota
	slotConstant
	slotConnection
)

// compiledSlot is an input slot after compilation: a captured constant, a
// reference into the compiled tree, or dangling.
type compiledSlot struct {
	kind     slotKind
	constant Value
	node     *EvalNode
	output   int
}

func (s *compiledSlot) evaluate(ctx *EvalContext) (Value, error) {
	switch s.kind {
	case slotConstant:
		return s.constant, nil
	case slotConnection:
		return ctx.evaluator.getNodeOutput(ctx.Context, s.node, s.output)
	default:
		return nil, ErrDanglingInput
	}
}

// Single is an input slot that holds one constant or one connection.
type Single[T Value] struct {
	slot compiledSlot
}

// Type implements InputSlot.
func (s *Single[T]) Type() *ValueType { return valueTypeOf[T]() }

// Cardinality implements InputSlot.
func (s *Single[T]) Cardinality() Cardinality { return CardinalitySingle }

func (s *Single[T]) assign(slot compiledSlot) error {
	if slot.kind == slotConstant {
		if _, err := As[T](slot.constant); err != nil {
			return err
		}
	}
	s.slot = slot
	return nil
}

// Evaluate produces the slot's value: a clone of the captured constant, the
// connected output fetched through the evaluator, or an error for a
// dangling slot.
func (s *Single[T]) Evaluate(ctx *EvalContext) (T, error) {
	v, err := s.slot.evaluate(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](v)
}

// Multi is an input slot that holds an ordered collection of constants and
// connections.
type Multi[T Value] struct {
	slots []compiledSlot
}

// Type implements InputSlot.
func (m *Multi[T]) Type() *ValueType { return valueTypeOf[T]() }

// Cardinality implements InputSlot.
func (m *Multi[T]) Cardinality() Cardinality { return CardinalityMultiple }

func (m *Multi[T]) assign(slot compiledSlot) error {
	if slot.kind == slotConstant {
		if _, err := As[T](slot.constant); err != nil {
			return err
		}
	}
	m.slots = append(m.slots, slot)
	return nil
}

// NumSlots returns the number of slots in the collection.
func (m *Multi[T]) NumSlots() int { return len(m.slots) }

// Iter returns a lazy iterator over the slot values in slot order.
// Dangling slots are skipped; connected slots are evaluated on demand.
func (m *Multi[T]) Iter(ctx *EvalContext) *MultiIter[T] {
	return &MultiIter[T]{multi: m, ctx: ctx}
}

// MultiIter lazily yields the values of a Multi slot.
type MultiIter[T Value] struct {
	multi *Multi[T]
	ctx   *EvalContext
	index int
	err   error
}

// Next returns the next value. It returns false when the slots are
// exhausted or an evaluation failed; check Err after iteration.
func (it *MultiIter[T]) Next() (T, bool) {
	var zero T
	for it.index < len(it.multi.slots) {
		slot := &it.multi.slots[it.index]
		it.index++
		if slot.kind == slotDangling {
			continue
		}
		v, err := slot.evaluate(it.ctx)
		if err != nil {
			it.err = err
			return zero, false
		}
		t, err := As[T](v)
		if err != nil {
			it.err = err
			return zero, false
		}
		return t, true
	}
	return zero, false
}

// Err returns the error that stopped iteration, if any.
func (it *MultiIter[T]) Err() error { return it.err }

// Output is a typed output slot. Operators write it during Evaluate; the
// evaluator reads it afterwards.
type Output[T Value] struct {
	value T
	valid bool
}

// Type implements OutputSlot.
func (o *Output[T]) Type() *ValueType { return valueTypeOf[T]() }

// Set stores the output value for the current evaluation.
func (o *Output[T]) Set(v T) {
	o.value = v
	o.valid = true
}

// Value implements OutputSlot.
func (o *Output[T]) Value() (Value, bool) {
	if !o.valid {
		return nil, false
	}
	return o.value, true
}

func (o *Output[T]) reset() {
	var zero T
	o.value = zero
	o.valid = false
}

// InputSpec names one input of an operator-backed node type. The value type
// and cardinality are derived from the operator's slot; the spec supplies
// what the slot cannot: the name and the assignment mask.
type InputSpec struct {
	// Name is the stable input name.
	Name string
	// Flags is the assignment mask; zero means AssignDefault.
	Flags AssignmentTypes
}

// NewOperatorNodeType builds a NodeType for a hand-written operator.
// Input and output definitions are derived from a probe instance; the
// compile function constructs a fresh operator and fills its slots from the
// blueprint.
//
// The function panics when the specs do not match the operator's slots;
// this is a registration-time programming error.
func NewOperatorNodeType(
	id NodeTypeID,
	construct func() Operator,
	inputs []InputSpec,
	outputs []string,
) *NodeType {
	probe := construct()
	probeInputs := probe.Inputs()
	probeOutputs := probe.Outputs()
	if len(probeInputs) != len(inputs) {
		panic(fmt.Sprintf("node type %s: %d input specs for %d slots",
			id, len(inputs), len(probeInputs)))
	}
	if len(probeOutputs) != len(outputs) {
		panic(fmt.Sprintf("node type %s: %d output names for %d slots",
			id, len(outputs), len(probeOutputs)))
	}

	inputDefs := make([]InputDefinition, len(inputs))
	for i, spec := range inputs {
		flags := spec.Flags
		if flags == 0 {
			flags = AssignDefault
		}
		inputDefs[i] = InputDefinition{
			Name:        spec.Name,
			Type:        probeInputs[i].Type(),
			Cardinality: probeInputs[i].Cardinality(),
			Flags:       flags,
		}
	}
	outputDefs := make([]OutputDefinition, len(outputs))
	for i, name := range outputs {
		outputDefs[i] = OutputDefinition{Name: name, Type: probeOutputs[i].Type()}
	}

	t := &NodeType{
		ID:      id,
		Inputs:  inputDefs,
		Outputs: outputDefs,
	}
	t.Compile = func(ctx *CompileContext, nodeID NodeID, bp *NodeBlueprint) (*EvalNode, error) {
		op := construct()
		node := newEvalNode(nodeID, t, op)
		// Insert before filling slots so that blueprint cycles and
		// diamonds resolve to this instance.
		ctx.insert(nodeID, node)
		if err := fillSlots(ctx, op, bp); err != nil {
			return nil, err
		}
		return node, nil
	}
	return t
}

// fillSlots materializes the blueprint input states into the operator's
// runtime slots.
func fillSlots(ctx *CompileContext, op Operator, bp *NodeBlueprint) error {
	slots := op.Inputs()
	for i, slot := range slots {
		in, err := bp.Input(i)
		if err != nil {
			return err
		}
		switch in.Kind() {
		case InputUnset:
			if slot.Cardinality() == CardinalitySingle {
				if err := slot.assign(compiledSlot{kind: slotDangling}); err != nil {
					return err
				}
			}
		case InputConstant:
			if err := slot.assign(compiledSlot{
				kind:     slotConstant,
				constant: in.Constant(),
			}); err != nil {
				return err
			}
		case InputConnection:
			if err := assignConnection(ctx, slot, in.Connection()); err != nil {
				return err
			}
		case InputConnectionVec:
			for _, c := range in.Connections() {
				if err := assignConnection(ctx, slot, c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func assignConnection(ctx *CompileContext, slot InputSlot, c Connection) error {
	src, err := ctx.CompileNode(c.NodeID)
	if err != nil {
		return err
	}
	return slot.assign(compiledSlot{
		kind:   slotConnection,
		node:   src,
		output: c.OutputIndex,
	})
}
