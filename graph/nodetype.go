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

// NodeTypeID is the unique identifier of a node type,
// e.g. "vislum.std.math.AddFloats".
type NodeTypeID string

// Cardinality is the number of slots an input accepts.
type Cardinality int

const (
	// CardinalitySingle accepts one slot.
	CardinalitySingle Cardinality = iota
	// CardinalityMultiple accepts an ordered collection of slots.
	CardinalityMultiple
)

// AssignmentTypes is the bitmask of assignment kinds an input accepts.
type AssignmentTypes uint8

const (
	// AssignConstant marks an input that accepts a constant value.
	AssignConstant AssignmentTypes = 1 << iota
	// AssignAnimation marks an input that accepts an animation.
	AssignAnimation
	// AssignConnection marks an input that accepts connections.
	AssignConnection

	// AssignAll accepts every assignment kind.
	AssignAll = AssignConstant | AssignAnimation | AssignConnection

	// AssignDefault is the assignment mask applied when none is specified.
	AssignDefault = AssignConstant | AssignConnection
)

// AcceptsConstants reports whether the input accepts a constant value.
func (a AssignmentTypes) AcceptsConstants() bool { return a&AssignConstant != 0 }

// AcceptsAnimations reports whether the input accepts an animation.
func (a AssignmentTypes) AcceptsAnimations() bool { return a&AssignAnimation != 0 }

// AcceptsConnections reports whether the input accepts connections.
func (a AssignmentTypes) AcceptsConnections() bool { return a&AssignConnection != 0 }

// InputDefinition is the schema of one input of a node type.
type InputDefinition struct {
	// Name is the stable input name used by the editor and serialization.
	Name string
	// Type is the value type of the input.
	Type *ValueType
	// Cardinality is Single or Multiple.
	Cardinality Cardinality
	// Flags is the set of assignment kinds the input accepts.
	Flags AssignmentTypes
}

// Instantiate produces the initial blueprint slot for the input: the type's
// default value when the input has Single cardinality, accepts constants
// and the type has one, otherwise an unset slot.
func (d *InputDefinition) Instantiate() InputBlueprint {
	if d.Cardinality == CardinalitySingle && d.Flags.AcceptsConstants() && d.Type.Default != nil {
		return ConstantInput(d.Type.Default())
	}
	return UnsetInput()
}

// OutputDefinition is the schema of one output of a node type.
type OutputDefinition struct {
	// Name is the stable output name.
	Name string
	// Type is the value type of the output.
	Type *ValueType
}

// CompileFunc materializes a runtime node instance from a blueprint node.
// Implementations use the context to recursively compile connected nodes.
type CompileFunc func(ctx *CompileContext, id NodeID, bp *NodeBlueprint) (*EvalNode, error)

// NodeType is the registered schema of a node: its id, input and output
// definitions, and the function that compiles a blueprint node into a
// runtime instance.
type NodeType struct {
	// ID is the unique node type id.
	ID NodeTypeID
	// Inputs is the ordered list of input definitions.
	Inputs []InputDefinition
	// Outputs is the ordered list of output definitions.
	Outputs []OutputDefinition
	// Compile materializes a runtime node from a blueprint.
	Compile CompileFunc
}

// Input returns the input definition at index.
func (t *NodeType) Input(index int) (*InputDefinition, bool) {
	if index < 0 || index >= len(t.Inputs) {
		return nil, false
	}
	return &t.Inputs[index], true
}

// Output returns the output definition at index.
func (t *NodeType) Output(index int) (*OutputDefinition, bool) {
	if index < 0 || index >= len(t.Outputs) {
		return nil, false
	}
	return &t.Outputs[index], true
}

// InputByName returns the index and definition of the named input.
func (t *NodeType) InputByName(name string) (int, *InputDefinition, bool) {
	for i := range t.Inputs {
		if t.Inputs[i].Name == name {
			return i, &t.Inputs[i], true
		}
	}
	return 0, nil, false
}

// OutputByName returns the index and definition of the named output.
func (t *NodeType) OutputByName(name string) (int, *OutputDefinition, bool) {
	for i := range t.Outputs {
		if t.Outputs[i].Name == name {
			return i, &t.Outputs[i], true
		}
	}
	return 0, nil, false
}

// Instantiate creates a fresh blueprint node of this type with the inputs
// pre-filled with defaults where permitted.
func (t *NodeType) Instantiate() *NodeBlueprint {
	inputs := make([]InputBlueprint, len(t.Inputs))
	for i := range t.Inputs {
		inputs[i] = t.Inputs[i].Instantiate()
	}
	return &NodeBlueprint{
		nodeType: t,
		inputs:   inputs,
	}
}

// NodeTypeRegistry is an append-only map from node type ids to node types.
// It is populated by operator init routines before graph construction and
// read concurrently afterwards; no removal is supported.
type NodeTypeRegistry struct {
	nodeTypes map[NodeTypeID]*NodeType
	order     []NodeTypeID
}

// NewNodeTypeRegistry creates an empty node type registry.
func NewNodeTypeRegistry() *NodeTypeRegistry {
	return &NodeTypeRegistry{nodeTypes: make(map[NodeTypeID]*NodeType)}
}

// Register adds a node type to the registry.
// Registering an id twice is an error.
func (r *NodeTypeRegistry) Register(t *NodeType) error {
	if _, exists := r.nodeTypes[t.ID]; exists {
		return fmt.Errorf("%w: %s", ErrNodeTypeAlreadyRegistered, t.ID)
	}
	r.nodeTypes[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

// Get returns the node type registered under id.
func (r *NodeTypeRegistry) Get(id NodeTypeID) (*NodeType, bool) {
	t, ok := r.nodeTypes[id]
	return t, ok
}

// Types returns all registered node types in registration order.
// The editor uses this to populate its insert-node menu.
func (r *NodeTypeRegistry) Types() []*NodeType {
	types := make([]*NodeType, 0, len(r.order))
	for _, id := range r.order {
		types = append(types, r.nodeTypes[id])
	}
	return types
}
