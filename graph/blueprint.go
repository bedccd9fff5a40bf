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
	"fmt"

	"github.com/google/uuid"
)

// NodeID is the unique identifier of a node within a graph blueprint.
type NodeID string

// NewNodeID generates a fresh node id.
func NewNodeID() NodeID { return NodeID(uuid.NewString()) }

// GraphID is the unique identifier of a graph blueprint.
type GraphID string

// NewGraphID generates a fresh graph id.
func NewGraphID() GraphID { return GraphID(uuid.NewString()) }

// Position is the 2D position of a node in the editor canvas.
type Position struct {
	X int
	Y int
}

// Add returns the position offset by other.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Connection references one output of a source node.
type Connection struct {
	NodeID      NodeID
	OutputIndex int
}

// Placement is the insertion position for a connection into an input of
// Multiple cardinality.
type Placement int

const (
	// PlacementEnd appends the connection after any existing ones.
	PlacementEnd Placement = iota
)

// InputBlueprintKind discriminates the states of an input slot in a
// blueprint.
type InputBlueprintKind int

const (
	// InputUnset is an input with no assignment.
	InputUnset InputBlueprintKind = iota
	// InputConstant is an input holding a captured constant value.
	InputConstant
	// InputConnection is an input connected to a single output.
	InputConnection
	// InputConnectionVec is an input connected to an ordered list of
	// outputs. Only valid for inputs of Multiple cardinality.
	InputConnectionVec
)

// InputBlueprint is the editable state of one input of a blueprint node.
type InputBlueprint struct {
	kind        InputBlueprintKind
	constant    Value
	connection  Connection
	connections []Connection
}

// UnsetInput returns an input with no assignment.
func UnsetInput() InputBlueprint {
	return InputBlueprint{kind: InputUnset}
}

// ConstantInput returns an input holding a constant value.
func ConstantInput(v Value) InputBlueprint {
	return InputBlueprint{kind: InputConstant, constant: v}
}

// ConnectionInput returns an input connected to a single output.
func ConnectionInput(c Connection) InputBlueprint {
	return InputBlueprint{kind: InputConnection, connection: c}
}

// ConnectionVecInput returns an input connected to the given outputs in
// order.
func ConnectionVecInput(cs ...Connection) InputBlueprint {
	return InputBlueprint{kind: InputConnectionVec, connections: cs}
}

// Kind returns the state of the input.
func (b *InputBlueprint) Kind() InputBlueprintKind { return b.kind }

// Constant returns the captured constant value.
// Only meaningful when Kind is InputConstant.
func (b *InputBlueprint) Constant() Value { return b.constant }

// Connection returns the single connection.
// Only meaningful when Kind is InputConnection.
func (b *InputBlueprint) Connection() Connection { return b.connection }

// Connections returns the ordered connection list.
// Only meaningful when Kind is InputConnectionVec.
func (b *InputBlueprint) Connections() []Connection { return b.connections }

// ConnectedTo reports whether the input references the given node.
func (b *InputBlueprint) ConnectedTo(id NodeID) bool {
	switch b.kind {
	case InputConnection:
		return b.connection.NodeID == id
	case InputConnectionVec:
		for _, c := range b.connections {
			if c.NodeID == id {
				return true
			}
		}
	}
	return false
}

// NodeBlueprint is the user-facing, editable representation of a node: its
// node type, one input slot per declared input, and a canvas position.
type NodeBlueprint struct {
	nodeType *NodeType
	inputs   []InputBlueprint
	position Position
}

// Type returns the node type.
func (n *NodeBlueprint) Type() *NodeType { return n.nodeType }

// Position returns the canvas position of the node.
func (n *NodeBlueprint) Position() Position { return n.position }

// SetPosition moves the node to the given canvas position.
func (n *NodeBlueprint) SetPosition(p Position) { n.position = p }

// Input returns the input slot at index.
func (n *NodeBlueprint) Input(index int) (*InputBlueprint, error) {
	if index < 0 || index >= len(n.inputs) {
		return nil, fmt.Errorf("%w: index %d", ErrInputNotFound, index)
	}
	return &n.inputs[index], nil
}

// InputWithDefinition returns the input slot at index together with its
// definition.
func (n *NodeBlueprint) InputWithDefinition(index int) (*InputBlueprint, *InputDefinition, error) {
	def, ok := n.nodeType.Input(index)
	if !ok {
		return nil, nil, fmt.Errorf("%w: index %d", ErrInputNotFound, index)
	}
	return &n.inputs[index], def, nil
}

// Inputs iterates the input slots paired with their definitions, in
// declaration order.
func (n *NodeBlueprint) Inputs(fn func(index int, in *InputBlueprint, def *InputDefinition)) {
	for i := range n.inputs {
		fn(i, &n.inputs[i], &n.nodeType.Inputs[i])
	}
}

// Outputs returns the node's output definitions in declaration order.
func (n *NodeBlueprint) Outputs() []OutputDefinition {
	return n.nodeType.Outputs
}

// AssignConstant assigns a constant value to the input at index.
// Fails when the input does not accept constants or the value type differs
// from the declared input type.
func (n *NodeBlueprint) AssignConstant(index int, v Value) error {
	in, def, err := n.InputWithDefinition(index)
	if err != nil {
		return err
	}
	if !def.Flags.AcceptsConstants() {
		return fmt.Errorf("%w: input %q", ErrInputDoesNotAcceptConstants, def.Name)
	}
	if def.Type.ID != TypeIDOf(v) {
		return fmt.Errorf("%w: input %q wants %s, got %s",
			ErrIncompatibleValueType, def.Name, def.Type.ID, TypeIDOf(v))
	}
	*in = ConstantInput(v)
	return nil
}

// AssignConnection assigns a connection to the input at index.
//
// For Single cardinality the connection replaces any prior assignment. For
// Multiple cardinality the connection is inserted per placement; a prior
// single Connection is upgraded in place to a ConnectionVec holding both.
// Value types are validated by GraphBlueprint.Connect, not here.
func (n *NodeBlueprint) AssignConnection(index int, placement Placement, c Connection) error {
	in, def, err := n.InputWithDefinition(index)
	if err != nil {
		return err
	}
	if !def.Flags.AcceptsConnections() {
		return fmt.Errorf("%w: input %q", ErrInputDoesNotAcceptConnections, def.Name)
	}

	switch def.Cardinality {
	case CardinalitySingle:
		// The placement is irrelevant for single inputs.
		*in = ConnectionInput(c)
	case CardinalityMultiple:
		var connections []Connection
		switch in.kind {
		case InputConnectionVec:
			connections = in.connections
		case InputConnection:
			connections = []Connection{in.connection}
		default:
			// Constants and unset slots are discarded by the new
			// connection list.
		}
		switch placement {
		case PlacementEnd:
			connections = append(connections, c)
		default:
			return fmt.Errorf("%w: %d", ErrInvalidPlacement, placement)
		}
		*in = ConnectionVecInput(connections...)
	}
	return nil
}

// ResetInputsConnectedTo re-instantiates every input that references the
// given node.
func (n *NodeBlueprint) ResetInputsConnectedTo(id NodeID) {
	for i := range n.inputs {
		if n.inputs[i].ConnectedTo(id) {
			n.inputs[i] = n.nodeType.Inputs[i].Instantiate()
		}
	}
}

// GraphBlueprint is the editable graph: a mapping from node ids to node
// blueprints. Connections are validated on assignment; the graph is not
// required to be acyclic, cycles are detected at evaluation time.
type GraphBlueprint struct {
	id    GraphID
	nodes map[NodeID]*NodeBlueprint
}

// NewGraphBlueprint creates an empty graph blueprint.
func NewGraphBlueprint() *GraphBlueprint {
	return &GraphBlueprint{
		id:    NewGraphID(),
		nodes: make(map[NodeID]*NodeBlueprint),
	}
}

// ID returns the graph id.
func (g *GraphBlueprint) ID() GraphID { return g.id }

// AddNode instantiates a blueprint node of the given type and adds it to
// the graph.
func (g *GraphBlueprint) AddNode(t *NodeType) NodeID {
	return g.addNode(NewNodeID(), t)
}

// AddNodeAt instantiates a blueprint node at the given canvas position.
func (g *GraphBlueprint) AddNodeAt(t *NodeType, pos Position) NodeID {
	id := g.addNode(NewNodeID(), t)
	g.nodes[id].SetPosition(pos)
	return id
}

func (g *GraphBlueprint) addNode(id NodeID, t *NodeType) NodeID {
	g.nodes[id] = t.Instantiate()
	return id
}

// Node returns the blueprint node with the given id.
func (g *GraphBlueprint) Node(id NodeID) (*NodeBlueprint, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NumNodes returns the number of nodes in the graph.
func (g *GraphBlueprint) NumNodes() int { return len(g.nodes) }

// NodeIDs returns the ids of all nodes in the graph.
func (g *GraphBlueprint) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	return ids
}

// RemoveNode deletes the node and resets every input of every remaining
// node that was connected to it. The reset pass is total before the call
// returns.
func (g *GraphBlueprint) RemoveNode(id NodeID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	for _, node := range g.nodes {
		node.ResetInputsConnectedTo(id)
	}
}

// AssignConstant assigns a constant value to an input of a node.
func (g *GraphBlueprint) AssignConstant(id NodeID, input int, v Value) error {
	node, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return node.AssignConstant(input, v)
}

// Connect assigns a connection to an input of the destination node after
// validating both endpoints: the source node and output must exist, the
// destination input must accept connections, and the output value type must
// equal the input value type.
func (g *GraphBlueprint) Connect(dst NodeID, input int, placement Placement, c Connection) error {
	if err := g.canConnect(dst, input, c); err != nil {
		return err
	}
	// The destination is guaranteed to exist after validation.
	return g.nodes[dst].AssignConnection(input, placement, c)
}

func (g *GraphBlueprint) canConnect(dst NodeID, input int, c Connection) error {
	dstNode, ok := g.nodes[dst]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, dst)
	}
	inputDef, ok := dstNode.Type().Input(input)
	if !ok {
		return fmt.Errorf("%w: node %s input %d", ErrInputNotFound, dst, input)
	}
	srcNode, ok := g.nodes[c.NodeID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, c.NodeID)
	}
	outputDef, ok := srcNode.Type().Output(c.OutputIndex)
	if !ok {
		return fmt.Errorf("%w: node %s output %d", ErrOutputNotFound, c.NodeID, c.OutputIndex)
	}
	if !inputDef.Flags.AcceptsConnections() {
		return fmt.Errorf("%w: input %q", ErrInputDoesNotAcceptConnections, inputDef.Name)
	}
	if outputDef.Type.ID != inputDef.Type.ID {
		return fmt.Errorf("%w: output %s, input %s",
			ErrIncompatibleValueType, outputDef.Type.ID, inputDef.Type.ID)
	}
	return nil
}

// UpdatePositionsWithOffset moves each listed node by offset. Unknown ids
// are skipped. The editor uses this to drag selections.
func (g *GraphBlueprint) UpdatePositionsWithOffset(ids []NodeID, offset Position) {
	for _, id := range ids {
		if node, ok := g.nodes[id]; ok {
			node.SetPosition(node.Position().Add(offset))
		}
	}
}
