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
	"encoding/json"
	"fmt"

	"github.com/vtfr/vislum-sub000/log"
)

// GraphData is the serialized form of a graph blueprint.
type GraphData struct {
	Nodes map[string]NodeData `json:"nodes"`
}

// NodeData is the serialized form of one blueprint node.
type NodeData struct {
	OperatorTypeID NodeTypeID                 `json:"operator_type_id"`
	Position       [2]int                     `json:"position"`
	Inputs         map[string][]InputSlotData `json:"inputs"`
}

// InputSlotData is one serialized input slot: exactly one of Constant or
// Connection is set.
type InputSlotData struct {
	Constant   json.RawMessage `json:"Constant,omitempty"`
	Connection *ConnectionData `json:"Connection,omitempty"`
}

// ConnectionData is a serialized connection.
type ConnectionData struct {
	NodeID      string `json:"node_id"`
	OutputIndex int    `json:"output_index"`
}

// Export serializes a graph blueprint.
//
// Constants whose value type has no serializer are dropped; dangling inputs
// are not represented. Connections always serialize.
func Export(g *GraphBlueprint) GraphData {
	data := GraphData{Nodes: make(map[string]NodeData, g.NumNodes())}

	for _, id := range g.NodeIDs() {
		node, _ := g.Node(id)
		inputs := make(map[string][]InputSlotData, len(node.Type().Inputs))

		node.Inputs(func(_ int, in *InputBlueprint, def *InputDefinition) {
			slots := make([]InputSlotData, 0, 1)
			switch in.Kind() {
			case InputConstant:
				if raw, ok := exportConstant(in.Constant()); ok {
					slots = append(slots, InputSlotData{Constant: raw})
				}
			case InputConnection:
				slots = append(slots, exportConnection(in.Connection()))
			case InputConnectionVec:
				for _, c := range in.Connections() {
					slots = append(slots, exportConnection(c))
				}
			}
			inputs[def.Name] = slots
		})

		data.Nodes[string(id)] = NodeData{
			OperatorTypeID: node.Type().ID,
			Position:       [2]int{node.Position().X, node.Position().Y},
			Inputs:         inputs,
		}
	}
	return data
}

func exportConstant(v Value) (json.RawMessage, bool) {
	t := v.ValueType()
	if t.Serialize == nil {
		return nil, false
	}
	raw, err := t.Serialize(v)
	if err != nil {
		log.Warnf("dropping constant of type %s on export: %v", t.ID, err)
		return nil, false
	}
	return raw, true
}

func exportConnection(c Connection) InputSlotData {
	return InputSlotData{Connection: &ConnectionData{
		NodeID:      string(c.NodeID),
		OutputIndex: c.OutputIndex,
	}}
}

// Import deserializes graph data into a blueprint using the given node type
// registry.
//
// The import is two-phase: all nodes are instantiated first so that node id
// references resolve, then inputs are wired. Unknown operator type ids fail
// the import; unknown input names on a known operator are ignored for
// forward compatibility.
func Import(registry *NodeTypeRegistry, data GraphData) (*GraphBlueprint, error) {
	g := NewGraphBlueprint()

	// Phase 1: instantiate all nodes.
	for rawID, nodeData := range data.Nodes {
		t, ok := registry.Get(nodeData.OperatorTypeID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeTypeNotFound, nodeData.OperatorTypeID)
		}
		id := g.addNode(NodeID(rawID), t)
		node, _ := g.Node(id)
		node.SetPosition(Position{X: nodeData.Position[0], Y: nodeData.Position[1]})
	}

	// Phase 2: wire inputs.
	for rawID, nodeData := range data.Nodes {
		if err := wireNode(g, NodeID(rawID), nodeData); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func wireNode(g *GraphBlueprint, id NodeID, data NodeData) error {
	node, _ := g.Node(id)
	for name, slots := range data.Inputs {
		index, def, ok := node.Type().InputByName(name)
		if !ok {
			// Unknown inputs are ignored.
			log.Debugf("import: node %s: ignoring unknown input %q", id, name)
			continue
		}
		for _, slot := range slots {
			switch {
			case slot.Constant != nil:
				if def.Type.Deserialize == nil {
					return fmt.Errorf("%w: %s", ErrValueTypeNotSerializable, def.Type.ID)
				}
				v, err := def.Type.Deserialize(slot.Constant)
				if err != nil {
					return fmt.Errorf("import node %s input %q: %w", id, name, err)
				}
				if err := g.AssignConstant(id, index, v); err != nil {
					return fmt.Errorf("import node %s input %q: %w", id, name, err)
				}
			case slot.Connection != nil:
				conn := Connection{
					NodeID:      NodeID(slot.Connection.NodeID),
					OutputIndex: slot.Connection.OutputIndex,
				}
				if err := g.Connect(id, index, PlacementEnd, conn); err != nil {
					return fmt.Errorf("import node %s input %q: %w", id, name, err)
				}
			}
		}
	}
	return nil
}
