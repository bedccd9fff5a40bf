//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

// Package graph provides the operator graph runtime: typed values, node type
// schemas, editable graph blueprints, and the compiler and evaluator that turn
// a blueprint into an evaluatable tree of operator instances.
package graph

import (
	"encoding/json"
	"fmt"
)

// Value type id constants for the primitive types.
const (
	TypeIDFloat = "vislum.core.types.Float"
	TypeIDInt   = "vislum.core.types.Int"
	TypeIDBool  = "vislum.core.types.Bool"
)

// Value is implemented by every type that can flow through operator slots.
// A value carries its own type descriptor; blueprint checks treat two values
// as the same type when their descriptors have the same id.
//
// Implementations must use value receivers so that the descriptor is
// reachable from a zero value.
type Value interface {
	// ValueType returns the type descriptor for the value.
	ValueType() *ValueType
}

// Float is the primitive floating point value.
type Float float64

// ValueType implements Value.
func (Float) ValueType() *ValueType { return TypeFloat }

// Int is the primitive integer value.
type Int int64

// ValueType implements Value.
func (Int) ValueType() *ValueType { return TypeInt }

// Bool is the primitive boolean value.
type Bool bool

// ValueType implements Value.
func (Bool) ValueType() *ValueType { return TypeBool }

// Variant describes one variant of an enum-like value type.
type Variant struct {
	// Name is the display name of the variant.
	Name string
	// Construct creates the value for this variant.
	Construct func() Value
}

// ValueType describes a value type: its unique id, optional enum variants,
// optional JSON serialization, and an optional default constructor.
//
// Descriptors are created once at startup and referenced by pointer;
// blueprint slot compatibility compares descriptor ids.
type ValueType struct {
	// ID is the unique identifier of the type, e.g. "vislum.core.types.Float".
	ID string

	// Variants lists the variants for an enum type. Nil for non-enum types.
	Variants []Variant

	// Serialize converts a value of this type to JSON.
	// Nil when the type does not support serialization.
	Serialize func(Value) (json.RawMessage, error)

	// Deserialize converts JSON back to a value of this type.
	// Nil when the type does not support serialization.
	Deserialize func(json.RawMessage) (Value, error)

	// Default constructs the default value for the type, if any.
	Default func() Value
}

// Serializable reports whether the type has serialization callbacks.
func (t *ValueType) Serializable() bool {
	return t.Serialize != nil && t.Deserialize != nil
}

func (t *ValueType) String() string { return t.ID }

// Primitive type descriptors.
var (
	// TypeFloat is the descriptor for Float.
	TypeFloat = newPrimitiveType[Float](TypeIDFloat)
	// TypeInt is the descriptor for Int.
	TypeInt = newPrimitiveType[Int](TypeIDInt)
	// TypeBool is the descriptor for Bool.
	TypeBool = newPrimitiveType[Bool](TypeIDBool)
)

func newPrimitiveType[T Value](id string) *ValueType {
	return &ValueType{
		ID:          id,
		Serialize:   MarshalValue[T],
		Deserialize: UnmarshalValue[T],
		Default:     func() Value { var zero T; return zero },
	}
}

// As converts a value to the concrete type T.
// The conversion fails with ErrIncompatibleValueType when the value is not a T.
func As[T Value](v Value) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: got %s, want %s",
			ErrIncompatibleValueType, TypeIDOf(v), zero.ValueType().ID)
	}
	return t, nil
}

// TypeIDOf returns the type id of v, or "<nil>" for a nil value.
func TypeIDOf(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.ValueType().ID
}

// MarshalValue is a Serialize callback for types that round-trip through
// encoding/json directly.
func MarshalValue[T Value](v Value) (json.RawMessage, error) {
	t, err := As[T](v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(t)
}

// UnmarshalValue is the Deserialize counterpart of MarshalValue.
func UnmarshalValue[T Value](raw json.RawMessage) (Value, error) {
	var t T
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIncompatibleValueType, err)
	}
	return t, nil
}

// valueTypeOf returns the descriptor of T without needing an instance.
func valueTypeOf[T Value]() *ValueType {
	var zero T
	return zero.ValueType()
}

// ValueTypeRegistry maps value type ids to live descriptors. It is populated
// during startup and treated as read-only once graph construction begins, so
// the read path takes no locks.
type ValueTypeRegistry struct {
	types map[string]*ValueType
}

// NewValueTypeRegistry creates a registry with the primitive types
// pre-registered.
func NewValueTypeRegistry() *ValueTypeRegistry {
	r := &ValueTypeRegistry{types: make(map[string]*ValueType)}
	for _, t := range []*ValueType{TypeFloat, TypeInt, TypeBool} {
		r.types[t.ID] = t
	}
	return r
}

// Register adds a descriptor to the registry.
// Registering an id twice is an error.
func (r *ValueTypeRegistry) Register(t *ValueType) error {
	if _, exists := r.types[t.ID]; exists {
		return fmt.Errorf("%w: %s", ErrValueTypeAlreadyRegistered, t.ID)
	}
	r.types[t.ID] = t
	return nil
}

// Get returns the descriptor registered under id.
func (r *ValueTypeRegistry) Get(id string) (*ValueType, bool) {
	t, ok := r.types[id]
	return t, ok
}

// ConstructDefault builds the default value for the type registered under id.
// Returns false when the id is unknown or the type has no default constructor.
func (r *ValueTypeRegistry) ConstructDefault(id string) (Value, bool) {
	t, ok := r.types[id]
	if !ok || t.Default == nil {
		return nil, false
	}
	return t.Default(), true
}

// Serialize converts a value to JSON using its type's serializer.
func (r *ValueTypeRegistry) Serialize(v Value) (json.RawMessage, error) {
	t := v.ValueType()
	if t.Serialize == nil {
		return nil, fmt.Errorf("%w: %s", ErrValueTypeNotSerializable, t.ID)
	}
	return t.Serialize(v)
}

// Deserialize converts JSON to a value of the type registered under id.
func (r *ValueTypeRegistry) Deserialize(id string, raw json.RawMessage) (Value, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrValueTypeNotFound, id)
	}
	if t.Deserialize == nil {
		return nil, fmt.Errorf("%w: %s", ErrValueTypeNotSerializable, id)
	}
	return t.Deserialize(raw)
}
