//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Errors.
var (
	ErrInvalidPath         = errors.New("invalid asset path")
	ErrUnknownNamespace    = errors.New("unknown asset namespace")
	ErrNotFound            = errors.New("asset not found")
	ErrNoLoaderFound       = errors.New("no loader found for path")
	ErrInvalidShaderSource = errors.New("invalid shader source")
	ErrIncompatibleType    = errors.New("incompatible asset type")
)

// DependencyCycleError is returned when a loader would record a cyclic
// dependency. Trace holds the traversal path active at detection time, in
// visit order.
type DependencyCycleError struct {
	Trace []Path
}

func (e *DependencyCycleError) Error() string {
	parts := make([]string, 0, len(e.Trace))
	for _, p := range e.Trace {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("dependency cycle: %s", strings.Join(parts, " -> "))
}
