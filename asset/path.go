//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

// Package asset provides the asset pipeline: namespaced paths, a virtual
// filesystem router, extension-dispatched loaders, and a background loading
// system with dependency tracking and hot reload.
package asset

import (
	"fmt"
	gopath "path"
	"strings"
)

// Namespace is the scheme prefix of an asset path. It determines which
// filesystem serves the path.
type Namespace string

const (
	// NamespaceVislum serves assets embedded in the runtime,
	// e.g. "vislum://shaders/blit.wgsl".
	NamespaceVislum Namespace = "vislum"
	// NamespaceProject serves user project content,
	// e.g. "project://textures/noise.png".
	NamespaceProject Namespace = "project"
)

// valid reports whether the namespace is one of the recognized schemes.
func (n Namespace) valid() bool {
	return n == NamespaceVislum || n == NamespaceProject
}

// Path is a namespaced asset path. The zero value is invalid; paths are
// cheap to copy and usable as map keys.
type Path struct {
	ns  Namespace
	rel string
}

// NewPath creates a path in the given namespace.
func NewPath(ns Namespace, rel string) Path {
	return Path{ns: ns, rel: rel}
}

// NewProjectPath creates a path in the project namespace.
func NewProjectPath(rel string) Path {
	return Path{ns: NamespaceProject, rel: rel}
}

// NewVislumPath creates a path in the vislum namespace.
func NewVislumPath(rel string) Path {
	return Path{ns: NamespaceVislum, rel: rel}
}

// ParsePath parses "namespace://relative/path". Unrecognized namespaces are
// rejected. The result round-trips through String.
func ParsePath(s string) (Path, error) {
	ns, rel, ok := strings.Cut(s, "://")
	if !ok {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}
	namespace := Namespace(ns)
	if !namespace.valid() {
		return Path{}, fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	return Path{ns: namespace, rel: rel}, nil
}

// String renders the canonical "namespace://relative/path" form.
func (p Path) String() string {
	return string(p.ns) + "://" + p.rel
}

// Namespace returns the namespace of the path.
func (p Path) Namespace() Namespace { return p.ns }

// Rel returns the path relative to its namespace root.
func (p Path) Rel() string { return p.rel }

// Ext returns the file extension without the leading dot.
func (p Path) Ext() string {
	return strings.TrimPrefix(gopath.Ext(p.rel), ".")
}

// Dir returns the path of the containing directory.
func (p Path) Dir() Path {
	dir := gopath.Dir(p.rel)
	if dir == "." {
		dir = ""
	}
	return Path{ns: p.ns, rel: dir}
}

// Join returns the path extended by the given relative elements.
func (p Path) Join(elem ...string) Path {
	parts := append([]string{p.rel}, elem...)
	return Path{ns: p.ns, rel: gopath.Join(parts...)}
}

// HasPrefix reports whether prefix is a path-prefix of p: same namespace
// and a relative path that matches on a whole segment boundary.
func (p Path) HasPrefix(prefix Path) bool {
	if p.ns != prefix.ns {
		return false
	}
	if prefix.rel == "" {
		return true
	}
	if !strings.HasPrefix(p.rel, prefix.rel) {
		return false
	}
	return len(p.rel) == len(prefix.rel) || p.rel[len(prefix.rel)] == '/'
}

// StripPrefix returns the path with the prefix removed. The second result
// is false when prefix is not a path-prefix of p.
func (p Path) StripPrefix(prefix Path) (Path, bool) {
	if !p.HasPrefix(prefix) {
		return Path{}, false
	}
	rel := strings.TrimPrefix(p.rel[len(prefix.rel):], "/")
	return Path{ns: p.ns, rel: rel}, true
}
