//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package asset

import "fmt"

// Asset is any value produced by a loader. Consumers retrieve assets with a
// typed Get on the system.
type Asset any

// Loader produces an asset of one kind from the filesystem. Loaders must be
// safe for concurrent use; a loader's Load runs on worker goroutines.
type Loader interface {
	// Extensions returns the file extensions the loader handles,
	// without the leading dot.
	Extensions() []string
	// Load reads and parses the asset at the context's path.
	Load(ctx *LoadContext) (Asset, error)
}

// Loaders is a registry of loaders keyed by file extension.
type Loaders struct {
	byExtension map[string]Loader
}

// NewLoaders creates a registry holding the given loaders.
func NewLoaders(loaders ...Loader) *Loaders {
	l := &Loaders{byExtension: make(map[string]Loader)}
	for _, loader := range loaders {
		l.Add(loader)
	}
	return l
}

// Add registers a loader for each of its extensions. A later loader takes
// over extensions claimed by an earlier one.
func (l *Loaders) Add(loader Loader) {
	for _, ext := range loader.Extensions() {
		l.byExtension[ext] = loader
	}
}

// FindByExtension returns the loader registered for the extension.
func (l *Loaders) FindByExtension(ext string) (Loader, bool) {
	loader, ok := l.byExtension[ext]
	return loader, ok
}

// LoadContext carries the state of one load: the asset's path, a router
// snapshot, the loader registry, and the dependency set accumulated while
// loading. Each worker owns its context exclusively.
type LoadContext struct {
	path    Path
	router  Router
	loaders *Loaders
	deps    map[Path]struct{}
}

// NewLoadContext creates a load context for the asset at path.
func NewLoadContext(path Path, router Router, loaders *Loaders) *LoadContext {
	return &LoadContext{
		path:    path,
		router:  router,
		loaders: loaders,
		deps:    make(map[Path]struct{}),
	}
}

// Path returns the path of the asset being loaded.
func (c *LoadContext) Path() Path { return c.path }

// ReadFile resolves the path through the router and returns the file
// contents. Every path other than the asset's own is recorded as a
// dependency, so a later change to it re-loads this asset.
func (c *LoadContext) ReadFile(p Path) ([]byte, error) {
	resolved, ok := c.router.Resolve(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	data, err := resolved.FS.Read(resolved.Path.Rel())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	if p != c.path {
		c.deps[p] = struct{}{}
	}
	return data, nil
}

// Load runs the loader matching the path's extension. Recursive loads
// accumulate dependencies into this context.
func (c *LoadContext) Load(p Path) (Asset, error) {
	loader, ok := c.loaders.FindByExtension(p.Ext())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoLoaderFound, p)
	}
	sub := *c
	sub.path = p
	asset, err := loader.Load(&sub)
	if err != nil {
		return nil, err
	}
	if p != c.path {
		c.deps[p] = struct{}{}
	}
	return asset, nil
}

// Dependencies returns the dependency set accumulated so far.
func (c *LoadContext) Dependencies() []Path {
	deps := make([]Path, 0, len(c.deps))
	for p := range c.deps {
		deps = append(deps, p)
	}
	return deps
}
