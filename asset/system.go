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
	"context"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/vtfr/vislum-sub000/internal/telemetry"
	"github.com/vtfr/vislum-sub000/log"
)

// ID uniquely identifies an asset tracked by the system.
type ID string

// newID generates a fresh asset id.
func newID() ID { return ID(uuid.NewString()) }

// State is the loading state of a tracked asset.
type State int

const (
	// StateLoading marks an asset with an outstanding load.
	StateLoading State = iota
	// StateLoaded marks a successfully loaded asset.
	StateLoaded
	// StateFailed marks an asset whose last load failed.
	StateFailed
)

// event is a message on the system's internal channel.
type event interface{ isEvent() }

// changedEvent reports that the content behind a path changed.
type changedEvent struct {
	path Path
}

func (changedEvent) isEvent() {}

// loadedEvent reports the completion of one load.
type loadedEvent struct {
	path  Path
	asset Asset
	err   error
	deps  []Path
}

func (loadedEvent) isEvent() {}

type assetEntry struct {
	id    ID
	state State
	asset Asset
	err   error
	deps  map[Path]struct{}
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	workers    int
	bufferSize int
}

// WithWorkers caps the number of concurrent load workers (default: 4).
func WithWorkers(n int) SystemOption {
	return func(o *systemOptions) { o.workers = n }
}

// WithEventBufferSize sets the internal event channel capacity
// (default: 256).
func WithEventBufferSize(n int) SystemOption {
	return func(o *systemOptions) { o.bufferSize = n }
}

// System ingests load requests and tracks per-path asset state.
//
// Loads run on a worker pool, one task per outstanding request; each worker
// owns its LoadContext and finishes by publishing a completion event on the
// internal channel. The state map is only touched by the goroutine calling
// ProcessEvents/WaitIdle, which keeps loads free of shared mutable state.
type System struct {
	loaders *Loaders
	router  Router

	events  chan event
	pool    *ants.Pool
	entries map[Path]*assetEntry
	loading int
}

// NewSystem creates an asset system over the given loaders.
func NewSystem(loaders *Loaders, opts ...SystemOption) *System {
	options := systemOptions{workers: 4, bufferSize: 256}
	for _, opt := range opts {
		opt(&options)
	}
	pool, err := ants.NewPool(options.workers)
	if err != nil {
		// Only reachable with invalid pool options; none are passed.
		panic(err)
	}
	return &System{
		loaders: loaders,
		events:  make(chan event, options.bufferSize),
		pool:    pool,
		entries: make(map[Path]*assetEntry),
	}
}

// AddFS mounts a filesystem entry on the router. Replacing an existing
// mount logs the replaced root; assets already loaded from it keep their
// state until the next change event.
func (s *System) AddFS(entry RouterEntry) {
	if replaced := s.router.Add(entry); replaced != nil {
		log.Warnf("virtual filesystem entry replaced: %s", replaced.Root)
	}
}

// NotifyChanged implements ChangeNotifier. Safe to call from watcher
// goroutines.
func (s *System) NotifyChanged(path Path) {
	s.events <- changedEvent{path: path}
}

// LoadAsync requests a background load of the asset at path and returns its
// id. Requests for paths that are already loading or loaded are no-ops;
// failed assets are retried.
func (s *System) LoadAsync(path Path) ID {
	if entry, ok := s.entries[path]; ok {
		if entry.state == StateLoading || entry.state == StateLoaded {
			return entry.id
		}
	}
	return s.spawnLoad(path)
}

// spawnLoad marks the path loading and submits a worker task.
func (s *System) spawnLoad(path Path) ID {
	entry, ok := s.entries[path]
	if !ok {
		entry = &assetEntry{id: newID()}
		s.entries[path] = entry
	}
	entry.state = StateLoading
	s.loading++

	ctx := NewLoadContext(path, s.router.clone(), s.loaders)
	if err := s.pool.Submit(func() { s.runLoad(ctx) }); err != nil {
		// The pool only rejects when released; treat it as a failed load.
		s.loading--
		entry.state = StateFailed
		entry.err = err
	}
	return entry.id
}

// runLoad executes on a worker goroutine.
func (s *System) runLoad(ctx *LoadContext) {
	spanCtx, span := telemetry.StartSpan(context.Background(), telemetry.SpanNameLoadAsset,
		attribute.String(telemetry.KeyAssetPath, ctx.Path().String()))

	asset, err := ctx.Load(ctx.Path())

	result := "ok"
	if err != nil {
		result = "error"
	}
	telemetry.AssetLoadCount.Add(spanCtx, 1,
		metric.WithAttributes(attribute.String(telemetry.KeyResultKind, result)))
	telemetry.EndSpan(span, err)

	s.events <- loadedEvent{
		path:  ctx.Path(),
		asset: asset,
		err:   err,
		deps:  ctx.Dependencies(),
	}
}

// ProcessEvents drains the internal channel without blocking, applying
// completions and fanning re-loads out to the dependents of changed paths.
func (s *System) ProcessEvents() {
	changed := make(map[Path]struct{})
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev, changed)
		default:
			s.reloadChanged(changed)
			return
		}
	}
}

// WaitIdle blocks, processing events, until no loads are outstanding.
func (s *System) WaitIdle() {
	changed := make(map[Path]struct{})
	for {
		s.reloadChanged(changed)
		changed = make(map[Path]struct{})
		if s.loading == 0 {
			return
		}
		s.handleEvent(<-s.events, changed)
	}
}

func (s *System) handleEvent(ev event, changed map[Path]struct{}) {
	switch ev := ev.(type) {
	case loadedEvent:
		s.loading--
		entry, ok := s.entries[ev.path]
		if !ok {
			// The entry vanished: the asset was forgotten while
			// loading. Drop the result.
			return
		}
		if ev.err != nil {
			entry.state = StateFailed
			entry.err = ev.err
			entry.asset = nil
			entry.deps = nil
			log.Errorf("failed to load asset %s: %v", ev.path, ev.err)
			return
		}
		entry.state = StateLoaded
		entry.err = nil
		entry.asset = ev.asset
		// The asset's own path belongs to its dependency set, so change
		// fan-out treats direct edits and include edits uniformly.
		entry.deps = make(map[Path]struct{}, len(ev.deps)+1)
		entry.deps[ev.path] = struct{}{}
		for _, dep := range ev.deps {
			entry.deps[dep] = struct{}{}
		}
		log.Debugf("loaded asset %s (%d dependencies)", ev.path, len(ev.deps))
	case changedEvent:
		changed[ev.path] = struct{}{}
	}
}

// reloadChanged re-loads every tracked asset affected by the changed paths:
// the assets themselves and every asset whose dependency set contains one.
func (s *System) reloadChanged(changed map[Path]struct{}) {
	if len(changed) == 0 {
		return
	}
	for path, entry := range s.entries {
		if entry.state == StateLoading {
			continue
		}
		if _, ok := changed[path]; ok {
			log.Infof("hot reloading asset %s", path)
			s.spawnLoad(path)
			continue
		}
		for dep := range entry.deps {
			if _, ok := changed[dep]; ok {
				log.Infof("hot reloading asset %s (dependency %s changed)", path, dep)
				s.spawnLoad(path)
				break
			}
		}
	}
}

// Ready reports whether no assets are in the loading state.
func (s *System) Ready() bool { return s.loading == 0 }

// State returns the loading state of the asset at path.
func (s *System) State(path Path) (State, bool) {
	entry, ok := s.entries[path]
	if !ok {
		return 0, false
	}
	return entry.state, true
}

// Err returns the failure of the asset at path, if it is in the failed
// state.
func (s *System) Err(path Path) error {
	if entry, ok := s.entries[path]; ok && entry.state == StateFailed {
		return entry.err
	}
	return nil
}

// Dependencies returns the recorded dependency set of a loaded asset.
func (s *System) Dependencies(path Path) []Path {
	entry, ok := s.entries[path]
	if !ok {
		return nil
	}
	deps := make([]Path, 0, len(entry.deps))
	for dep := range entry.deps {
		deps = append(deps, dep)
	}
	return deps
}

// Close releases the worker pool. Outstanding loads finish; their events
// remain on the channel.
func (s *System) Close() {
	s.pool.Release()
}

// Get returns the loaded asset at path cast to T. It returns false while
// the asset is loading, failed, untracked, or of a different type.
func Get[T Asset](s *System, path Path) (T, bool) {
	var zero T
	entry, ok := s.entries[path]
	if !ok || entry.state != StateLoaded {
		return zero, false
	}
	asset, ok := entry.asset.(T)
	if !ok {
		return zero, false
	}
	return asset, true
}
