//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package render

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vtfr/vislum-sub000/internal/telemetry"
	"github.com/vtfr/vislum-sub000/log"
	"github.com/vtfr/vislum-sub000/rhi"
)

// PassResource is one declared resource usage of a pass.
type PassResource struct {
	Texture TextureID
	Buffer  BufferID
}

// PrepareContext resolves resources for a pass and records which of them
// the pass reads and writes. The declarations are stored with the pass and
// reported in trace logging; barriers are not derived from them but from
// the commands the encoder records.
type PrepareContext struct {
	resources *ResourceManager
	reads     []PassResource
	writes    []PassResource
}

// ReadTexture declares a texture read and resolves its image.
func (p *PrepareContext) ReadTexture(id TextureID) (*rhi.Image, bool) {
	p.reads = append(p.reads, PassResource{Texture: id})
	texture, ok := p.resources.Texture(id)
	if !ok {
		return nil, false
	}
	return texture.Image, true
}

// WriteTexture declares a texture write and resolves its image.
func (p *PrepareContext) WriteTexture(id TextureID) (*rhi.Image, bool) {
	p.writes = append(p.writes, PassResource{Texture: id})
	texture, ok := p.resources.Texture(id)
	if !ok {
		return nil, false
	}
	return texture.Image, true
}

// ReadBuffer declares a buffer read and resolves it.
func (p *PrepareContext) ReadBuffer(id BufferID) (*rhi.Buffer, bool) {
	p.reads = append(p.reads, PassResource{Buffer: id})
	return p.resources.Buffer(id)
}

// WriteBuffer declares a buffer write and resolves it.
func (p *PrepareContext) WriteBuffer(id BufferID) (*rhi.Buffer, bool) {
	p.writes = append(p.writes, PassResource{Buffer: id})
	return p.resources.Buffer(id)
}

// ExecuteContext is handed to pass execute callbacks.
type ExecuteContext struct {
	// Encoder records the pass's commands with automatic barriers.
	Encoder *CommandEncoder
}

// framePass is one recorded pass: the type-erased execute callback bound to
// its prepared state, plus the declared resource usage.
type framePass struct {
	name    string
	reads   []PassResource
	writes  []PassResource
	execute func(*ExecuteContext) error
}

// FrameGraph records one frame's passes and submits them as a single
// primary command buffer. It is a per-frame structure: ExecuteAndSubmit
// consumes the pass list.
type FrameGraph struct {
	queue     rhi.Queue
	resources *ResourceManager
	passes    []framePass
}

// NewFrameGraph creates a frame graph recording against the given queue
// and resource manager.
func NewFrameGraph(queue rhi.Queue, resources *ResourceManager) *FrameGraph {
	return &FrameGraph{queue: queue, resources: resources}
}

// NumPasses returns the number of recorded passes.
func (g *FrameGraph) NumPasses() int { return len(g.passes) }

// AddPass records a pass. The prepare callback runs immediately with read
// access to the resource manager and returns the pass's state; the execute
// callback runs during ExecuteAndSubmit with the state and a command
// encoder.
func AddPass[S any](
	g *FrameGraph,
	name string,
	prepare func(*PrepareContext) (S, error),
	execute func(*ExecuteContext, S) error,
) error {
	prepareCtx := PrepareContext{resources: g.resources}
	state, err := prepare(&prepareCtx)
	if err != nil {
		return fmt.Errorf("prepare pass %q: %w", name, err)
	}

	g.passes = append(g.passes, framePass{
		name:   name,
		reads:  prepareCtx.reads,
		writes: prepareCtx.writes,
		execute: func(ctx *ExecuteContext) error {
			return execute(ctx, state)
		},
	})
	return nil
}

// ExecuteAndSubmit records every pass in insertion order into one primary
// command buffer and submits it with the given synchronization. The pass
// list is drained; errors surface to the caller and nothing is retried.
func (g *FrameGraph) ExecuteAndSubmit(ctx context.Context, info rhi.SubmitInfo) error {
	passes := g.passes
	g.passes = nil

	spanCtx, span := telemetry.StartSpan(ctx, telemetry.SpanNameFrameSubmit,
		attribute.Int("vislum.pass_count", len(passes)))
	err := g.recordAndSubmit(spanCtx, passes, info)
	telemetry.EndSpan(span, err)
	return err
}

func (g *FrameGraph) recordAndSubmit(_ context.Context, passes []framePass, info rhi.SubmitInfo) error {
	recorder, err := g.queue.NewCommandRecorder()
	if err != nil {
		return fmt.Errorf("create command recorder: %w", err)
	}

	encoder := NewCommandEncoder(recorder, NewResourceStateTracker())
	executeCtx := &ExecuteContext{Encoder: encoder}

	for i := range passes {
		pass := &passes[i]
		log.Tracef("frame graph: executing pass %q (%d reads, %d writes)",
			pass.name, len(pass.reads), len(pass.writes))
		if err := pass.execute(executeCtx); err != nil {
			return fmt.Errorf("execute pass %q: %w", pass.name, err)
		}
	}

	if err := encoder.End(); err != nil {
		return fmt.Errorf("end recording: %w", err)
	}
	if err := g.queue.Submit(recorder, info); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	return nil
}
