//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package render

import "github.com/vtfr/vislum-sub000/rhi"

// CommandEncoder wraps a command recorder with automatic resource state
// management. Transitions requested between operations accumulate as
// pending barriers, batched into one PipelineBarrier and flushed before the
// next draw, copy, or render begin, and when recording ends.
type CommandEncoder struct {
	recorder rhi.CommandRecorder
	tracker  *ResourceStateTracker

	pendingImages  []rhi.ImageMemoryBarrier
	pendingBuffers []rhi.BufferMemoryBarrier
}

// NewCommandEncoder creates an encoder over the recorder and tracker.
func NewCommandEncoder(recorder rhi.CommandRecorder, tracker *ResourceStateTracker) *CommandEncoder {
	return &CommandEncoder{recorder: recorder, tracker: tracker}
}

// Tracker returns the encoder's resource state tracker.
func (e *CommandEncoder) Tracker() *ResourceStateTracker { return e.tracker }

// TransitionImage requests an image layout transition. The barrier is
// deferred; no command is recorded when the tracked state already matches.
func (e *CommandEncoder) TransitionImage(
	image *rhi.Image,
	newLayout rhi.ImageLayout,
	dstAccess rhi.AccessFlags,
	dstStage rhi.PipelineStageFlags,
) {
	if barrier := e.tracker.TransitionImage(image, newLayout, dstAccess, dstStage); barrier != nil {
		e.pendingImages = append(e.pendingImages, *barrier)
	}
}

// Flush records all pending barriers as one batch.
func (e *CommandEncoder) Flush() {
	if len(e.pendingImages) == 0 && len(e.pendingBuffers) == 0 {
		return
	}
	e.recorder.PipelineBarrier(e.pendingImages, e.pendingBuffers)
	e.pendingImages = nil
	e.pendingBuffers = nil
}

// CopyBuffer records a buffer copy, synchronizing against prior accesses of
// both buffers.
func (e *CommandEncoder) CopyBuffer(src, dst *rhi.Buffer, regions []rhi.BufferCopy) {
	if barrier := e.tracker.TrackBufferAccess(src, rhi.AccessTransferRead, rhi.PipelineStageTransfer); barrier != nil {
		e.pendingBuffers = append(e.pendingBuffers, *barrier)
	}
	if barrier := e.tracker.TrackBufferAccess(dst, rhi.AccessTransferWrite, rhi.PipelineStageTransfer); barrier != nil {
		e.pendingBuffers = append(e.pendingBuffers, *barrier)
	}
	e.Flush()
	e.recorder.CopyBuffer(src, dst, regions)
}

// CopyBufferToImage records a buffer-to-image copy, transitioning the
// destination into dstLayout first: from Undefined when the image was never
// seen, else from its tracked layout.
func (e *CommandEncoder) CopyBufferToImage(
	src *rhi.Buffer,
	dst *rhi.Image,
	dstLayout rhi.ImageLayout,
	regions []rhi.BufferImageCopy,
) {
	e.TransitionImage(dst, dstLayout, rhi.AccessTransferWrite, rhi.PipelineStageTransfer)
	if barrier := e.tracker.TrackBufferAccess(src, rhi.AccessTransferRead, rhi.PipelineStageTransfer); barrier != nil {
		e.pendingBuffers = append(e.pendingBuffers, *barrier)
	}
	e.Flush()
	e.recorder.CopyBufferToImage(src, dst, dstLayout, regions)
}

// BeginRendering flushes pending barriers and begins a dynamic rendering
// pass.
func (e *CommandEncoder) BeginRendering(info rhi.RenderingInfo) {
	e.Flush()
	e.recorder.BeginRendering(info)
}

// EndRendering ends the current dynamic rendering pass.
func (e *CommandEncoder) EndRendering() {
	e.recorder.EndRendering()
}

// BindPipeline flushes pending barriers and binds a graphics pipeline.
func (e *CommandEncoder) BindPipeline(pipeline *rhi.Pipeline) {
	e.Flush()
	e.recorder.BindPipeline(pipeline)
}

// BindVertexBuffers binds vertex buffers.
func (e *CommandEncoder) BindVertexBuffers(firstBinding uint32, buffers []*rhi.Buffer, offsets []uint64) {
	e.recorder.BindVertexBuffers(firstBinding, buffers, offsets)
}

// BindIndexBuffer binds an index buffer.
func (e *CommandEncoder) BindIndexBuffer(buffer *rhi.Buffer, offset uint64, indexType rhi.IndexType) {
	e.recorder.BindIndexBuffer(buffer, offset, indexType)
}

// SetViewport sets the viewport state.
func (e *CommandEncoder) SetViewport(viewport rhi.Viewport) {
	e.recorder.SetViewport(viewport)
}

// SetScissor sets the scissor state.
func (e *CommandEncoder) SetScissor(scissor rhi.Rect2D) {
	e.recorder.SetScissor(scissor)
}

// DrawIndexed flushes pending barriers and draws indexed primitives.
func (e *CommandEncoder) DrawIndexed(
	indexCount, instanceCount, firstIndex uint32,
	vertexOffset int32,
	firstInstance uint32,
) {
	e.Flush()
	e.recorder.DrawIndexed(indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

// End flushes pending barriers and finishes the recording.
func (e *CommandEncoder) End() error {
	e.Flush()
	return e.recorder.End()
}
