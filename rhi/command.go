//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package rhi

// CommandRecorder records commands into one primary command buffer. A real
// backend translates each call into driver commands; the in-memory
// Recording implementation captures them for inspection.
type CommandRecorder interface {
	// PipelineBarrier records a batch of memory barriers.
	PipelineBarrier(images []ImageMemoryBarrier, buffers []BufferMemoryBarrier)
	// CopyBuffer copies regions between buffers.
	CopyBuffer(src, dst *Buffer, regions []BufferCopy)
	// CopyBufferToImage copies buffer contents into an image that is in
	// dstLayout.
	CopyBufferToImage(src *Buffer, dst *Image, dstLayout ImageLayout, regions []BufferImageCopy)
	// BeginRendering starts a dynamic rendering pass.
	BeginRendering(info RenderingInfo)
	// EndRendering ends the current dynamic rendering pass.
	EndRendering()
	// BindPipeline binds a graphics pipeline.
	BindPipeline(pipeline *Pipeline)
	// BindVertexBuffers binds vertex buffers starting at firstBinding.
	BindVertexBuffers(firstBinding uint32, buffers []*Buffer, offsets []uint64)
	// BindIndexBuffer binds an index buffer.
	BindIndexBuffer(buffer *Buffer, offset uint64, indexType IndexType)
	// SetViewport sets the viewport state.
	SetViewport(viewport Viewport)
	// SetScissor sets the scissor state.
	SetScissor(scissor Rect2D)
	// DrawIndexed draws indexed primitives.
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	// End finishes recording. No further commands may be recorded.
	End() error
}

// SubmitInfo carries the synchronization primitives of one submission.
type SubmitInfo struct {
	WaitSemaphores   []*Semaphore
	SignalSemaphores []*Semaphore
	SignalFence      *Fence
}

// Queue accepts finished command buffers for execution.
type Queue interface {
	// NewCommandRecorder creates a recorder for one primary command
	// buffer.
	NewCommandRecorder() (CommandRecorder, error)
	// Submit enqueues a finished recording with the given
	// synchronization.
	Submit(recorder CommandRecorder, info SubmitInfo) error
}
