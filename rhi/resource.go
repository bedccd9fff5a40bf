//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package rhi

import "sync/atomic"

var nextHandle atomic.Uint64

// Handle is an opaque backend resource handle. Handles are unique per
// process and identify resources in state tracking tables.
type Handle uint64

func newHandle() Handle {
	return Handle(nextHandle.Add(1))
}

// Image is a GPU image. Images are shared by pointer; the frame graph keeps
// references alive through submission.
type Image struct {
	handle Handle

	// Name labels the image in logs and debugging tools.
	Name string
	// Extent is the size of the top mip level.
	Extent Extent3D
	// InitialLayout is the layout the image was created in.
	InitialLayout ImageLayout
}

// NewImage creates an image description with a fresh handle.
// A real backend allocates memory behind the handle; the core only tracks
// identity and metadata.
func NewImage(name string, extent Extent3D) *Image {
	return &Image{
		handle:        newHandle(),
		Name:          name,
		Extent:        extent,
		InitialLayout: ImageLayoutUndefined,
	}
}

// Handle returns the image's unique handle.
func (i *Image) Handle() Handle { return i.handle }

// Buffer is a GPU buffer. Buffers are shared by pointer.
type Buffer struct {
	handle Handle

	// Name labels the buffer in logs and debugging tools.
	Name string
	// Size is the buffer size in bytes.
	Size uint64
}

// NewBuffer creates a buffer description with a fresh handle.
func NewBuffer(name string, size uint64) *Buffer {
	return &Buffer{handle: newHandle(), Name: name, Size: size}
}

// Handle returns the buffer's unique handle.
func (b *Buffer) Handle() Handle { return b.handle }

// Pipeline is an opaque graphics or compute pipeline.
type Pipeline struct {
	handle Handle

	// Name labels the pipeline.
	Name string
}

// NewPipeline creates a pipeline description with a fresh handle.
func NewPipeline(name string) *Pipeline {
	return &Pipeline{handle: newHandle(), Name: name}
}

// Handle returns the pipeline's unique handle.
func (p *Pipeline) Handle() Handle { return p.handle }

// Semaphore is an opaque GPU synchronization primitive.
type Semaphore struct {
	handle Handle
}

// NewSemaphore creates a semaphore handle.
func NewSemaphore() *Semaphore { return &Semaphore{handle: newHandle()} }

// Fence is an opaque CPU-visible synchronization primitive.
type Fence struct {
	handle Handle
}

// NewFence creates a fence handle.
func NewFence() *Fence { return &Fence{handle: newHandle()} }
