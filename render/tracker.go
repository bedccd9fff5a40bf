//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

// Package render provides the frame graph: per-frame pass recording with
// declared resource usage, automatic image layout transitions and memory
// barriers, and single-queue submission.
package render

import "github.com/vtfr/vislum-sub000/rhi"

// imageState is the tracked state of one image during a recording.
type imageState struct {
	layout     rhi.ImageLayout
	lastAccess rhi.AccessFlags
	lastStage  rhi.PipelineStageFlags
}

// bufferState is the tracked state of one buffer during a recording.
type bufferState struct {
	lastAccess rhi.AccessFlags
	lastStage  rhi.PipelineStageFlags
}

// ResourceStateTracker remembers each resource's current layout and last
// access so the encoder can synthesize the minimal set of barriers. Its
// lifetime spans one command buffer recording.
type ResourceStateTracker struct {
	images  map[rhi.Handle]*imageState
	buffers map[rhi.Handle]*bufferState
}

// NewResourceStateTracker creates an empty tracker.
func NewResourceStateTracker() *ResourceStateTracker {
	return &ResourceStateTracker{
		images:  make(map[rhi.Handle]*imageState),
		buffers: make(map[rhi.Handle]*bufferState),
	}
}

// layoutStagesAccess derives source stages and access for an image whose
// state was never recorded, from the layout it is known to be in.
func layoutStagesAccess(layout rhi.ImageLayout) (rhi.PipelineStageFlags, rhi.AccessFlags) {
	switch layout {
	case rhi.ImageLayoutUndefined, rhi.ImageLayoutPreinitialized:
		return rhi.PipelineStageTopOfPipe, rhi.AccessNone
	case rhi.ImageLayoutGeneral:
		return rhi.PipelineStageAllCommands, rhi.AccessMemoryRead | rhi.AccessMemoryWrite
	case rhi.ImageLayoutColorAttachmentOptimal:
		return rhi.PipelineStageColorAttachmentOutput, rhi.AccessColorAttachmentWrite
	case rhi.ImageLayoutDepthStencilAttachmentOptimal:
		return rhi.PipelineStageEarlyFragmentTests | rhi.PipelineStageLateFragmentTests,
			rhi.AccessDepthStencilWrite
	case rhi.ImageLayoutDepthStencilReadOnlyOptimal:
		return rhi.PipelineStageFragmentShader, rhi.AccessDepthStencilRead
	case rhi.ImageLayoutShaderReadOnlyOptimal:
		return rhi.PipelineStageFragmentShader, rhi.AccessShaderRead
	case rhi.ImageLayoutTransferSrcOptimal:
		return rhi.PipelineStageTransfer, rhi.AccessTransferRead
	case rhi.ImageLayoutTransferDstOptimal:
		return rhi.PipelineStageTransfer, rhi.AccessTransferWrite
	case rhi.ImageLayoutPresentSrc:
		return rhi.PipelineStageBottomOfPipe, rhi.AccessNone
	default:
		return rhi.PipelineStageTopOfPipe, rhi.AccessNone
	}
}

func (t *ResourceStateTracker) imageState(image *rhi.Image) *imageState {
	state, ok := t.images[image.Handle()]
	if !ok {
		stage, access := layoutStagesAccess(image.InitialLayout)
		state = &imageState{
			layout:     image.InitialLayout,
			lastAccess: access,
			lastStage:  stage,
		}
		t.images[image.Handle()] = state
	}
	return state
}

// TransitionImage requests that image be in newLayout for an access of
// dstAccess at dstStage. It returns the barrier to record, or nil when the
// tracked (layout, access) tuple already matches. The tracked state is
// updated either way.
//
// Queue family indices are Ignored on both sides; the frame graph records
// for a single queue and performs no ownership transfers.
func (t *ResourceStateTracker) TransitionImage(
	image *rhi.Image,
	newLayout rhi.ImageLayout,
	dstAccess rhi.AccessFlags,
	dstStage rhi.PipelineStageFlags,
) *rhi.ImageMemoryBarrier {
	state := t.imageState(image)

	if state.layout == newLayout && state.lastAccess == dstAccess {
		state.lastStage = dstStage
		return nil
	}

	barrier := &rhi.ImageMemoryBarrier{
		Image:          image,
		OldLayout:      state.layout,
		NewLayout:      newLayout,
		SrcAccessMask:  state.lastAccess,
		DstAccessMask:  dstAccess,
		SrcStageMask:   state.lastStage,
		DstStageMask:   dstStage,
		SrcQueueFamily: rhi.QueueFamilyIgnored,
		DstQueueFamily: rhi.QueueFamilyIgnored,
	}

	state.layout = newLayout
	state.lastAccess = dstAccess
	state.lastStage = dstStage
	return barrier
}

// ImageLayout returns the tracked layout of the image; Undefined when the
// image was never seen.
func (t *ResourceStateTracker) ImageLayout(image *rhi.Image) rhi.ImageLayout {
	if state, ok := t.images[image.Handle()]; ok {
		return state.layout
	}
	return rhi.ImageLayoutUndefined
}

// TrackBufferAccess requests a buffer access of dstAccess at dstStage. It
// returns a barrier when the previous access must be made visible first
// (a write hazard on either side), otherwise nil.
func (t *ResourceStateTracker) TrackBufferAccess(
	buffer *rhi.Buffer,
	dstAccess rhi.AccessFlags,
	dstStage rhi.PipelineStageFlags,
) *rhi.BufferMemoryBarrier {
	state, ok := t.buffers[buffer.Handle()]
	if !ok {
		t.buffers[buffer.Handle()] = &bufferState{
			lastAccess: dstAccess,
			lastStage:  dstStage,
		}
		return nil
	}

	var barrier *rhi.BufferMemoryBarrier
	if writeAccess(state.lastAccess) || writeAccess(dstAccess) {
		barrier = &rhi.BufferMemoryBarrier{
			Buffer:         buffer,
			SrcAccessMask:  state.lastAccess,
			DstAccessMask:  dstAccess,
			SrcStageMask:   state.lastStage,
			DstStageMask:   dstStage,
			SrcQueueFamily: rhi.QueueFamilyIgnored,
			DstQueueFamily: rhi.QueueFamilyIgnored,
			Size:           buffer.Size,
		}
	}

	state.lastAccess = dstAccess
	state.lastStage = dstStage
	return barrier
}

func writeAccess(access rhi.AccessFlags) bool {
	const writes = rhi.AccessShaderWrite |
		rhi.AccessColorAttachmentWrite |
		rhi.AccessDepthStencilWrite |
		rhi.AccessTransferWrite |
		rhi.AccessMemoryWrite
	return access&writes != 0
}
