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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtfr/vislum-sub000/rhi"
)

func testImage(name string) *rhi.Image {
	return rhi.NewImage(name, rhi.Extent3D{Width: 4, Height: 4, Depth: 1})
}

func TestTransitionImageFirstTouch(t *testing.T) {
	tracker := NewResourceStateTracker()
	image := testImage("target")

	barrier := tracker.TransitionImage(image,
		rhi.ImageLayoutTransferDstOptimal,
		rhi.AccessTransferWrite,
		rhi.PipelineStageTransfer)
	require.NotNil(t, barrier)

	assert.Equal(t, rhi.ImageLayoutUndefined, barrier.OldLayout)
	assert.Equal(t, rhi.ImageLayoutTransferDstOptimal, barrier.NewLayout)
	assert.Equal(t, rhi.AccessNone, barrier.SrcAccessMask)
	assert.Equal(t, rhi.AccessTransferWrite, barrier.DstAccessMask)
	assert.Equal(t, rhi.PipelineStageTopOfPipe, barrier.SrcStageMask)
	assert.Equal(t, rhi.PipelineStageTransfer, barrier.DstStageMask)
	assert.Equal(t, rhi.QueueFamilyIgnored, barrier.SrcQueueFamily)
	assert.Equal(t, rhi.QueueFamilyIgnored, barrier.DstQueueFamily)
}

func TestTransitionImageNoOpWhenStateMatches(t *testing.T) {
	tracker := NewResourceStateTracker()
	image := testImage("target")

	require.NotNil(t, tracker.TransitionImage(image,
		rhi.ImageLayoutTransferDstOptimal, rhi.AccessTransferWrite, rhi.PipelineStageTransfer))

	barrier := tracker.TransitionImage(image,
		rhi.ImageLayoutTransferDstOptimal, rhi.AccessTransferWrite, rhi.PipelineStageTransfer)
	assert.Nil(t, barrier, "matching (layout, access) must not re-emit")
}

func TestTransitionImageUsesRecordedSourceState(t *testing.T) {
	tracker := NewResourceStateTracker()
	image := testImage("target")

	tracker.TransitionImage(image,
		rhi.ImageLayoutTransferDstOptimal, rhi.AccessTransferWrite, rhi.PipelineStageTransfer)

	barrier := tracker.TransitionImage(image,
		rhi.ImageLayoutShaderReadOnlyOptimal, rhi.AccessShaderRead, rhi.PipelineStageFragmentShader)
	require.NotNil(t, barrier)

	assert.Equal(t, rhi.ImageLayoutTransferDstOptimal, barrier.OldLayout)
	assert.Equal(t, rhi.AccessTransferWrite, barrier.SrcAccessMask)
	assert.Equal(t, rhi.PipelineStageTransfer, barrier.SrcStageMask)
	assert.Equal(t, rhi.ImageLayoutShaderReadOnlyOptimal, barrier.NewLayout)
}

func TestTrackedLayoutFollowsLastTransition(t *testing.T) {
	tracker := NewResourceStateTracker()
	image := testImage("target")

	layouts := []rhi.ImageLayout{
		rhi.ImageLayoutTransferDstOptimal,
		rhi.ImageLayoutShaderReadOnlyOptimal,
		rhi.ImageLayoutColorAttachmentOptimal,
		rhi.ImageLayoutPresentSrc,
	}
	for _, layout := range layouts {
		stage, access := layoutStagesAccess(layout)
		tracker.TransitionImage(image, layout, access, stage)
		assert.Equal(t, layout, tracker.ImageLayout(image))
	}
}

func TestTrackerSeparatesImages(t *testing.T) {
	tracker := NewResourceStateTracker()
	a := testImage("a")
	b := testImage("b")

	tracker.TransitionImage(a,
		rhi.ImageLayoutTransferDstOptimal, rhi.AccessTransferWrite, rhi.PipelineStageTransfer)

	assert.Equal(t, rhi.ImageLayoutUndefined, tracker.ImageLayout(b))
	barrier := tracker.TransitionImage(b,
		rhi.ImageLayoutTransferDstOptimal, rhi.AccessTransferWrite, rhi.PipelineStageTransfer)
	assert.NotNil(t, barrier, "state is tracked per image")
}

func TestTrackBufferAccess(t *testing.T) {
	tracker := NewResourceStateTracker()
	buffer := rhi.NewBuffer("staging", 256)

	// First touch records state without a barrier.
	assert.Nil(t, tracker.TrackBufferAccess(buffer,
		rhi.AccessTransferWrite, rhi.PipelineStageTransfer))

	// Read after write needs a barrier.
	barrier := tracker.TrackBufferAccess(buffer,
		rhi.AccessShaderRead, rhi.PipelineStageFragmentShader)
	require.NotNil(t, barrier)
	assert.Equal(t, rhi.AccessTransferWrite, barrier.SrcAccessMask)
	assert.Equal(t, rhi.AccessShaderRead, barrier.DstAccessMask)

	// Read after read does not.
	assert.Nil(t, tracker.TrackBufferAccess(buffer,
		rhi.AccessShaderRead, rhi.PipelineStageFragmentShader))
}
