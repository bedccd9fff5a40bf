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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtfr/vislum-sub000/rhi"
)

type uploadState struct {
	staging *rhi.Buffer
	target  *rhi.Image
}

func TestFrameGraphExecutesPassesInOrder(t *testing.T) {
	queue := rhi.NewRecordingQueue()
	resources := NewResourceManager()
	targetID := resources.AddTexture(testImage("target"))
	stagingID := resources.AddBuffer(rhi.NewBuffer("staging", 1024))

	g := NewFrameGraph(queue, resources)

	err := AddPass(g, "upload",
		func(p *PrepareContext) (uploadState, error) {
			staging, ok := p.ReadBuffer(stagingID)
			require.True(t, ok)
			target, ok := p.WriteTexture(targetID)
			require.True(t, ok)
			return uploadState{staging: staging, target: target}, nil
		},
		func(ctx *ExecuteContext, s uploadState) error {
			ctx.Encoder.CopyBufferToImage(s.staging, s.target,
				rhi.ImageLayoutTransferDstOptimal,
				[]rhi.BufferImageCopy{{ImageExtent: s.target.Extent}})
			return nil
		})
	require.NoError(t, err)

	err = AddPass(g, "present",
		func(p *PrepareContext) (*rhi.Image, error) {
			target, ok := p.ReadTexture(targetID)
			require.True(t, ok)
			return target, nil
		},
		func(ctx *ExecuteContext, target *rhi.Image) error {
			ctx.Encoder.TransitionImage(target,
				rhi.ImageLayoutPresentSrc, rhi.AccessNone, rhi.PipelineStageBottomOfPipe)
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, 2, g.NumPasses())

	wait := rhi.NewSemaphore()
	signal := rhi.NewSemaphore()
	fence := rhi.NewFence()
	err = g.ExecuteAndSubmit(context.Background(), rhi.SubmitInfo{
		WaitSemaphores:   []*rhi.Semaphore{wait},
		SignalSemaphores: []*rhi.Semaphore{signal},
		SignalFence:      fence,
	})
	require.NoError(t, err)
	assert.Zero(t, g.NumPasses(), "the pass list is drained")

	submissions := queue.Submissions()
	require.Len(t, submissions, 1)
	assert.Equal(t, []*rhi.Semaphore{wait}, submissions[0].Info.WaitSemaphores)
	assert.Equal(t, []*rhi.Semaphore{signal}, submissions[0].Info.SignalSemaphores)
	assert.Same(t, fence, submissions[0].Info.SignalFence)

	commands := submissions[0].Recording.Commands()
	require.Len(t, commands, 3)
	_, ok := commands[0].(rhi.CmdPipelineBarrier)
	assert.True(t, ok, "upload transition")
	_, ok = commands[1].(rhi.CmdCopyBufferToImage)
	assert.True(t, ok, "upload copy")
	barrier, ok := commands[2].(rhi.CmdPipelineBarrier)
	require.True(t, ok, "present transition flushed at end of recording")
	require.Len(t, barrier.Images, 1)
	assert.Equal(t, rhi.ImageLayoutTransferDstOptimal, barrier.Images[0].OldLayout)
	assert.Equal(t, rhi.ImageLayoutPresentSrc, barrier.Images[0].NewLayout)
	assert.True(t, submissions[0].Recording.Ended())
}

func TestFrameGraphPrepareRunsImmediately(t *testing.T) {
	queue := rhi.NewRecordingQueue()
	g := NewFrameGraph(queue, NewResourceManager())

	prepared := false
	executed := false
	err := AddPass(g, "probe",
		func(p *PrepareContext) (struct{}, error) {
			prepared = true
			return struct{}{}, nil
		},
		func(ctx *ExecuteContext, _ struct{}) error {
			executed = true
			return nil
		})
	require.NoError(t, err)
	assert.True(t, prepared, "prepare runs on AddPass")
	assert.False(t, executed, "execute waits for submission")
}

func TestFrameGraphPrepareFailureSkipsPass(t *testing.T) {
	queue := rhi.NewRecordingQueue()
	g := NewFrameGraph(queue, NewResourceManager())

	prepareErr := errors.New("missing resource")
	err := AddPass(g, "broken",
		func(p *PrepareContext) (struct{}, error) {
			return struct{}{}, prepareErr
		},
		func(ctx *ExecuteContext, _ struct{}) error { return nil })
	require.ErrorIs(t, err, prepareErr)
	assert.Zero(t, g.NumPasses())
}

func TestFrameGraphExecuteErrorPropagates(t *testing.T) {
	queue := rhi.NewRecordingQueue()
	g := NewFrameGraph(queue, NewResourceManager())

	execErr := errors.New("record failed")
	require.NoError(t, AddPass(g, "boom",
		func(p *PrepareContext) (struct{}, error) { return struct{}{}, nil },
		func(ctx *ExecuteContext, _ struct{}) error { return execErr }))

	err := g.ExecuteAndSubmit(context.Background(), rhi.SubmitInfo{})
	require.ErrorIs(t, err, execErr)
	assert.Empty(t, queue.Submissions(), "a failed recording is not submitted")
}

func TestFrameGraphEmptySubmission(t *testing.T) {
	queue := rhi.NewRecordingQueue()
	g := NewFrameGraph(queue, NewResourceManager())

	require.NoError(t, g.ExecuteAndSubmit(context.Background(), rhi.SubmitInfo{}))
	submissions := queue.Submissions()
	require.Len(t, submissions, 1)
	assert.Empty(t, submissions[0].Recording.Commands())
}
