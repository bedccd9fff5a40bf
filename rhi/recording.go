//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package rhi

import "errors"

// ErrRecordingEnded is returned by a second call to End and is the panic
// value when a command is recorded after End.
var ErrRecordingEnded = errors.New("command recording already ended")

// Command is one recorded command. The concrete type identifies the
// operation.
type Command any

// Recorded command payloads.
type (
	// CmdPipelineBarrier is a recorded barrier batch.
	CmdPipelineBarrier struct {
		Images  []ImageMemoryBarrier
		Buffers []BufferMemoryBarrier
	}
	// CmdCopyBuffer is a recorded buffer copy.
	CmdCopyBuffer struct {
		Src     *Buffer
		Dst     *Buffer
		Regions []BufferCopy
	}
	// CmdCopyBufferToImage is a recorded buffer-to-image copy.
	CmdCopyBufferToImage struct {
		Src       *Buffer
		Dst       *Image
		DstLayout ImageLayout
		Regions   []BufferImageCopy
	}
	// CmdBeginRendering is a recorded dynamic rendering begin.
	CmdBeginRendering struct {
		Info RenderingInfo
	}
	// CmdEndRendering is a recorded dynamic rendering end.
	CmdEndRendering struct{}
	// CmdBindPipeline is a recorded pipeline bind.
	CmdBindPipeline struct {
		Pipeline *Pipeline
	}
	// CmdBindVertexBuffers is a recorded vertex buffer bind.
	CmdBindVertexBuffers struct {
		FirstBinding uint32
		Buffers      []*Buffer
		Offsets      []uint64
	}
	// CmdBindIndexBuffer is a recorded index buffer bind.
	CmdBindIndexBuffer struct {
		Buffer    *Buffer
		Offset    uint64
		IndexType IndexType
	}
	// CmdSetViewport is a recorded viewport change.
	CmdSetViewport struct {
		Viewport Viewport
	}
	// CmdSetScissor is a recorded scissor change.
	CmdSetScissor struct {
		Scissor Rect2D
	}
	// CmdDrawIndexed is a recorded indexed draw.
	CmdDrawIndexed struct {
		IndexCount    uint32
		InstanceCount uint32
		FirstIndex    uint32
		VertexOffset  int32
		FirstInstance uint32
	}
)

// Recording is an in-memory CommandRecorder. It captures commands in order
// for tests and headless runs.
type Recording struct {
	commands []Command
	ended    bool
}

// NewRecording creates an empty recording.
func NewRecording() *Recording { return &Recording{} }

// Commands returns the recorded commands in order.
func (r *Recording) Commands() []Command { return r.commands }

// Ended reports whether End was called.
func (r *Recording) Ended() bool { return r.ended }

func (r *Recording) record(cmd Command) {
	if r.ended {
		panic(ErrRecordingEnded)
	}
	r.commands = append(r.commands, cmd)
}

// PipelineBarrier implements CommandRecorder.
func (r *Recording) PipelineBarrier(images []ImageMemoryBarrier, buffers []BufferMemoryBarrier) {
	r.record(CmdPipelineBarrier{Images: images, Buffers: buffers})
}

// CopyBuffer implements CommandRecorder.
func (r *Recording) CopyBuffer(src, dst *Buffer, regions []BufferCopy) {
	r.record(CmdCopyBuffer{Src: src, Dst: dst, Regions: regions})
}

// CopyBufferToImage implements CommandRecorder.
func (r *Recording) CopyBufferToImage(src *Buffer, dst *Image, dstLayout ImageLayout, regions []BufferImageCopy) {
	r.record(CmdCopyBufferToImage{Src: src, Dst: dst, DstLayout: dstLayout, Regions: regions})
}

// BeginRendering implements CommandRecorder.
func (r *Recording) BeginRendering(info RenderingInfo) {
	r.record(CmdBeginRendering{Info: info})
}

// EndRendering implements CommandRecorder.
func (r *Recording) EndRendering() {
	r.record(CmdEndRendering{})
}

// BindPipeline implements CommandRecorder.
func (r *Recording) BindPipeline(pipeline *Pipeline) {
	r.record(CmdBindPipeline{Pipeline: pipeline})
}

// BindVertexBuffers implements CommandRecorder.
func (r *Recording) BindVertexBuffers(firstBinding uint32, buffers []*Buffer, offsets []uint64) {
	r.record(CmdBindVertexBuffers{FirstBinding: firstBinding, Buffers: buffers, Offsets: offsets})
}

// BindIndexBuffer implements CommandRecorder.
func (r *Recording) BindIndexBuffer(buffer *Buffer, offset uint64, indexType IndexType) {
	r.record(CmdBindIndexBuffer{Buffer: buffer, Offset: offset, IndexType: indexType})
}

// SetViewport implements CommandRecorder.
func (r *Recording) SetViewport(viewport Viewport) {
	r.record(CmdSetViewport{Viewport: viewport})
}

// SetScissor implements CommandRecorder.
func (r *Recording) SetScissor(scissor Rect2D) {
	r.record(CmdSetScissor{Scissor: scissor})
}

// DrawIndexed implements CommandRecorder.
func (r *Recording) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	r.record(CmdDrawIndexed{
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		VertexOffset:  vertexOffset,
		FirstInstance: firstInstance,
	})
}

// End implements CommandRecorder.
func (r *Recording) End() error {
	if r.ended {
		return ErrRecordingEnded
	}
	r.ended = true
	return nil
}

// Submission is one submission accepted by a RecordingQueue.
type Submission struct {
	Recording *Recording
	Info      SubmitInfo
}

// RecordingQueue is an in-memory Queue that collects submissions.
type RecordingQueue struct {
	submissions []Submission
}

// NewRecordingQueue creates an empty recording queue.
func NewRecordingQueue() *RecordingQueue { return &RecordingQueue{} }

// NewCommandRecorder implements Queue.
func (q *RecordingQueue) NewCommandRecorder() (CommandRecorder, error) {
	return NewRecording(), nil
}

// Submit implements Queue. Submitting an unfinished recording is an error.
func (q *RecordingQueue) Submit(recorder CommandRecorder, info SubmitInfo) error {
	recording, ok := recorder.(*Recording)
	if !ok {
		return errors.New("recorder was not created by this queue")
	}
	if !recording.Ended() {
		return errors.New("recording must end before submission")
	}
	q.submissions = append(q.submissions, Submission{Recording: recording, Info: info})
	return nil
}

// Submissions returns the accepted submissions in order.
func (q *RecordingQueue) Submissions() []Submission { return q.submissions }
