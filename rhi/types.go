//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

// Package rhi defines the Vulkan-shaped rendering hardware interface the
// frame graph records against: image layouts, access and stage masks,
// barrier and copy descriptions, and the command recording and submission
// surfaces implemented by a real backend.
package rhi

// ImageLayout is the layout of an image's memory.
type ImageLayout int32

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutDepthStencilReadOnlyOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferSrcOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPreinitialized
	ImageLayoutPresentSrc
)

func (l ImageLayout) String() string {
	switch l {
	case ImageLayoutUndefined:
		return "Undefined"
	case ImageLayoutGeneral:
		return "General"
	case ImageLayoutColorAttachmentOptimal:
		return "ColorAttachmentOptimal"
	case ImageLayoutDepthStencilAttachmentOptimal:
		return "DepthStencilAttachmentOptimal"
	case ImageLayoutDepthStencilReadOnlyOptimal:
		return "DepthStencilReadOnlyOptimal"
	case ImageLayoutShaderReadOnlyOptimal:
		return "ShaderReadOnlyOptimal"
	case ImageLayoutTransferSrcOptimal:
		return "TransferSrcOptimal"
	case ImageLayoutTransferDstOptimal:
		return "TransferDstOptimal"
	case ImageLayoutPreinitialized:
		return "Preinitialized"
	case ImageLayoutPresentSrc:
		return "PresentSrc"
	default:
		return "Unknown"
	}
}

// AccessFlags is a bitmask of memory access kinds.
type AccessFlags uint64

const (
	AccessNone                 AccessFlags = 0
	AccessIndexRead            AccessFlags = 1 << 1
	AccessVertexAttributeRead  AccessFlags = 1 << 2
	AccessUniformRead          AccessFlags = 1 << 3
	AccessShaderRead           AccessFlags = 1 << 5
	AccessShaderWrite          AccessFlags = 1 << 6
	AccessColorAttachmentRead  AccessFlags = 1 << 7
	AccessColorAttachmentWrite AccessFlags = 1 << 8
	AccessDepthStencilRead     AccessFlags = 1 << 9
	AccessDepthStencilWrite    AccessFlags = 1 << 10
	AccessTransferRead         AccessFlags = 1 << 11
	AccessTransferWrite        AccessFlags = 1 << 12
	AccessMemoryRead           AccessFlags = 1 << 15
	AccessMemoryWrite          AccessFlags = 1 << 16
)

// PipelineStageFlags is a bitmask of pipeline stages.
type PipelineStageFlags uint64

const (
	PipelineStageNone                  PipelineStageFlags = 0
	PipelineStageTopOfPipe             PipelineStageFlags = 1 << 0
	PipelineStageVertexInput           PipelineStageFlags = 1 << 2
	PipelineStageVertexShader          PipelineStageFlags = 1 << 3
	PipelineStageFragmentShader        PipelineStageFlags = 1 << 7
	PipelineStageEarlyFragmentTests    PipelineStageFlags = 1 << 8
	PipelineStageLateFragmentTests     PipelineStageFlags = 1 << 9
	PipelineStageColorAttachmentOutput PipelineStageFlags = 1 << 10
	PipelineStageComputeShader         PipelineStageFlags = 1 << 11
	PipelineStageTransfer              PipelineStageFlags = 1 << 12
	PipelineStageBottomOfPipe          PipelineStageFlags = 1 << 13
	PipelineStageAllCommands           PipelineStageFlags = 1 << 16
)

// QueueFamilyIgnored marks a barrier that performs no queue family
// ownership transfer.
const QueueFamilyIgnored uint32 = ^uint32(0)

// ImageMemoryBarrier describes one image layout transition with its memory
// dependency.
type ImageMemoryBarrier struct {
	Image          *Image
	OldLayout      ImageLayout
	NewLayout      ImageLayout
	SrcAccessMask  AccessFlags
	DstAccessMask  AccessFlags
	SrcStageMask   PipelineStageFlags
	DstStageMask   PipelineStageFlags
	SrcQueueFamily uint32
	DstQueueFamily uint32
}

// BufferMemoryBarrier describes a memory dependency on a buffer range.
type BufferMemoryBarrier struct {
	Buffer         *Buffer
	SrcAccessMask  AccessFlags
	DstAccessMask  AccessFlags
	SrcStageMask   PipelineStageFlags
	DstStageMask   PipelineStageFlags
	SrcQueueFamily uint32
	DstQueueFamily uint32
	Offset         uint64
	Size           uint64
}

// BufferCopy describes one buffer-to-buffer copy region.
type BufferCopy struct {
	SrcOffset uint64
	DstOffset uint64
	Size      uint64
}

// BufferImageCopy describes one buffer-to-image copy region.
type BufferImageCopy struct {
	BufferOffset uint64
	ImageExtent  Extent3D
	MipLevel     uint32
	ArrayLayer   uint32
}

// Extent3D is a three dimensional extent.
type Extent3D struct {
	Width  uint32
	Height uint32
	Depth  uint32
}

// Viewport is a framebuffer viewport rectangle.
type Viewport struct {
	X        float32
	Y        float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

// Rect2D is an integer rectangle.
type Rect2D struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// LoadOp selects how an attachment is initialized when rendering begins.
type LoadOp int32

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

// StoreOp selects what happens to an attachment when rendering ends.
type StoreOp int32

const (
	StoreOpStore StoreOp = iota
	StoreOpDontCare
)

// ClearColor is an RGBA clear value.
type ClearColor [4]float32

// RenderingAttachment describes one attachment of a dynamic rendering pass.
type RenderingAttachment struct {
	Image      *Image
	Layout     ImageLayout
	LoadOp     LoadOp
	StoreOp    StoreOp
	ClearColor ClearColor
}

// RenderingInfo describes a dynamic rendering pass.
type RenderingInfo struct {
	RenderArea      Rect2D
	ColorAttachment *RenderingAttachment
	DepthAttachment *RenderingAttachment
}

// IndexType is the width of index buffer elements.
type IndexType int32

const (
	IndexTypeUint16 IndexType = iota
	IndexTypeUint32
)
