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
	"sync"

	"github.com/vtfr/vislum-sub000/rhi"
)

// TextureID identifies a texture in the resource manager.
type TextureID uint64

// BufferID identifies a buffer in the resource manager.
type BufferID uint64

// Texture is a managed texture resource.
type Texture struct {
	Image *rhi.Image
}

// ResourceManager owns the shared handles of renderer resources. Pass
// prepare callbacks resolve ids through it. The manager holds a handle until
// it is removed and does not track frames in flight; a pass keeps its own
// reference to any handle it resolved.
type ResourceManager struct {
	mu       sync.RWMutex
	next     uint64
	textures map[TextureID]*Texture
	buffers  map[BufferID]*rhi.Buffer
}

// NewResourceManager creates an empty resource manager.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		textures: make(map[TextureID]*Texture),
		buffers:  make(map[BufferID]*rhi.Buffer),
	}
}

// AddTexture registers a texture and returns its id.
func (m *ResourceManager) AddTexture(image *rhi.Image) TextureID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := TextureID(m.next)
	m.textures[id] = &Texture{Image: image}
	return id
}

// Texture resolves a texture id.
func (m *ResourceManager) Texture(id TextureID) (*Texture, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.textures[id]
	return t, ok
}

// RemoveTexture drops a texture from the manager.
func (m *ResourceManager) RemoveTexture(id TextureID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.textures, id)
}

// AddBuffer registers a buffer and returns its id.
func (m *ResourceManager) AddBuffer(buffer *rhi.Buffer) BufferID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := BufferID(m.next)
	m.buffers[id] = buffer
	return id
}

// Buffer resolves a buffer id.
func (m *ResourceManager) Buffer(id BufferID) (*rhi.Buffer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.buffers[id]
	return b, ok
}

// RemoveBuffer drops a buffer from the manager.
func (m *ResourceManager) RemoveBuffer(id BufferID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buffers, id)
}
