//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathRoundTrip(t *testing.T) {
	tests := []string{
		"vislum://shaders/blit.wgsl",
		"project://textures/noise.png",
		"project://",
		"vislum://a/b/c.d",
	}
	for _, raw := range tests {
		p, err := ParsePath(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, p.String())

		back, err := ParsePath(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}
}

func TestParsePathRejects(t *testing.T) {
	_, err := ParsePath("shaders/blit.wgsl")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = ParsePath("library://shaders/blit.wgsl")
	assert.ErrorIs(t, err, ErrUnknownNamespace)
}

func TestPathAccessors(t *testing.T) {
	p := NewProjectPath("shaders/sky.wgsl")
	assert.Equal(t, NamespaceProject, p.Namespace())
	assert.Equal(t, "shaders/sky.wgsl", p.Rel())
	assert.Equal(t, "wgsl", p.Ext())
	assert.Equal(t, NewProjectPath("shaders"), p.Dir())
	assert.Equal(t, NewProjectPath("shaders/common.wgsl"), p.Dir().Join("common.wgsl"))
}

func TestPathHasPrefix(t *testing.T) {
	p := NewProjectPath("shaders/sky.wgsl")

	assert.True(t, p.HasPrefix(NewProjectPath("")))
	assert.True(t, p.HasPrefix(NewProjectPath("shaders")))
	assert.True(t, p.HasPrefix(p))
	assert.False(t, p.HasPrefix(NewProjectPath("shade")), "prefix must end on a segment")
	assert.False(t, p.HasPrefix(NewVislumPath("shaders")), "namespaces must match")
}

func TestPathStripPrefix(t *testing.T) {
	p := NewProjectPath("shaders/sky.wgsl")

	stripped, ok := p.StripPrefix(NewProjectPath("shaders"))
	require.True(t, ok)
	assert.Equal(t, NewProjectPath("sky.wgsl"), stripped)

	stripped, ok = p.StripPrefix(NewProjectPath(""))
	require.True(t, ok)
	assert.Equal(t, p, stripped)

	_, ok = p.StripPrefix(NewProjectPath("textures"))
	assert.False(t, ok)
}

func TestPathAsMapKey(t *testing.T) {
	seen := map[Path]int{
		NewProjectPath("a.wgsl"): 1,
	}
	p, err := ParsePath("project://a.wgsl")
	require.NoError(t, err)
	assert.Equal(t, 1, seen[p])
}
