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

// textAsset is a trivial asset used by the system tests.
type textAsset struct {
	content string
}

// textLoader loads .txt files verbatim.
type textLoader struct{}

func (textLoader) Extensions() []string { return []string{"txt"} }

func (textLoader) Load(ctx *LoadContext) (Asset, error) {
	data, err := ctx.ReadFile(ctx.Path())
	if err != nil {
		return nil, err
	}
	return &textAsset{content: string(data)}, nil
}

func newTestSystem(t *testing.T) (*System, *MemFS) {
	t.Helper()
	system := NewSystem(NewLoaders(textLoader{}, ShaderLoader{}), WithWorkers(2))
	t.Cleanup(system.Close)

	fs := NewMemFS()
	system.AddFS(RouterEntry{Root: NewProjectPath(""), FS: fs})
	return system, fs
}

func TestSystemLoadAndGet(t *testing.T) {
	system, fs := newTestSystem(t)
	require.NoError(t, fs.WriteFile("hello.txt", []byte("hello")))

	path := NewProjectPath("hello.txt")
	id := system.LoadAsync(path)
	assert.NotEmpty(t, id)

	system.WaitIdle()
	require.True(t, system.Ready())

	text, ok := Get[*textAsset](system, path)
	require.True(t, ok)
	assert.Equal(t, "hello", text.content)

	// Wrong type.
	_, ok = Get[*ShaderAsset](system, path)
	assert.False(t, ok)

	// Repeated loads of a loaded asset are no-ops that keep the id.
	assert.Equal(t, id, system.LoadAsync(path))
}

func TestSystemLoadFailure(t *testing.T) {
	system, fs := newTestSystem(t)

	path := NewProjectPath("missing.txt")
	system.LoadAsync(path)
	system.WaitIdle()

	state, ok := system.State(path)
	require.True(t, ok)
	assert.Equal(t, StateFailed, state)
	assert.ErrorIs(t, system.Err(path), ErrNotFound)

	_, ok = Get[*textAsset](system, path)
	assert.False(t, ok)

	// A failed asset is retried by a later load request.
	require.NoError(t, fs.WriteFile("missing.txt", []byte("found")))
	system.LoadAsync(path)
	system.WaitIdle()

	text, ok := Get[*textAsset](system, path)
	require.True(t, ok)
	assert.Equal(t, "found", text.content)
}

func TestSystemNoLoader(t *testing.T) {
	system, fs := newTestSystem(t)
	require.NoError(t, fs.WriteFile("data.bin", []byte{1, 2, 3}))

	path := NewProjectPath("data.bin")
	system.LoadAsync(path)
	system.WaitIdle()

	assert.ErrorIs(t, system.Err(path), ErrNoLoaderFound)
}

func TestSystemShaderDependencies(t *testing.T) {
	system, fs := newTestSystem(t)
	require.NoError(t, fs.WriteFile("a.wgsl", []byte("#include \"b.wgsl\"\nfn a() {}\n")))
	require.NoError(t, fs.WriteFile("b.wgsl", []byte("fn b() {}\n")))

	path := NewProjectPath("a.wgsl")
	system.LoadAsync(path)
	system.WaitIdle()

	shader, ok := Get[*ShaderAsset](system, path)
	require.True(t, ok)
	assert.Equal(t, "fn b() {}\nfn a() {}\n", shader.Source)

	assert.ElementsMatch(t, []Path{
		NewProjectPath("a.wgsl"),
		NewProjectPath("b.wgsl"),
	}, system.Dependencies(path))
}

func TestSystemHotReloadFanOut(t *testing.T) {
	system, fs := newTestSystem(t)
	require.NoError(t, fs.WriteFile("a.wgsl", []byte("#include \"b.wgsl\"\nfn a() {}\n")))
	require.NoError(t, fs.WriteFile("b.wgsl", []byte("fn b() {}\n")))
	fs.WithNotifier(system, NewProjectPath(""))

	pathA := NewProjectPath("a.wgsl")
	pathB := NewProjectPath("b.wgsl")
	system.LoadAsync(pathA)
	system.LoadAsync(pathB)
	system.WaitIdle()

	// Editing the include re-loads both the include and its dependents.
	require.NoError(t, fs.WriteFile("b.wgsl", []byte("fn b2() {}\n")))
	system.ProcessEvents()

	state, ok := system.State(pathA)
	require.True(t, ok)
	assert.Equal(t, StateLoading, state, "the dependent transitions to loading")

	system.WaitIdle()

	shaderA, ok := Get[*ShaderAsset](system, pathA)
	require.True(t, ok)
	assert.Equal(t, "fn b2() {}\nfn a() {}\n", shaderA.Source)

	shaderB, ok := Get[*ShaderAsset](system, pathB)
	require.True(t, ok)
	assert.Equal(t, "fn b2() {}\n", shaderB.Source)
}

func TestSystemChangeForUntrackedPath(t *testing.T) {
	system, _ := newTestSystem(t)

	system.NotifyChanged(NewProjectPath("unrelated.txt"))
	system.ProcessEvents()

	assert.True(t, system.Ready())
	_, ok := system.State(NewProjectPath("unrelated.txt"))
	assert.False(t, ok)
}
