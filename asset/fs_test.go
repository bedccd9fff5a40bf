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
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier collects change notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	paths []Path
}

func (n *recordingNotifier) NotifyChanged(p Path) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, p)
}

func (n *recordingNotifier) seen(p Path) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, got := range n.paths {
		if got == p {
			return true
		}
	}
	return false
}

func TestPhysicalFSWatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sky.wgsl")
	require.NoError(t, os.WriteFile(file, []byte("fn sky() {}\n"), 0o644))
	ignoredFile := filepath.Join(dir, "scratch.tmp")
	require.NoError(t, os.WriteFile(ignoredFile, []byte("x"), 0o644))

	fs := NewPhysicalFS(dir)
	defer fs.Close()

	notifier := &recordingNotifier{}
	mount := NewProjectPath("")
	require.NoError(t, fs.Watch(notifier, mount, WatchOptions{
		Interval: 20 * time.Millisecond,
		Ignore:   []string{"**/*.tmp", "*.tmp"},
	}))

	// Watching twice is rejected.
	require.Error(t, fs.Watch(notifier, mount, WatchOptions{}))

	// Give the watcher a poll cycle before mutating.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("fn sky2() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(ignoredFile, []byte("xx"), 0o644))

	require.Eventually(t, func() bool {
		return notifier.seen(NewProjectPath("sky.wgsl"))
	}, 5*time.Second, 20*time.Millisecond, "watcher reports the modified file")

	assert.False(t, notifier.seen(NewProjectPath("scratch.tmp")),
		"ignored patterns are filtered")

	data, err := fs.Read("sky.wgsl")
	require.NoError(t, err)
	assert.Equal(t, "fn sky2() {}\n", string(data))
}
