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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/radovskyb/watcher"
	"github.com/spf13/afero"

	"github.com/vtfr/vislum-sub000/log"
)

// Fs reads file contents for a virtual filesystem entry. Paths are relative
// to the entry the Fs is mounted under.
type Fs interface {
	// Read returns the contents of the file at the given relative path.
	Read(rel string) ([]byte, error)
}

// ChangeNotifier receives change notifications from watching filesystems.
// The asset system implements it.
type ChangeNotifier interface {
	// NotifyChanged reports that the content behind path changed.
	NotifyChanged(path Path)
}

// MemFS is an in-memory filesystem, used for embedded assets and tests.
type MemFS struct {
	fs afero.Fs

	notifier ChangeNotifier
	mount    Path
}

// NewMemFS creates an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{fs: afero.NewMemMapFs()}
}

// WithNotifier makes WriteFile report changes for files under mount.
func (m *MemFS) WithNotifier(notifier ChangeNotifier, mount Path) *MemFS {
	m.notifier = notifier
	m.mount = mount
	return m
}

// Read implements Fs.
func (m *MemFS) Read(rel string) ([]byte, error) {
	data, err := afero.ReadFile(m.fs, rel)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, err
	}
	return data, nil
}

// WriteFile stores content under the given relative path, creating parent
// directories as needed, and notifies the attached notifier if any.
func (m *MemFS) WriteFile(rel string, data []byte) error {
	if dir := filepath.Dir(rel); dir != "." {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(m.fs, rel, data, 0o644); err != nil {
		return err
	}
	if m.notifier != nil {
		m.notifier.NotifyChanged(m.mount.Join(rel))
	}
	return nil
}

// PhysicalFS reads from a root directory on disk. With a watcher attached
// it emits Changed notifications for modified files, debounced by the
// polling interval.
type PhysicalFS struct {
	root string
	fs   afero.Fs

	watch *watcher.Watcher
	done  chan struct{}
}

// NewPhysicalFS creates a filesystem rooted at the given directory.
func NewPhysicalFS(root string) *PhysicalFS {
	return &PhysicalFS{
		root: root,
		fs:   afero.NewBasePathFs(afero.NewOsFs(), root),
	}
}

// Read implements Fs.
func (p *PhysicalFS) Read(rel string) ([]byte, error) {
	data, err := afero.ReadFile(p.fs, rel)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, err
	}
	return data, nil
}

// WatchOptions configures Watch.
type WatchOptions struct {
	// Interval is the polling interval. Defaults to one second.
	Interval time.Duration
	// Ignore lists doublestar patterns of relative paths to skip,
	// e.g. "**/*.tmp".
	Ignore []string
}

// Watch starts a recursive watcher over the root directory. Write and
// create events are reported to the notifier as asset paths under mount.
func (p *PhysicalFS) Watch(notifier ChangeNotifier, mount Path, opts WatchOptions) error {
	if p.watch != nil {
		return fmt.Errorf("filesystem %s is already watching", p.root)
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}

	w := watcher.New()
	w.FilterOps(watcher.Write, watcher.Create)
	if err := w.AddRecursive(p.root); err != nil {
		return fmt.Errorf("watch %s: %w", p.root, err)
	}
	p.watch = w
	p.done = make(chan struct{})

	go p.dispatchEvents(notifier, mount, opts.Ignore)
	go func() {
		if err := w.Start(interval); err != nil {
			log.Errorf("watcher for %s stopped: %v", p.root, err)
		}
	}()
	return nil
}

func (p *PhysicalFS) dispatchEvents(notifier ChangeNotifier, mount Path, ignore []string) {
	defer close(p.done)
	for {
		select {
		case event, ok := <-p.watch.Event:
			if !ok {
				return
			}
			if event.IsDir() {
				continue
			}
			rel, err := filepath.Rel(p.root, event.Path)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if ignored(rel, ignore) {
				continue
			}
			notifier.NotifyChanged(mount.Join(rel))
		case err, ok := <-p.watch.Error:
			if !ok {
				return
			}
			log.Warnf("watcher for %s: %v", p.root, err)
		case <-p.watch.Closed:
			return
		}
	}
}

func ignored(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Close stops the watcher, if any.
func (p *PhysicalFS) Close() {
	if p.watch != nil {
		p.watch.Close()
		<-p.done
		p.watch = nil
	}
}
