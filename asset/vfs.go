//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package asset

// RouterEntry mounts a filesystem under a root prefix. Requests whose path
// starts with Root are served by FS; with StripPrefix set the request is
// reissued with the root portion removed.
type RouterEntry struct {
	Root        Path
	StripPrefix bool
	FS          Fs
}

// matches reports whether the entry serves the given path.
func (e *RouterEntry) matches(p Path) bool {
	return p.HasPrefix(e.Root)
}

// Resolved is the result of routing a path: the path to hand to the
// backing filesystem and the filesystem itself.
type Resolved struct {
	Path Path
	FS   Fs
}

// Router is an ordered virtual filesystem table. Resolution scans entries
// in insertion order; the first whose root is a path-prefix of the request
// wins.
//
// The router is mutated only by the asset system owner; workers operate on
// value snapshots taken at load submission.
type Router struct {
	entries []RouterEntry
}

// Add installs an entry. An existing entry with the same root is replaced
// and returned so callers can invalidate state that depends on it.
func (r *Router) Add(entry RouterEntry) *RouterEntry {
	for i := range r.entries {
		if r.entries[i].Root == entry.Root {
			replaced := r.entries[i]
			r.entries[i] = entry
			return &replaced
		}
	}
	r.entries = append(r.entries, entry)
	return nil
}

// Resolve routes a path to its serving filesystem.
func (r *Router) Resolve(p Path) (Resolved, bool) {
	for i := range r.entries {
		entry := &r.entries[i]
		if !entry.matches(p) {
			continue
		}
		resolved := p
		if entry.StripPrefix {
			// HasPrefix held in matches, stripping cannot fail.
			resolved, _ = p.StripPrefix(entry.Root)
		}
		return Resolved{Path: resolved, FS: entry.FS}, true
	}
	return Resolved{}, false
}

// clone returns a snapshot safe to hand to a loader worker.
func (r *Router) clone() Router {
	entries := make([]RouterEntry, len(r.entries))
	copy(entries, r.entries)
	return Router{entries: entries}
}
