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
	"strings"
	"unicode/utf8"
)

// maxIncludeDepth bounds shader include nesting.
const maxIncludeDepth = 64

// ShaderAsset is an assembled shader source with every #include inlined.
type ShaderAsset struct {
	Source string
}

// ShaderLoader loads shader sources, recursively inlining
// `#include "relative/path"` directives. Includes resolve relative to the
// directory of the including file unless they carry a namespace prefix.
type ShaderLoader struct{}

// Extensions implements Loader.
func (ShaderLoader) Extensions() []string {
	return []string{"wgsl"}
}

// Load implements Loader.
func (ShaderLoader) Load(ctx *LoadContext) (Asset, error) {
	sc := shaderContext{ctx: ctx, onStack: make(map[Path]struct{})}
	if err := sc.loadSource(ctx.Path()); err != nil {
		return nil, err
	}
	return &ShaderAsset{Source: sc.out.String()}, nil
}

// shaderContext is the state of one shader assembly: the traversal stack
// doubling as cycle detector and the accumulated output.
type shaderContext struct {
	ctx     *LoadContext
	stack   []Path
	onStack map[Path]struct{}
	out     strings.Builder
}

func (sc *shaderContext) push(p Path) error {
	if _, ok := sc.onStack[p]; ok {
		trace := make([]Path, len(sc.stack), len(sc.stack)+1)
		copy(trace, sc.stack)
		return &DependencyCycleError{Trace: append(trace, p)}
	}
	if len(sc.stack) >= maxIncludeDepth {
		return fmt.Errorf("%w: include depth exceeds %d", ErrInvalidShaderSource, maxIncludeDepth)
	}
	sc.stack = append(sc.stack, p)
	sc.onStack[p] = struct{}{}
	return nil
}

func (sc *shaderContext) pop() {
	p := sc.stack[len(sc.stack)-1]
	sc.stack = sc.stack[:len(sc.stack)-1]
	delete(sc.onStack, p)
}

func (sc *shaderContext) loadSource(p Path) error {
	if err := sc.push(p); err != nil {
		return err
	}
	defer sc.pop()

	data, err := sc.ctx.ReadFile(p)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidShaderSource, p)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		// A split on a trailing newline yields a final empty
		// element; skip it so the output does not grow a blank line.
		if i == len(lines)-1 && line == "" {
			break
		}
		if strings.HasPrefix(line, "#include") {
			include, err := parseIncludePath(p, line)
			if err != nil {
				return err
			}
			if err := sc.loadSource(include); err != nil {
				return err
			}
			// Keep content after the include call-site on its own
			// line.
			out := sc.out.String()
			if len(out) > 0 && !strings.HasSuffix(out, "\n") {
				sc.out.WriteByte('\n')
			}
			continue
		}
		sc.out.WriteString(line)
		sc.out.WriteByte('\n')
	}
	return nil
}

// parseIncludePath extracts the quoted path of an include directive and
// resolves it against the including file.
func parseIncludePath(from Path, line string) (Path, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#include"))
	quoted := strings.HasPrefix(rest, `"`) && strings.HasSuffix(rest, `"`) && len(rest) >= 2
	if !quoted {
		return Path{}, fmt.Errorf("%w: malformed include directive %q", ErrInvalidShaderSource, line)
	}
	target := strings.TrimSpace(rest[1 : len(rest)-1])
	if target == "" {
		return Path{}, fmt.Errorf("%w: empty include path in %q", ErrInvalidShaderSource, line)
	}
	if strings.Contains(target, "://") {
		return ParsePath(target)
	}
	return from.Dir().Join(target), nil
}
