//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{LevelFatal, zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		SetLevel(tt.level)
		assert.Equal(t, tt.want, zapLevel.Level(), "level %q", tt.level)
	}
	SetLevel(LevelInfo)
}

type captureLogger struct {
	Logger
	msgs []string
}

func (c *captureLogger) Debugf(format string, args ...any) { c.msgs = append(c.msgs, format) }

func TestTracef(t *testing.T) {
	old := Default
	defer func() { Default = old; SetTraceEnabled(false) }()

	capture := &captureLogger{Logger: old}
	Default = capture

	Tracef("dropped")
	assert.Empty(t, capture.msgs)

	SetTraceEnabled(true)
	Tracef("kept")
	assert.Len(t, capture.msgs, 1)
}
