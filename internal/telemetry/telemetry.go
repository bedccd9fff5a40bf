//
// Tencent is pleased to support the open source community by making vislum available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// vislum is licensed under the Apache License Version 2.0.
//
//

// Package telemetry provides tracing and metrics handles for the vislum
// runtime. Instruments are resolved from the global OpenTelemetry providers,
// so an application that never installs an SDK pays only for no-ops.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// telemetry service constants.
const (
	ServiceName    = "vislum"
	ServiceVersion = "v0.1.0"
	InstrumentName = "vislum"

	SpanNameEvaluateGraph = "evaluate_graph"
	SpanNameLoadAsset     = "load_asset"
	SpanNameFrameSubmit   = "frame_submit"
)

// telemetry attribute keys.
var (
	KeyGraphID    = "vislum.graph_id"
	KeyNodeID     = "vislum.node_id"
	KeyAssetPath  = "vislum.asset_path"
	KeyPassName   = "vislum.pass_name"
	KeyResultKind = "vislum.result"
)

var (
	// Tracer is the shared tracer for all vislum spans.
	Tracer = otel.Tracer(InstrumentName)

	// Meter is the shared meter for all vislum instruments.
	Meter = otel.Meter(InstrumentName)

	// AssetLoadCount counts asset load completions, tagged by result.
	AssetLoadCount metric.Int64Counter

	// GraphEvalCount counts top-level graph output evaluations.
	GraphEvalCount metric.Int64Counter
)

func init() {
	var err error
	if AssetLoadCount, err = Meter.Int64Counter("vislum.asset.load.count"); err != nil {
		AssetLoadCount = noopInt64Counter{}
	}
	if GraphEvalCount, err = Meter.Int64Counter("vislum.graph.eval.count"); err != nil {
		GraphEvalCount = noopInt64Counter{}
	}
}

// StartSpan starts a span with the shared tracer and the given attributes.
func StartSpan(
	ctx context.Context,
	name string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	return Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan ends a span, recording err as the span status when non-nil.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}

type noopInt64Counter struct {
	metric.Int64Counter
}

func (noopInt64Counter) Add(context.Context, int64, ...metric.AddOption) {}
