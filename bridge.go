package layerz

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Bridge is an observer that mirrors the chain's spans and events into
// an OpenTelemetry tracer, so a layerz pipeline can feed any OTel
// exporter without the collector knowing about OTel at all.
//
// Spans map to OTel spans (parented the same way), Record calls to span
// attributes, events to span events, and follows-from links to span
// links. The bridge never filters.
type Bridge struct {
	Base
	tracer trace.Tracer
	mu     sync.Mutex
	spans  map[SpanID]bridgeSpan
}

type bridgeSpan struct {
	ctx  context.Context
	span trace.Span
}

// NewBridge creates a bridge forwarding to tracer.
func NewBridge(tracer trace.Tracer) *Bridge {
	return &Bridge{
		tracer: tracer,
		spans:  make(map[SpanID]bridgeSpan),
	}
}

// NewSpan starts the mirrored OTel span, parented to the mirror of the
// new span's parent: the explicit one from attrs, or the chain's
// current span for contextual spans.
func (b *Bridge) NewSpan(attrs *Attributes, id SpanID, ctx Context) {
	parent := attrs.Parent
	if attrs.IsContextual() {
		parent = ctx.CurrentSpan().ID()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	parentCtx := context.Background()
	if entry, ok := b.spans[parent]; ok {
		parentCtx = entry.ctx
	}

	otelCtx, span := b.tracer.Start(parentCtx, attrs.Metadata.Name,
		trace.WithAttributes(otelAttributes(attrs.Fields)...))
	b.spans[id] = bridgeSpan{ctx: otelCtx, span: span}
}

// OnRecord applies recorded values as attributes on the mirrored span.
func (b *Bridge) OnRecord(id SpanID, values *Record, _ Context) {
	b.mu.Lock()
	entry, ok := b.spans[id]
	b.mu.Unlock()
	if ok {
		entry.span.SetAttributes(otelAttributes(values.Fields)...)
	}
}

// OnFollowsFrom links the mirrored span to the mirror of the span it
// follows.
func (b *Bridge) OnFollowsFrom(id, follows SpanID, _ Context) {
	b.mu.Lock()
	entry, ok := b.spans[id]
	followed, fok := b.spans[follows]
	b.mu.Unlock()
	if ok && fok {
		entry.span.AddLink(trace.Link{SpanContext: followed.span.SpanContext()})
	}
}

// OnEvent attaches the event to the mirrored span it occurred in: its
// explicit parent, or the chain's current span. Events outside any
// mirrored span are dropped.
func (b *Bridge) OnEvent(event *Event, ctx Context) {
	parent := event.Parent
	if parent.IsZero() {
		parent = ctx.CurrentSpan().ID()
	}

	b.mu.Lock()
	entry, ok := b.spans[parent]
	b.mu.Unlock()
	if ok {
		entry.span.AddEvent(event.Message,
			trace.WithAttributes(otelAttributes(event.Fields)...))
	}
}

// OnClose ends the mirrored span.
func (b *Bridge) OnClose(id SpanID, _ Context) {
	b.mu.Lock()
	entry, ok := b.spans[id]
	delete(b.spans, id)
	b.mu.Unlock()
	if ok {
		entry.span.End()
	}
}

// OnIDChange re-keys the mirrored span when the collector renames a
// cloned span's identity.
func (b *Bridge) OnIDChange(old, new SpanID, _ Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if entry, ok := b.spans[old]; ok {
		delete(b.spans, old)
		b.spans[new] = entry
	}
}

func otelAttributes(fields []Field) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			attrs = append(attrs, attribute.String(f.Key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(f.Key, v))
		case int:
			attrs = append(attrs, attribute.Int(f.Key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(f.Key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(f.Key, v))
		default:
			attrs = append(attrs, attribute.String(f.Key, fmt.Sprint(v)))
		}
	}
	return attrs
}
