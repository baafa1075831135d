package layerz

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestBridge() (*Bridge, *tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	return NewBridge(tp.Tracer("layerz-test")), exporter, tp
}

func finishedSpans(t *testing.T, exporter *tracetest.InMemoryExporter, want int) tracetest.SpanStubs {
	t.Helper()
	spans := exporter.GetSpans()
	if len(spans) != want {
		t.Fatalf("Expected %d exported spans, got %d", want, len(spans))
	}
	return spans
}

func TestBridgeMirrorsSpanLifecycle(t *testing.T) {
	bridge, exporter, tp := newTestBridge()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	registry := NewRegistry()
	defer registry.Close()
	chain := WithCollector(bridge, registry)

	id := chain.NewSpan(&Attributes{
		Metadata: &Metadata{Name: "request", Target: "app", Level: LevelInfo},
		Fields:   []Field{{Key: "method", Value: "GET"}, {Key: "status", Value: 200}},
	})
	chain.TryClose(id)

	span := finishedSpans(t, exporter, 1)[0]
	if span.Name != "request" {
		t.Errorf("Expected span name request, got %q", span.Name)
	}
	attrs := attribute.NewSet(span.Attributes...)
	if v, ok := attrs.Value("method"); !ok || v.AsString() != "GET" {
		t.Errorf("Expected method=GET attribute, got %v", span.Attributes)
	}
	if v, ok := attrs.Value("status"); !ok || v.AsInt64() != 200 {
		t.Errorf("Expected status=200 attribute, got %v", span.Attributes)
	}
}

func TestBridgeParentsContextualSpans(t *testing.T) {
	bridge, exporter, tp := newTestBridge()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	registry := NewRegistry()
	defer registry.Close()
	chain := WithCollector(bridge, registry)

	root := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "server", Target: "app", Level: LevelInfo}})
	chain.Enter(root)
	child := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "handler", Target: "app", Level: LevelInfo}})
	chain.Exit(root)

	chain.TryClose(child)
	chain.TryClose(root)

	spans := finishedSpans(t, exporter, 2)
	byName := make(map[string]tracetest.SpanStub, len(spans))
	for _, s := range spans {
		byName[s.Name] = s
	}
	parent := byName["handler"].Parent
	if parent.SpanID() != byName["server"].SpanContext.SpanID() {
		t.Error("Expected handler parented under server")
	}
	if byName["server"].Parent.IsValid() {
		t.Error("Expected server to be a root span")
	}
}

func TestBridgeExplicitParentOverridesCurrent(t *testing.T) {
	bridge, exporter, tp := newTestBridge()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	registry := NewRegistry()
	defer registry.Close()
	chain := WithCollector(bridge, registry)

	a := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "a", Target: "app", Level: LevelInfo}})
	b := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "b", Target: "app", Level: LevelInfo}})
	chain.Enter(b)
	c := chain.NewSpan(&Attributes{
		Metadata: &Metadata{Name: "c", Target: "app", Level: LevelInfo},
		Parent:   a,
	})
	chain.Exit(b)

	chain.TryClose(c)
	chain.TryClose(b)
	chain.TryClose(a)

	spans := finishedSpans(t, exporter, 3)
	byName := make(map[string]tracetest.SpanStub, len(spans))
	for _, s := range spans {
		byName[s.Name] = s
	}
	if byName["c"].Parent.SpanID() != byName["a"].SpanContext.SpanID() {
		t.Error("Expected explicit parent to win over the current span")
	}
}

func TestBridgeAttachesEventsToCurrentSpan(t *testing.T) {
	bridge, exporter, tp := newTestBridge()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	registry := NewRegistry()
	defer registry.Close()
	chain := WithCollector(bridge, registry)

	id := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "work", Target: "app", Level: LevelInfo}})
	chain.Enter(id)
	chain.Event(&Event{
		Metadata: &Metadata{Name: "retry", Target: "app", Level: LevelWarn, Kind: KindEvent},
		Message:  "retry",
		Fields:   []Field{{Key: "attempt", Value: 2}},
	})
	chain.Exit(id)
	chain.TryClose(id)

	span := finishedSpans(t, exporter, 1)[0]
	if len(span.Events) != 1 {
		t.Fatalf("Expected 1 span event, got %d", len(span.Events))
	}
	if span.Events[0].Name != "retry" {
		t.Errorf("Expected event name retry, got %q", span.Events[0].Name)
	}
}

func TestBridgeRecordSetsAttributes(t *testing.T) {
	bridge, exporter, tp := newTestBridge()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	registry := NewRegistry()
	defer registry.Close()
	chain := WithCollector(bridge, registry)

	id := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "upload", Target: "app", Level: LevelInfo}})
	chain.Record(id, &Record{Fields: []Field{{Key: "bytes", Value: int64(4096)}}})
	chain.TryClose(id)

	span := finishedSpans(t, exporter, 1)[0]
	attrs := attribute.NewSet(span.Attributes...)
	if v, ok := attrs.Value("bytes"); !ok || v.AsInt64() != 4096 {
		t.Errorf("Expected bytes=4096 attribute, got %v", span.Attributes)
	}
}

func TestBridgeFollowsFromAddsLink(t *testing.T) {
	bridge, exporter, tp := newTestBridge()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	registry := NewRegistry()
	defer registry.Close()
	chain := WithCollector(bridge, registry)

	producer := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "producer", Target: "app", Level: LevelInfo}})
	consumer := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "consumer", Target: "app", Level: LevelInfo}, Root: true})
	chain.RecordFollowsFrom(consumer, producer)

	chain.TryClose(consumer)
	chain.TryClose(producer)

	spans := finishedSpans(t, exporter, 2)
	byName := make(map[string]tracetest.SpanStub, len(spans))
	for _, s := range spans {
		byName[s.Name] = s
	}
	links := byName["consumer"].Links
	if len(links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(links))
	}
	if links[0].SpanContext.SpanID() != byName["producer"].SpanContext.SpanID() {
		t.Error("Expected link to the producer span")
	}
}

func TestBridgeFollowsMirrorAcrossIDChange(t *testing.T) {
	bridge, _, tp := newTestBridge()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	collector := newScriptedCollector()
	collector.cloneFn = func(SpanID) SpanID {
		return NewSpanID("renamed")
	}
	chain := WithCollector(bridge, collector)

	id := chain.NewSpan(&Attributes{Metadata: &Metadata{Name: "moved", Target: "app", Level: LevelInfo}})
	renamed := chain.CloneSpan(id)
	if renamed == id {
		t.Fatal("Expected the collector to mint a different identity")
	}

	bridge.mu.Lock()
	_, oldOK := bridge.spans[id]
	_, newOK := bridge.spans[renamed]
	bridge.mu.Unlock()
	if oldOK || !newOK {
		t.Errorf("Expected mirror re-keyed to new identity, old=%v new=%v", oldOK, newOK)
	}
}

func TestBridgeNeverFilters(t *testing.T) {
	bridge, _, tp := newTestBridge()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	if got := bridge.RegisterCallsite(md("app", LevelTrace)); !got.IsAlways() {
		t.Errorf("Expected always, got %v", got)
	}
	if _, ok := bridge.MaxLevelHint(); ok {
		t.Error("Expected no hint")
	}
}
