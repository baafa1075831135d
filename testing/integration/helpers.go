package integration

import (
	"sync"
	"testing"

	"github.com/zoobzio/layerz"
)

// RecordedEvent is an event as seen by the Recorder, with the span
// scope that was current when it fired.
type RecordedEvent struct {
	Message string
	Target  string
	Level   layerz.Level
	Scope   []string
	Fields  []layerz.Field
}

// Recorder is an observer that captures the full notification stream
// for verification. It never filters on its own; anything the chain
// lets through gets recorded.
//
//nolint:govet // Field alignment optimized for test helper readability
type Recorder struct {
	layerz.Base
	t      *testing.T
	mu     sync.Mutex
	names  map[layerz.SpanID]string
	opened []string
	events []RecordedEvent
	closed []string
}

// NewRecorder creates a recorder for testing.
func NewRecorder(t *testing.T) *Recorder {
	return &Recorder{
		t:     t,
		names: make(map[layerz.SpanID]string),
	}
}

func (r *Recorder) NewSpan(attrs *layerz.Attributes, id layerz.SpanID, _ layerz.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[id] = attrs.Metadata.Name
	r.opened = append(r.opened, attrs.Metadata.Name)
}

func (r *Recorder) OnEvent(event *layerz.Event, ctx layerz.Context) {
	scope := ctx.Scope()
	names := make([]string, 0, scope.Len())
	for {
		data, ok := scope.Next()
		if !ok {
			break
		}
		names = append(names, data.Metadata().Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, RecordedEvent{
		Message: event.Message,
		Target:  event.Metadata.Target,
		Level:   event.Metadata.Level,
		Scope:   names,
		Fields:  append([]layerz.Field(nil), event.Fields...),
	})
}

func (r *Recorder) OnClose(id layerz.SpanID, ctx layerz.Context) {
	name := r.spanName(id)
	if data, ok := ctx.SpanData(id); ok {
		name = data.Metadata().Name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, name)
	delete(r.names, id)
}

func (r *Recorder) OnIDChange(old, new layerz.SpanID, _ layerz.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.names[old]; ok {
		delete(r.names, old)
		r.names[new] = name
	}
}

func (r *Recorder) spanName(id layerz.SpanID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.names[id]; ok {
		return name
	}
	return "unknown"
}

// OpenedSpans returns span names in creation order.
func (r *Recorder) OpenedSpans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.opened...)
}

// ClosedSpans returns span names in close order.
func (r *Recorder) ClosedSpans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.closed...)
}

// Events returns recorded events in arrival order.
func (r *Recorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedEvent(nil), r.events...)
}

// Messages returns just the event messages, in arrival order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := make([]string, len(r.events))
	for i, e := range r.events {
		msgs[i] = e.Message
	}
	return msgs
}

// spanMeta builds interned span metadata for a scenario callsite.
func spanMeta(name, target string, level layerz.Level) *layerz.Metadata {
	return &layerz.Metadata{Name: name, Target: target, Level: level, Kind: layerz.KindSpan}
}

// eventMeta builds interned event metadata for a scenario callsite.
func eventMeta(name, target string, level layerz.Level) *layerz.Metadata {
	return &layerz.Metadata{Name: name, Target: target, Level: level, Kind: layerz.KindEvent}
}

// emit submits an event through the chain only if its callsite is
// enabled, the way instrumentation points guard their payloads.
func emit(chain layerz.Collector, md *layerz.Metadata, msg string, fields ...layerz.Field) {
	if !chain.Enabled(md) {
		return
	}
	chain.Event(&layerz.Event{Metadata: md, Message: msg, Fields: fields})
}
