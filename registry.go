package layerz

import (
	"crypto/rand"
	"encoding/hex"
	"runtime"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// Registry is an authoritative Collector that stores per-span data
// in-process. It mints span IDs, tracks references created by CloneSpan,
// keeps the enter/exit stack that defines the current span, and retires
// a span's data only when its last reference is dropped through
// TryClose.
//
// Registry satisfies SpanLookup, so observers layered over it can read
// stored span data through Context. Safe for concurrent use by multiple
// goroutines.
//
//nolint:govet // Field order optimized for functionality over memory
type Registry struct {
	clock    clockz.Clock
	pool     *idPool
	poolOnce sync.Once
	mu       sync.Mutex
	spans    map[SpanID]*spanEntry
	stack    []SpanID
}

// spanEntry is the registry's mutable state for one open span. Guarded
// by Registry.mu.
type spanEntry struct {
	metadata *Metadata
	parent   SpanID
	fields   []Field
	follows  []SpanID
	start    time.Time
	refs     int
	guards   int
}

// NewRegistry creates a registry using the real clock.
func NewRegistry() *Registry {
	return &Registry{
		clock: clockz.RealClock,
		spans: make(map[SpanID]*spanEntry),
	}
}

// WithClock returns a new registry with the specified clock.
// Enables clock injection for deterministic testing.
func (*Registry) WithClock(clock clockz.Clock) *Registry {
	return &Registry{
		clock: clock,
		spans: make(map[SpanID]*spanEntry),
	}
}

// ensurePool initializes the span ID pool if not already created.
func (r *Registry) ensurePool() {
	r.poolOnce.Do(func() {
		// Pool size based on number of CPUs for contention balance.
		size := runtime.NumCPU() * 100

		r.pool = newIDPool(size, func() SpanID {
			bytes := make([]byte, 8)
			if _, err := rand.Read(bytes); err != nil {
				// Fallback to time-based ID if crypto/rand fails.
				return NewSpanID(hex.EncodeToString([]byte(r.clock.Now().Format("15:04:05.000000"))))
			}
			return NewSpanID(hex.EncodeToString(bytes))
		})
	})
}

// RegisterCallsite records every callsite: the registry's job is
// storage, not filtering.
func (*Registry) RegisterCallsite(*Metadata) Interest { return InterestAlways }

// Enabled always agrees; filtering belongs to the observers layered on
// top.
func (*Registry) Enabled(*Metadata) bool { return true }

// MaxLevelHint has no opinion.
func (*Registry) MaxLevelHint() (Level, bool) { return 0, false }

// NewSpan mints an ID and stores the span's data. A contextual span
// (no explicit parent, not a root) is parented to the current span, if
// any, at creation time.
func (r *Registry) NewSpan(attrs *Attributes) SpanID {
	r.ensurePool()
	id := r.pool.get()

	entry := &spanEntry{
		metadata: attrs.Metadata,
		fields:   cloneFields(attrs.Fields),
		start:    r.clock.Now(),
		refs:     1,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if attrs.IsContextual() {
		entry.parent = r.currentLocked()
	} else {
		entry.parent = attrs.Parent
	}
	r.spans[id] = entry
	return id
}

// Record merges values into the span's stored fields, overwriting
// earlier values for the same key. Recording on a retired or unknown
// span is a no-op.
func (r *Registry) Record(id SpanID, values *Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.spans[id]
	if !ok {
		return
	}
outer:
	for _, f := range values.Fields {
		for i := range entry.fields {
			if entry.fields[i].Key == f.Key {
				entry.fields[i].Value = f.Value
				continue outer
			}
		}
		entry.fields = append(entry.fields, f)
	}
}

// RecordFollowsFrom stores a causal link from span id to span follows.
func (r *Registry) RecordFollowsFrom(id, follows SpanID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.spans[id]; ok {
		entry.follows = append(entry.follows, follows)
	}
}

// Event does nothing: the registry stores span data only. Observers
// layered on top are the event consumers.
func (*Registry) Event(*Event) {}

// Enter pushes the span onto the current-span stack.
//
// The registry keeps a single process-wide stack. The enter/exit order
// across goroutines is whatever order their calls are serialized in
// here; callers that need per-goroutine scoping should carry span IDs
// explicitly.
func (r *Registry) Enter(id SpanID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.spans[id]; ok {
		r.stack = append(r.stack, id)
	}
}

// Exit removes the most recent entry of the span from the current-span
// stack.
func (r *Registry) Exit(id SpanID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i] == id {
			r.stack = append(r.stack[:i], r.stack[i+1:]...)
			return
		}
	}
}

// CloneSpan records a new reference to the span. The registry keeps
// span identity stable across clones, so the returned ID always equals
// id and no ID-change notification is ever needed for registry-backed
// chains.
func (r *Registry) CloneSpan(id SpanID) SpanID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.spans[id]; ok {
		entry.refs++
	}
	return id
}

// TryClose drops one reference to the span. It returns true only when
// this was the last reference; the span's data is then retired, unless
// a close guard is active, in which case retirement waits for the guard
// so observers can still read the data while being notified.
func (r *Registry) TryClose(id SpanID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.spans[id]
	if !ok || entry.refs <= 0 {
		// Unknown span, or one already closed but held readable by an
		// active guard.
		return false
	}

	entry.refs--
	if entry.refs > 0 {
		return false
	}

	if entry.guards == 0 {
		r.removeLocked(id)
	}
	return true
}

// CurrentSpan reports the top of the enter/exit stack.
func (r *Registry) CurrentSpan() Current {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.currentLocked()
	if id.IsZero() {
		return Current{}
	}
	return NewCurrent(id, r.spans[id].metadata)
}

// SpanData returns a snapshot of the stored data for an open span.
func (r *Registry) SpanData(id SpanID) (*SpanData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.spans[id]
	if !ok {
		return nil, false
	}
	return &SpanData{
		id:       id,
		metadata: entry.metadata,
		parent:   entry.parent,
		fields:   cloneFields(entry.fields),
		follows:  append([]SpanID(nil), entry.follows...),
		start:    entry.start,
	}, true
}

// Close shuts down the registry's ID pool goroutine. The registry
// itself needs no other teardown.
func (r *Registry) Close() {
	if r.pool != nil {
		r.pool.close()
	}
}

// startClose opens a closing transition for the span: while the guard
// is active, a successful TryClose marks the span closed but keeps its
// data readable. The guard's finish retires the data.
func (r *Registry) startClose(id SpanID) *closeGuard {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.spans[id]; ok {
		entry.guards++
		return &closeGuard{registry: r, id: id}
	}
	return nil
}

// currentLocked returns the top live span of the stack, pruning stale
// entries. Caller holds r.mu.
func (r *Registry) currentLocked() SpanID {
	for len(r.stack) > 0 {
		id := r.stack[len(r.stack)-1]
		if _, ok := r.spans[id]; ok {
			return id
		}
		r.stack = r.stack[:len(r.stack)-1]
	}
	return SpanID{}
}

// removeLocked retires a span's data and scrubs it from the stack.
// Caller holds r.mu.
func (r *Registry) removeLocked(id SpanID) {
	delete(r.spans, id)
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i] == id {
			r.stack = append(r.stack[:i], r.stack[i+1:]...)
		}
	}
}

// closeGuard tracks one closing transition opened by startClose.
type closeGuard struct {
	registry *Registry
	id       SpanID
	closing  bool
}

// setClosing records that the guarded TryClose did retire the span, so
// finish will release its data.
func (g *closeGuard) setClosing() {
	if g != nil {
		g.closing = true
	}
}

// finish ends the transition, retiring the span's data if the close
// went through.
func (g *closeGuard) finish() {
	if g == nil {
		return
	}

	r := g.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.spans[g.id]
	if !ok {
		return
	}
	entry.guards--
	if g.closing && entry.refs <= 0 && entry.guards == 0 {
		r.removeLocked(g.id)
	}
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	return append([]Field(nil), fields...)
}
