package layerz

import "time"

// SpanID is an opaque handle for a span, minted exclusively by the
// authoritative collector at the bottom of a chain. The zero value means
// "no span". IDs are comparable; two IDs are the same span exactly when
// they are equal.
type SpanID struct {
	id string
}

// NewSpanID wraps a collector-chosen identifier. Only collector
// implementations should mint IDs; observers receive them ready-made.
func NewSpanID(id string) SpanID {
	return SpanID{id: id}
}

// IsZero reports whether the ID refers to no span.
func (s SpanID) IsZero() bool { return s.id == "" }

// String returns the collector-chosen identifier.
func (s SpanID) String() string { return s.id }

// Current is a collector's answer to "which span is executing right
// now". The zero value means no span is current.
type Current struct {
	id       SpanID
	metadata *Metadata
}

// NewCurrent builds a Current for the given span. Collector
// implementations call this from CurrentSpan.
func NewCurrent(id SpanID, md *Metadata) Current {
	return Current{id: id, metadata: md}
}

// Ok reports whether any span is current.
func (c Current) Ok() bool { return !c.id.IsZero() }

// ID returns the current span's ID, zero if none.
func (c Current) ID() SpanID { return c.id }

// Metadata returns the current span's callsite metadata, nil if none.
func (c Current) Metadata() *Metadata { return c.metadata }

// SpanData is a read-only snapshot of the state a span registry stores
// for one span. Snapshots are copies: they stay valid after the call
// that produced them, but do not reflect later updates.
//
//nolint:govet // Field order optimized for readability over memory
type SpanData struct {
	id       SpanID
	metadata *Metadata
	parent   SpanID
	fields   []Field
	follows  []SpanID
	start    time.Time
}

// ID returns the span's ID.
func (d *SpanData) ID() SpanID { return d.id }

// Metadata returns the span's callsite metadata.
func (d *SpanData) Metadata() *Metadata { return d.metadata }

// Parent returns the span's parent ID; ok is false for root spans.
func (d *SpanData) Parent() (SpanID, bool) {
	return d.parent, !d.parent.IsZero()
}

// Fields returns the span's recorded fields in recording order.
func (d *SpanData) Fields() []Field { return d.fields }

// FollowsFrom returns the IDs of spans this span causally follows.
func (d *SpanData) FollowsFrom() []SpanID { return d.follows }

// Start returns the collector clock's time at span creation.
func (d *SpanData) Start() time.Time { return d.start }
