package layerz

// Collector is the complete trace-consumer contract. Exactly one
// collector sits at the innermost position of every chain; it alone
// mints, clones, and retires span IDs. Everything wrapped around it is
// an Observer.
//
// A *Layered also satisfies Collector, which is what lets a composed
// chain stand in anywhere a bare collector is expected.
type Collector interface {
	// RegisterCallsite is called once per callsite and returns the
	// collector's cacheable interest in it.
	RegisterCallsite(md *Metadata) Interest

	// Enabled makes the per-occurrence decision for a callsite whose
	// interest was InterestSometimes.
	Enabled(md *Metadata) bool

	// MaxLevelHint returns a conservative bound on the most verbose
	// level this collector could care about, or ok=false for no opinion.
	MaxLevelHint() (Level, bool)

	// NewSpan mints an ID for a new span described by attrs. The caller
	// owns attrs only for the duration of the call.
	NewSpan(attrs *Attributes) SpanID

	// Record stores additional field values on an existing span.
	Record(id SpanID, values *Record)

	// RecordFollowsFrom notes that span id causally follows span
	// follows.
	RecordFollowsFrom(id, follows SpanID)

	// Event submits an event. The collector may assume the event's
	// callsite has been registered; submitting an unregistered callsite
	// is a contract violation and is not checked here.
	Event(event *Event)

	// Enter marks the span as the currently-executing span.
	Enter(id SpanID)

	// Exit marks the span as no longer executing.
	Exit(id SpanID)

	// CloneSpan records a new reference to the span and returns its ID,
	// which may differ from id. The returned ID must eventually be
	// passed to TryClose.
	CloneSpan(id SpanID) SpanID

	// TryClose drops one reference to the span. It returns true only
	// when this was the last reference and the span is now closed; a
	// false return is a normal outcome, not an error.
	TryClose(id SpanID) bool

	// CurrentSpan reports the currently-executing span.
	CurrentSpan() Current
}

// SpanLookup is the optional registry capability: collectors that store
// per-span data expose it so observers can read that data through
// Context. *Registry and *Layered (when its collector does) satisfy it.
type SpanLookup interface {
	// SpanData returns a snapshot of the stored data for id, or ok=false
	// if the span has closed or the ID was never minted.
	SpanData(id SpanID) (*SpanData, bool)
}
