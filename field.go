package layerz

// Field is a single recorded key-value pair.
type Field struct {
	Key   string
	Value any
}

// Attributes describes a span at creation time. It is borrowed: valid
// only for the duration of the NewSpan call that carries it, and must not
// be retained by observers.
//
//nolint:govet // Field order optimized for readability over memory
type Attributes struct {
	// Metadata identifies the span's callsite.
	Metadata *Metadata

	// Fields holds the values recorded at creation.
	Fields []Field

	// Parent explicitly names the new span's parent. If zero and Root is
	// false, the span is contextual: the collector's current span at
	// creation time becomes the parent.
	Parent SpanID

	// Root marks the span as an explicit trace root with no parent,
	// regardless of the collector's current span.
	Root bool
}

// IsContextual reports whether the span's parent should be taken from
// the collector's current span.
func (a *Attributes) IsContextual() bool {
	return !a.Root && a.Parent.IsZero()
}

// Record holds field values recorded on a span after creation. Borrowed;
// valid only for the carrying call.
type Record struct {
	Fields []Field
}

// Event describes a single moment in time within a trace. Borrowed;
// valid only for the carrying call.
//
//nolint:govet // Field order optimized for readability over memory
type Event struct {
	// Metadata identifies the event's callsite.
	Metadata *Metadata

	// Message is the event's human-readable message.
	Message string

	// Fields holds the event's recorded values.
	Fields []Field

	// Parent explicitly names the span the event occurred in. If zero,
	// the event belongs to the collector's current span.
	Parent SpanID
}
