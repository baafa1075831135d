package layerz

// Kind distinguishes span callsites from event callsites.
type Kind int8

const (
	KindSpan Kind = iota
	KindEvent
)

// Metadata describes a single callsite: a place in the instrumented
// program that produces spans or events. It is constructed once, usually
// in a package-level variable, and identified by address for the life of
// the process - every span or event from the same callsite carries the
// same *Metadata. Nothing in this package ever mutates it.
//
//nolint:govet // Field order optimized for readability over memory
type Metadata struct {
	// Name is the human-readable name of the span or event.
	Name string

	// Target is the subsystem the callsite belongs to, typically the
	// package path of the instrumented code.
	Target Target

	// Level is the callsite's verbosity level.
	Level Level

	// Kind reports whether the callsite produces spans or events.
	Kind Kind

	// FieldNames lists the field keys this callsite can record, in
	// declaration order.
	FieldNames []string
}
