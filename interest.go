package layerz

// Interest is a callsite-level filtering verdict, distinct from the
// per-occurrence Enabled check.
//
// InterestAlways and InterestNever are final: the dispatch layer that
// registers callsites may cache them and never ask again. A participant
// whose decision depends on runtime state must return InterestSometimes,
// which forces Enabled to be re-evaluated on every occurrence of the
// callsite.
type Interest int8

const (
	// InterestNever disables the callsite permanently.
	InterestNever Interest = iota

	// InterestSometimes defers the decision to Enabled on every
	// occurrence.
	InterestSometimes

	// InterestAlways enables the callsite permanently.
	InterestAlways
)

// IsNever reports whether the callsite is permanently disabled.
func (i Interest) IsNever() bool { return i == InterestNever }

// IsSometimes reports whether the decision must be re-evaluated per
// occurrence.
func (i Interest) IsSometimes() bool { return i == InterestSometimes }

// IsAlways reports whether the callsite is permanently enabled.
func (i Interest) IsAlways() bool { return i == InterestAlways }

// String returns a short name for the verdict.
func (i Interest) String() string {
	switch i {
	case InterestNever:
		return "never"
	case InterestSometimes:
		return "sometimes"
	case InterestAlways:
		return "always"
	default:
		return "unknown"
	}
}

// InterestFrom derives the default callsite interest for an observer:
// InterestAlways if the observer enables the metadata against an empty
// context, InterestNever otherwise. Filtering observers whose Enabled is
// static per callsite can use this as their RegisterCallsite body.
func InterestFrom(o Observer, md *Metadata) Interest {
	if o.Enabled(md, Context{}) {
		return InterestAlways
	}
	return InterestNever
}
