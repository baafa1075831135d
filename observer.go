package layerz

// Observer is the composable subset of the Collector contract: it
// watches spans and events and may contribute to filtering decisions,
// but never mints span IDs. Observers are combined with And and sealed
// against a collector with WithCollector.
//
// Every notification method receives a Context exposing the collector's
// read capabilities. The Context is borrowed - valid only for the
// duration of the call.
//
// Concrete observers embed Base and override only the methods they care
// about.
type Observer interface {
	// RegisterCallsite is called once per callsite. The verdict decides
	// whether the callsite is enabled for the entire chain, not just
	// this observer, and InterestAlways/InterestNever may be cached by
	// the dispatch layer. Observers whose decision depends on runtime
	// state must return InterestSometimes.
	RegisterCallsite(md *Metadata) Interest

	// Enabled makes the per-occurrence decision for md. Like
	// RegisterCallsite it speaks for the whole chain: returning false
	// suppresses the span or event for every participant. An observer
	// that merely wants to skip data for itself returns true here and
	// ignores the data in its notification methods.
	Enabled(md *Metadata, ctx Context) bool

	// NewSpan is called after the authoritative collector has minted id
	// for a span described by attrs.
	NewSpan(attrs *Attributes, id SpanID, ctx Context)

	// OnRecord is called after the span recorded additional values.
	OnRecord(id SpanID, values *Record, ctx Context)

	// OnFollowsFrom is called after span id recorded that it follows
	// span follows.
	OnFollowsFrom(id, follows SpanID, ctx Context)

	// OnEvent is called for each event.
	OnEvent(event *Event, ctx Context)

	// OnEnter is called after the span became current.
	OnEnter(id SpanID, ctx Context)

	// OnExit is called after the span stopped being current.
	OnExit(id SpanID, ctx Context)

	// OnClose is called when the last reference to the span was dropped.
	// It fires at most once per span.
	OnClose(id SpanID, ctx Context)

	// OnIDChange is called when cloning a span produced a different ID
	// than the original. Clones that keep the same ID do not notify.
	OnIDChange(old, new SpanID, ctx Context)

	// MaxLevelHint returns a conservative bound on the most verbose
	// level this observer could ever care about, letting callers skip
	// constructing data no one wants. ok=false means no opinion and
	// never suppresses anything.
	MaxLevelHint() (Level, bool)
}

// Base provides the default no-op behavior for every Observer method.
// Embed it in concrete observers and override selectively.
type Base struct{}

// RegisterCallsite returns InterestAlways.
//
// Deriving interest from Enabled would be the natural default, but Go's
// embedding is static dispatch: Base cannot see an embedder's override.
// An observer that overrides Enabled with a per-callsite-static decision
// should also override RegisterCallsite, typically as InterestFrom(o, md);
// one whose decision is dynamic must return InterestSometimes instead, or
// caching will hide it.
func (Base) RegisterCallsite(*Metadata) Interest { return InterestAlways }

// Enabled returns true, letting the rest of the chain decide.
func (Base) Enabled(*Metadata, Context) bool { return true }

// NewSpan does nothing.
func (Base) NewSpan(*Attributes, SpanID, Context) {}

// OnRecord does nothing.
func (Base) OnRecord(SpanID, *Record, Context) {}

// OnFollowsFrom does nothing.
func (Base) OnFollowsFrom(SpanID, SpanID, Context) {}

// OnEvent does nothing.
func (Base) OnEvent(*Event, Context) {}

// OnEnter does nothing.
func (Base) OnEnter(SpanID, Context) {}

// OnExit does nothing.
func (Base) OnExit(SpanID, Context) {}

// OnClose does nothing.
func (Base) OnClose(SpanID, Context) {}

// OnIDChange does nothing.
func (Base) OnIDChange(SpanID, SpanID, Context) {}

// MaxLevelHint has no opinion.
func (Base) MaxLevelHint() (Level, bool) { return 0, false }
