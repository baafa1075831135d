package layerz

import "reflect"

// Identity is the observer that does nothing: every notification is a
// no-op, every filtering decision passes through. Composing it into a
// chain changes nothing about the chain's behavior.
type Identity struct {
	Base
}

// NewIdentity returns the neutral observer.
func NewIdentity() Identity { return Identity{} }

// Optional wraps an observer that may be absent. When observer is nil
// the result behaves exactly like Identity, which lets a pipeline keep
// its static shape while a layer is toggled on or off at construction:
//
//	var console layerz.Observer = layerz.Optional(nil)
//	if verbose {
//		console = layerz.Optional(layerz.NewConsole(os.Stderr))
//	}
//
// A present wrapped observer is fully transparent, including to
// Downcast recovery.
func Optional(observer Observer) Observer {
	return optional{inner: observer}
}

type optional struct {
	inner Observer
}

func (o optional) RegisterCallsite(md *Metadata) Interest {
	if o.inner == nil {
		return InterestAlways
	}
	return o.inner.RegisterCallsite(md)
}

func (o optional) Enabled(md *Metadata, ctx Context) bool {
	if o.inner == nil {
		return true
	}
	return o.inner.Enabled(md, ctx)
}

func (o optional) NewSpan(attrs *Attributes, id SpanID, ctx Context) {
	if o.inner != nil {
		o.inner.NewSpan(attrs, id, ctx)
	}
}

func (o optional) OnRecord(id SpanID, values *Record, ctx Context) {
	if o.inner != nil {
		o.inner.OnRecord(id, values, ctx)
	}
}

func (o optional) OnFollowsFrom(id, follows SpanID, ctx Context) {
	if o.inner != nil {
		o.inner.OnFollowsFrom(id, follows, ctx)
	}
}

func (o optional) OnEvent(event *Event, ctx Context) {
	if o.inner != nil {
		o.inner.OnEvent(event, ctx)
	}
}

func (o optional) OnEnter(id SpanID, ctx Context) {
	if o.inner != nil {
		o.inner.OnEnter(id, ctx)
	}
}

func (o optional) OnExit(id SpanID, ctx Context) {
	if o.inner != nil {
		o.inner.OnExit(id, ctx)
	}
}

func (o optional) OnClose(id SpanID, ctx Context) {
	if o.inner != nil {
		o.inner.OnClose(id, ctx)
	}
}

func (o optional) OnIDChange(old, new SpanID, ctx Context) {
	if o.inner != nil {
		o.inner.OnIDChange(old, new, ctx)
	}
}

func (o optional) MaxLevelHint() (Level, bool) {
	if o.inner == nil {
		return 0, false
	}
	return o.inner.MaxLevelHint()
}

func (o optional) downcastRaw(target reflect.Type) any {
	if o.inner == nil {
		return nil
	}
	return downcastRaw(o.inner, target)
}
