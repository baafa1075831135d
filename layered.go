package layerz

import "reflect"

// Layered is a Collector composed of an authoritative collector wrapped
// by an observer (possibly itself a chain built with And). It is built
// once with WithCollector and never restructured; all methods are
// read-only with respect to its shape, so a *Layered may be shared
// across goroutines freely.
type Layered struct {
	observer Observer
	inner    Collector
}

// WithCollector seals observer against collector, yielding a Collector
// that behaves exactly like collector with observer watching it. Chain
// multiple observers first with And:
//
//	chain := layerz.WithCollector(layerz.And(a, b), registry)
//
// a and b are notified, in that order, after every collector operation.
func WithCollector(observer Observer, collector Collector) *Layered {
	return &Layered{observer: observer, inner: collector}
}

// And composes two observers into one. The returned observer runs a's
// notification methods before b's, and evaluates filtering top-down
// starting with b (the later-added, outermost participant).
func And(a, b Observer) Observer {
	return &chained{outer: b, inner: a}
}

func (l *Layered) ctx() Context {
	return Context{collector: l.inner}
}

// RegisterCallsite consults the observer first. A Never verdict
// short-circuits: the collector is not asked about a callsite the chain
// has already vetoed. A Sometimes verdict wins over whatever the
// collector answers, so filters get re-evaluated per occurrence.
func (l *Layered) RegisterCallsite(md *Metadata) Interest {
	outer := l.observer.RegisterCallsite(md)
	if outer.IsNever() {
		return outer
	}

	inner := l.inner.RegisterCallsite(md)
	if outer.IsSometimes() {
		return outer
	}
	return inner
}

// Enabled asks the observer with a live context; only if it agrees does
// the collector get to weigh in.
func (l *Layered) Enabled(md *Metadata) bool {
	if l.observer.Enabled(md, l.ctx()) {
		return l.inner.Enabled(md)
	}
	return false
}

// MaxLevelHint combines both sides' hints: if either has an opinion that
// opinion wins over silence, and two opinions resolve to the more
// verbose one.
func (l *Layered) MaxLevelHint() (Level, bool) {
	ol, ook := l.observer.MaxLevelHint()
	il, iok := l.inner.MaxLevelHint()
	return combineHints(ol, ook, il, iok)
}

// NewSpan has the collector mint the ID first - ground truth must exist
// before anyone is told about it - then notifies the observer.
func (l *Layered) NewSpan(attrs *Attributes) SpanID {
	id := l.inner.NewSpan(attrs)
	l.observer.NewSpan(attrs, id, l.ctx())
	return id
}

// Record updates the collector first, then notifies the observer.
func (l *Layered) Record(id SpanID, values *Record) {
	l.inner.Record(id, values)
	l.observer.OnRecord(id, values, l.ctx())
}

// RecordFollowsFrom updates the collector first, then notifies the
// observer.
func (l *Layered) RecordFollowsFrom(id, follows SpanID) {
	l.inner.RecordFollowsFrom(id, follows)
	l.observer.OnFollowsFrom(id, follows, l.ctx())
}

// Event submits to the collector first, then notifies the observer.
func (l *Layered) Event(event *Event) {
	l.inner.Event(event)
	l.observer.OnEvent(event, l.ctx())
}

// Enter transitions the collector first, then notifies the observer.
func (l *Layered) Enter(id SpanID) {
	l.inner.Enter(id)
	l.observer.OnEnter(id, l.ctx())
}

// Exit transitions the collector first, then notifies the observer.
func (l *Layered) Exit(id SpanID) {
	l.inner.Exit(id)
	l.observer.OnExit(id, l.ctx())
}

// CloneSpan asks the collector to clone. The observer hears about it
// only if the clone came back with a different ID.
func (l *Layered) CloneSpan(id SpanID) SpanID {
	clone := l.inner.CloneSpan(id)
	if clone != id {
		l.observer.OnIDChange(id, clone, l.ctx())
	}
	return clone
}

// TryClose drops one reference to the span. When the drop retires the
// span and the chain bottoms out in a *Registry, the registry is told
// the span is entering its closing transition before the observer's
// OnClose runs, so span data stays readable during the notification.
// When references remain it returns false and no OnClose fires.
func (l *Layered) TryClose(id SpanID) bool {
	var guard *closeGuard
	if reg, ok := Downcast[*Registry](l.inner); ok {
		guard = reg.startClose(id)
	}

	if l.inner.TryClose(id) {
		if guard != nil {
			guard.setClosing()
		}
		l.observer.OnClose(id, l.ctx())
		if guard != nil {
			guard.finish()
		}
		return true
	}

	if guard != nil {
		guard.finish()
	}
	return false
}

// CurrentSpan passes through to the collector unchanged; the chain adds
// no information here.
func (l *Layered) CurrentSpan() Current {
	return l.inner.CurrentSpan()
}

// SpanData delegates to the wrapped collector when it is a span
// registry, making *Layered satisfy SpanLookup whenever its collector
// does.
func (l *Layered) SpanData(id SpanID) (*SpanData, bool) {
	if lookup, ok := l.inner.(SpanLookup); ok {
		return lookup.SpanData(id)
	}
	return nil, false
}

func (l *Layered) downcastRaw(target reflect.Type) any {
	if found := downcastRaw(l.observer, target); found != nil {
		return found
	}
	return downcastRaw(l.inner, target)
}

// chained is the interior composition node: two observers acting as one.
// outer is the later-added child; inner may itself be another chained
// node, forming a singly-linked ownership chain.
type chained struct {
	outer Observer
	inner Observer
}

// RegisterCallsite applies the same short-circuit and Sometimes rules as
// the sealed node, between the two children: the later-added child is
// consulted first.
func (c *chained) RegisterCallsite(md *Metadata) Interest {
	outer := c.outer.RegisterCallsite(md)
	if outer.IsNever() {
		return outer
	}

	inner := c.inner.RegisterCallsite(md)
	if outer.IsSometimes() {
		return outer
	}
	return inner
}

// Enabled consults the later-added child, then on agreement the
// earlier-added child, short-circuiting on the first false.
func (c *chained) Enabled(md *Metadata, ctx Context) bool {
	if c.outer.Enabled(md, ctx) {
		return c.inner.Enabled(md, ctx)
	}
	return false
}

func (c *chained) MaxLevelHint() (Level, bool) {
	ol, ook := c.outer.MaxLevelHint()
	il, iok := c.inner.MaxLevelHint()
	return combineHints(ol, ook, il, iok)
}

func (c *chained) NewSpan(attrs *Attributes, id SpanID, ctx Context) {
	c.inner.NewSpan(attrs, id, ctx)
	c.outer.NewSpan(attrs, id, ctx)
}

func (c *chained) OnRecord(id SpanID, values *Record, ctx Context) {
	c.inner.OnRecord(id, values, ctx)
	c.outer.OnRecord(id, values, ctx)
}

func (c *chained) OnFollowsFrom(id, follows SpanID, ctx Context) {
	c.inner.OnFollowsFrom(id, follows, ctx)
	c.outer.OnFollowsFrom(id, follows, ctx)
}

func (c *chained) OnEvent(event *Event, ctx Context) {
	c.inner.OnEvent(event, ctx)
	c.outer.OnEvent(event, ctx)
}

func (c *chained) OnEnter(id SpanID, ctx Context) {
	c.inner.OnEnter(id, ctx)
	c.outer.OnEnter(id, ctx)
}

func (c *chained) OnExit(id SpanID, ctx Context) {
	c.inner.OnExit(id, ctx)
	c.outer.OnExit(id, ctx)
}

func (c *chained) OnClose(id SpanID, ctx Context) {
	c.inner.OnClose(id, ctx)
	c.outer.OnClose(id, ctx)
}

func (c *chained) OnIDChange(old, new SpanID, ctx Context) {
	c.inner.OnIDChange(old, new, ctx)
	c.outer.OnIDChange(old, new, ctx)
}

func (c *chained) downcastRaw(target reflect.Type) any {
	if found := downcastRaw(c.outer, target); found != nil {
		return found
	}
	return downcastRaw(c.inner, target)
}
