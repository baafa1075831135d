package layerz

// Context is the view of the authoritative collector handed to every
// observer notification. It exposes the collector's read capabilities -
// the current span, stored span data, event submission, enabled checks -
// without exposing mutation.
//
// A Context is borrowed: it is constructed fresh for each call and must
// not be retained past it. The zero value is the empty context, which
// occurs only during callsite registration, before any live collector
// exists to view.
type Context struct {
	collector Collector
}

// CurrentSpan returns the collector's view of the currently-executing
// span. On an empty context no span is current.
func (c Context) CurrentSpan() Current {
	if c.collector == nil {
		return Current{}
	}
	return c.collector.CurrentSpan()
}

// Enabled reports whether the wrapped collector would enable md. On an
// empty context it reports true, so that an observer registering a
// callsite does not wrongly conclude the collector has disabled it.
func (c Context) Enabled(md *Metadata) bool {
	if c.collector == nil {
		return true
	}
	return c.collector.Enabled(md)
}

// SubmitEvent records event with the wrapped collector.
//
// The collector is free to assume the event's callsite has been
// registered; submitting an unregistered callsite is a contract
// violation. This method does not consult the collector's filter -
// callers that want to elide building the event when no one would record
// it should check Enabled first.
func (c Context) SubmitEvent(event *Event) {
	if c.collector != nil {
		c.collector.Event(event)
	}
}

// SpanData returns the stored data snapshot for id, when the collector
// is a span registry. ok is false if the collector stores no span data,
// the span has closed, or the ID was never minted.
func (c Context) SpanData(id SpanID) (*SpanData, bool) {
	lookup, ok := c.collector.(SpanLookup)
	if !ok {
		return nil, false
	}
	return lookup.SpanData(id)
}

// Exists reports whether an open span with the given ID is stored by
// the collector.
func (c Context) Exists(id SpanID) bool {
	_, ok := c.SpanData(id)
	return ok
}

// Metadata returns the callsite metadata of the span with the given ID,
// when the collector stores it.
func (c Context) Metadata(id SpanID) (*Metadata, bool) {
	data, ok := c.SpanData(id)
	if !ok {
		return nil, false
	}
	return data.Metadata(), true
}

// LookupCurrent returns the stored data for the span the collector
// considers current. ok is false outside any span or when the collector
// stores no span data.
func (c Context) LookupCurrent() (*SpanData, bool) {
	current := c.CurrentSpan()
	if !current.Ok() {
		return nil, false
	}
	return c.SpanData(current.ID())
}

// Scope returns an iterator over the stored data for every span in the
// current context, from the root of the trace tree down to the current
// span. The scope is empty outside any span or when the collector
// stores no span data.
func (c Context) Scope() *Scope {
	current, ok := c.LookupCurrent()
	if !ok {
		return &Scope{}
	}

	// Walk current -> root, then reverse into root -> current order.
	spans := []*SpanData{current}
	for {
		parent, ok := spans[len(spans)-1].Parent()
		if !ok {
			break
		}
		data, ok := c.SpanData(parent)
		if !ok {
			break
		}
		spans = append(spans, data)
	}
	for i, j := 0, len(spans)-1; i < j; i, j = i+1, j-1 {
		spans[i], spans[j] = spans[j], spans[i]
	}
	return &Scope{spans: spans}
}

// Scope iterates stored span data from the root of the current trace
// tree to the current span. It is borrowed alongside the Context that
// produced it.
type Scope struct {
	spans []*SpanData
	next  int
}

// Next returns the next span in root-to-current order. ok is false when
// the scope is exhausted.
func (s *Scope) Next() (*SpanData, bool) {
	if s.next >= len(s.spans) {
		return nil, false
	}
	data := s.spans[s.next]
	s.next++
	return data, true
}

// Len returns the number of spans remaining in the scope.
func (s *Scope) Len() int {
	return len(s.spans) - s.next
}
