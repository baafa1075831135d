package layerz

import "reflect"

// downcaster is implemented by composition nodes that can search their
// children for a concrete component. Leaf observers and collectors do
// not implement it; the walker checks their runtime type directly.
type downcaster interface {
	downcastRaw(target reflect.Type) any
}

// Downcast recovers a concrete component from an otherwise opaque chain
// by its exact type. It walks the ownership tree depth-first - each node
// checks itself, then its later-added child, then its inner child - and
// the first match wins. Asking for a type the chain does not contain
// yields ok=false; it is never an error.
//
//	console, ok := layerz.Downcast[*Console](chain)
//
// The match is on runtime type identity, so T must be the component's
// concrete type (usually a pointer type), not an interface it satisfies.
func Downcast[T any](node any) (T, bool) {
	var zero T
	target := reflect.TypeOf(zero)
	if target == nil {
		// T is an interface type; identity recovery needs a concrete
		// type to compare against.
		return zero, false
	}
	found := downcastRaw(node, target)
	if found == nil {
		return zero, false
	}
	return found.(T), true
}

// downcastRaw checks a single node: its runtime type first, then its
// children if it is a composition node. The type identity check always
// happens before the value is handed back, so a mismatch can only ever
// produce "not found".
func downcastRaw(node any, target reflect.Type) any {
	if reflect.TypeOf(node) == target {
		return node
	}
	if d, ok := node.(downcaster); ok {
		return d.downcastRaw(target)
	}
	return nil
}
