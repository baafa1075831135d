// Package layerz provides composable observer chains for span-based
// diagnostics.
//
// A complete trace consumer has two jobs: it must own span identity
// (minting, ref-counting, and retiring span IDs), and it must react to
// what happens to those spans. The first job cannot be shared - there has
// to be exactly one authoritative source of span IDs - but the second job
// composes freely. layerz splits the two apart: a Collector owns
// identity, any number of Observers watch it, and Layered glues a chain
// of observers onto a single collector so that the whole stack is
// indistinguishable from one bare collector to its caller.
//
// Core Components:.
//   - Collector: the full consumer contract, sole minter of span IDs.
//   - Observer: the composable subset - watches spans and events, never
//     mints IDs.
//   - Layered: a collector wrapped by one or more observers.
//   - Registry: a concrete Collector storing ref-counted span data.
//   - Context: the read-only view observers get of the collector.
//
// Basic Usage:.
//
//	registry := layerz.NewRegistry()
//	defer registry.Close()
//
//	chain := layerz.WithCollector(
//		layerz.And(layerz.NewLevelFilter(layerz.LevelInfo), layerz.NewConsole(os.Stdout)),
//		registry,
//	)
//
//	// The chain is used exactly like a bare collector.
//	id := chain.NewSpan(&layerz.Attributes{Metadata: md})
//	chain.Enter(id)
//	chain.Event(&layerz.Event{Metadata: eventMD, Message: "hello"})
//	chain.Exit(id)
//	chain.TryClose(id)
//
// Filtering:.
//
// Observers participate in two filtering decisions: RegisterCallsite,
// made once per callsite and cacheable by the dispatch layer, and
// Enabled, made per occurrence. Both are evaluated top-down through the
// chain, outermost observer first, and short-circuit: a Never interest or
// a false Enabled stops evaluation and disables the span or event for the
// entire chain. An observer that only wants to ignore data for itself
// must do so in its notification methods instead.
//
// Thread Safety:.
//
// A chain's shape is fixed at construction and never restructured, so
// the chain itself may be shared across goroutines without locking.
// Whatever mutable state a concrete observer or collector keeps is its
// own responsibility to guard. Registry is safe for concurrent use.
//
// Ordering:.
//
// For every notification, observers fire in the order they were added:
// And(a, b) notifies a before b, and the collector always acts before
// any observer is told about the result.
package layerz

// Target identifies the subsystem a callsite belongs to, typically a
// package path. Filters match against it by prefix.
type Target = string
