// Package reconcile turns inbound server messages into store mutations and UI
// directives.
//
// # Core Types
//
// Reconciler: the only writer of a room.Store. One call to Apply (or
// ApplyFrame) runs to completion before the next one starts.
//
// Result: what a step changed plus the Directives the UI should carry out.
//
// Directive: Navigate or Notify. Every failure the user sees arrives as a
// Notify with a Notice.
//
// Frames that fail to parse, unknown message kinds and snapshots that break
// a structural invariant are logged and dropped; the store is left as it was.
package reconcile
