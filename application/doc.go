// Package application wires the store, reconciler, controller and view into
// a running client session.
//
// # Core Types
//
// Session: owns the store and the transport. Inbound frames, transport
// closes and user commands are queued onto a single goroutine and handled in
// arrival order; each one ends with at most one render.
//
// UI: the output side. It receives every Model and every Notice.
//
// Commands (JoinRoom, Act, ConfirmBet, ...) block until handled. Failures are
// reported to the UI as a Notice and also returned to the caller.
package application
