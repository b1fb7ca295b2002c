// Package network connects the client to the poker server.
//
// # Core Components
//
// WSTransport: a gorilla websocket carrying JSON text frames. Receive and
// Send may run on different goroutines; Close is idempotent.
//
// RoomsClient: the HTTP endpoint that creates rooms before the websocket
// join.
//
// # Timeouts
//
// Dial, each Send and every HTTP call are bounded by the timeout set with
// WithTimeout (DefaultTimeout otherwise). Receive has no deadline and is
// unblocked by cancelling its context or closing the transport.
package network
