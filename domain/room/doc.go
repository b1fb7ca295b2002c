// Package room holds the client-side mirror of a poker room: the data model
// pushed by the server and the Store that owns it.
//
// # Core Types
//
// RoomSnapshot: membership, status and seating of the room.
//
// GameStateSnapshot: the authoritative state of the running hand (pot, bets,
// board, player to act, winners).
//
// Identity: the local player as confirmed by the server.
//
// Store: the single owner of the above plus chat and log lines.
//
// # Replacement
//
// Snapshots are never merged. Each update replaces its predecessor as a
// whole, so stale fields cannot accumulate. A snapshot that breaks a
// structural invariant (seat range, duplicate seats, more than five board
// cards, a folded or missing player to act) is rejected and the previous
// one is kept.
package room
