// Package controller derives which poker actions the local player may take
// and sends the chosen one to the server.
//
// Derive is a pure function of the game snapshot and the local identity. The
// checks made before sending are advisory only: the server owns the rules and
// answers every accepted action with a fresh snapshot, never with an
// acknowledgement.
package controller
