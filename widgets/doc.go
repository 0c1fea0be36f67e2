// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless layout helpers (fixed-width table formatting)
//
// Not allowed here:
// - key handling, app state transitions, styling, or tab policy
package widgets
