// Package app runs the event loop that owns all room, poll and connection state.
//
// The Hub is an actor: one goroutine drains a command channel (connect, frame,
// disconnect, stats, stop) and the poll countdown tick channel. Every handler
// runs to completion before the next event is taken, so the registry, room
// store and poll coordinator need no locks.
package app
