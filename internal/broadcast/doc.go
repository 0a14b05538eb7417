// Package broadcast delivers outbound frames to the members of a room.
//
// Each WebSocket connection is wrapped in a Client that owns one writer goroutine and a
// buffered send channel, so a slow peer never blocks the event loop. The Dispatcher only
// enqueues; it skips connections that are no longer open and never removes members
// itself, that is left to the close path.
package broadcast
