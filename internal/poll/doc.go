// Package poll implements the per-room poll state machine: NoPoll -> Active -> Ended.
//
// Every active poll owns a countdown task that posts one Tick per second into the
// event loop via Ticks(). Ticks are applied by HandleTick on the event loop goroutine,
// so a poll's state is only ever touched by one goroutine. The countdown is cancelled
// exactly once, on expiry, explicit end, or when its room is removed.
package poll
