// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (room.go, poll.go, message.go, errors.go, etc.)
// with shared types and cross-cutting interfaces. Only small invariant-keeping methods live here;
// the state machines are implemented in the room and poll packages.
package domain
