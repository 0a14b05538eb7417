// Package redis publishes room and poll lifecycle events to Redis pub/sub.
//
// The Publisher queues events from the event loop and sends them from a background
// goroutine, so a slow or unavailable Redis never stalls room traffic. All commands go
// through a circuit breaker hook and a metrics hook installed on the go-redis client.
package redis
