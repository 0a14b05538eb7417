// Package server is the HTTP edge of the poll server, built on Echo.
//
// Routes: /ws (WebSocket upgrade behind connection admission limits), /health/live,
// /health/ready, /metrics and /version. Inbound frames are handed to the event loop;
// outbound traffic goes through broadcast.Client writers.
package server
