// Package server provides the read-only inspection server for wirekit
// applications: Gin routes behind HTTP/2 cleartext (h2c) and the
// server/middleware stack.
//
// # Endpoints
//
//   - GET /health: component health plus the root context ID
//   - GET /wirings: wirings registered on the root context
//   - GET /wirings/:key: a single root wiring
//   - GET /contexts: the context tree
//   - GET /contexts/:id/wirings: wirings registered on one context
//   - GET /version: build metadata
//
// The server never constructs objects. Wiring listings read registry
// metadata only, so inspecting an app has no effect on its singletons.
package server
