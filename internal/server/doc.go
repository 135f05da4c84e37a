// Package server exposes the song tree over a small read-only HTTP API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Endpoints
//
// [TreeHandler] answers JSON queries against the tree, each under the shared tree lock:
//
//	GET /api/ls?path=Artist&recursive=1  entries of a directory
//	GET /api/lookup?uri=Artist/Album/01.flac  a song, or a directory with its counts
//	GET /api/stats  counts for the whole tree
//
// [NewMux] adds /metrics (Prometheus exposition) and /healthz next to them.
//
// [Serve] runs the router until its context is cancelled and then shuts the listener down gracefully.
package server
