// Package observe provides observability primitives for resilience guards.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. The resilience, parallel and memo packages accept
// its Logger as an injected sink; hosts that want tracing and metrics wire
// a Middleware around their guarded operations.
package observe
