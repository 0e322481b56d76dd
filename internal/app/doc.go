// Package app provides application initialization and lifecycle management.
// It wires configuration, logging, observability, the attendance services and
// the HTTP router together at startup, and handles graceful shutdown on
// SIGINT/SIGTERM: active requests drain within the configured shutdown
// timeout and the tracing/metrics providers flush before exit.
package app
