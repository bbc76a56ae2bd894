// Package server wires and runs the application's HTTP transport.
//
// It owns the process lifecycle: startup, signal handling, and the ordered
// graceful shutdown that stops sync loops, flushes snapshots and purges the
// stored access token before the listener closes.
package server
