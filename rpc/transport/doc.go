// Package transport defines the mesh transport interface connecting the N
// assembly processes.
//
// The mesh offers buffered non-blocking point-to-point sends, a non-blocking
// polling receive, a flush primitive, and the two blocking collectives
// (all-reduce sum and barrier) the insertion quiescence loop needs. Per-sender
// FIFO ordering towards each receiver is guaranteed by every implementation;
// no ordering exists across different senders.
//
// Subpackages provide the implementations: base contains the generic mesh
// over net.Conn, tcp and unix supply the connectors, and local implements an
// in-process channel mesh used by tests and single-host runs.
package transport
