// Package base implements the generic peer mesh over net.Conn.
//
// The concrete socket flavor is injected via the IPeerConnector interface so
// that tcp and unix stay thin. Each ordered peer pair uses one dedicated
// connection with a single writer goroutine on the sending side, which gives
// the per-sender FIFO guarantee the walk termination protocol relies on. One
// reader goroutine per inbound connection decodes records into a merged
// delivery queue served by Poll; control frames for the collectives bypass
// that queue entirely.
package base
