// Package tcp provides the TCP flavor of the peer mesh. It is the transport
// of choice when the assembly processes run on different hosts.
package tcp
