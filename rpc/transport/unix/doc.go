// Package unix provides the Unix domain socket flavor of the peer mesh for
// runs where all assembly processes share one host.
package unix
