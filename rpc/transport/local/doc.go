// Package local implements the in-process flavor of the peer mesh: all N
// ranks live in one OS process and exchange messages over channels. It backs
// the --transport local run mode and the integration tests. It keeps the
// per-sender FIFO order of the socket meshes; its send pool differs: each
// destination inbox holds nProc times the configured capacity, shared by all
// senders, and a slot frees only when the destination polls.
package local
