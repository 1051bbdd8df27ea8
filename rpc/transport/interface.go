package transport

import (
	"errors"

	"github.com/ValentinKolb/dCTG/rpc/common"
)

// ErrBufferExhausted is returned by Post when the per-destination send pool
// cannot accommodate another record. The caller treats this as fatal; the
// pool is sized up front and never grows.
var ErrBufferExhausted = errors.New("send buffer pool exhausted")

// IMeshTransport is the interface for the peer mesh connecting all processes
// of a run. All methods except the collectives and Flush are non-blocking.
type IMeshTransport interface {
	// Rank returns the own process id.
	Rank() int

	// Size returns the number of processes in the mesh.
	Size() int

	// Post enqueues a buffered send of one record to dst. Posting to the own
	// rank loops the record back into the local delivery queue. Returns
	// ErrBufferExhausted if the send pool for dst is full.
	Post(dst int, msg common.Message) error

	// Poll probes for an incoming record from any source. If one is present
	// it is received and returned with true; otherwise ok is false.
	Poll() (msg common.Message, ok bool)

	// Flush blocks until every locally posted record has been handed to the
	// wire.
	Flush() error

	// AllReduceSum is a blocking collective: every process contributes v and
	// all receive the global sum.
	AllReduceSum(v uint64) (uint64, error)

	// Barrier blocks until every process has entered it.
	Barrier() error

	// Close tears the mesh down. No call may be in flight.
	Close() error
}
