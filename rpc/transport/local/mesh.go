package local

import (
	"fmt"

	"github.com/ValentinKolb/dCTG/rpc/common"
	"github.com/ValentinKolb/dCTG/rpc/transport"
)

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// hub is the shared state of one in-process mesh. Delivery is a direct
// channel send into the destination inbox, so each sender's posts arrive in
// order (channels are FIFO) while posts of different senders interleave
// freely, matching the socket meshes.
type hub struct {
	nProc    int
	inboxes  []chan common.Message
	reduceCh chan uint64
	results  []chan uint64
}

// meshTransport is one rank's endpoint of the hub.
type meshTransport struct {
	hub  *hub
	rank int
}

// -----------------------------------------------------------
// Transport Factory Method
// -----------------------------------------------------------

// NewLocalMesh creates an in-process mesh of nProc ranks with the given send
// pool capacity per destination and returns one transport per rank.
func NewLocalMesh(nProc, sendQueueCap int) ([]transport.IMeshTransport, error) {
	if nProc < 1 {
		return nil, fmt.Errorf("process count must be positive")
	}
	if sendQueueCap < 1 {
		return nil, fmt.Errorf("send queue capacity must be positive")
	}

	h := &hub{
		nProc:    nProc,
		inboxes:  make([]chan common.Message, nProc),
		reduceCh: make(chan uint64, nProc),
		results:  make([]chan uint64, nProc),
	}
	for i := 0; i < nProc; i++ {
		// The inbox absorbs the combined pools of all senders
		h.inboxes[i] = make(chan common.Message, nProc*sendQueueCap)
		h.results[i] = make(chan uint64, 1)
	}

	transports := make([]transport.IMeshTransport, nProc)
	for i := 0; i < nProc; i++ {
		transports[i] = &meshTransport{hub: h, rank: i}
	}
	return transports, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IMeshTransport)
// --------------------------------------------------------------------------

func (t *meshTransport) Rank() int {
	return t.rank
}

func (t *meshTransport) Size() int {
	return t.hub.nProc
}

func (t *meshTransport) Post(dst int, msg common.Message) error {
	if dst < 0 || dst >= t.hub.nProc {
		return fmt.Errorf("no link to rank %d", dst)
	}
	select {
	case t.hub.inboxes[dst] <- msg:
		return nil
	default:
		return transport.ErrBufferExhausted
	}
}

func (t *meshTransport) Poll() (common.Message, bool) {
	select {
	case msg := <-t.hub.inboxes[t.rank]:
		return msg, true
	default:
		return common.Message{}, false
	}
}

// Flush is a no-op: delivery happens inside Post, nothing stays in flight.
func (t *meshTransport) Flush() error {
	return nil
}

func (t *meshTransport) AllReduceSum(v uint64) (uint64, error) {
	if t.hub.nProc == 1 {
		return v, nil
	}

	if t.rank == 0 {
		sum := v
		for i := 0; i < t.hub.nProc-1; i++ {
			sum += <-t.hub.reduceCh
		}
		for r := 1; r < t.hub.nProc; r++ {
			t.hub.results[r] <- sum
		}
		return sum, nil
	}

	t.hub.reduceCh <- v
	return <-t.hub.results[t.rank], nil
}

func (t *meshTransport) Barrier() error {
	_, err := t.AllReduceSum(0)
	return err
}

func (t *meshTransport) Close() error {
	return nil
}
