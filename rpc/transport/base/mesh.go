package base

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dCTG/rpc/common"
	"github.com/ValentinKolb/dCTG/rpc/serializer"
	"github.com/ValentinKolb/dCTG/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

var Logger = common.GetLogger("transport/mesh")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IPeerConnector defines the interface for transport-specific socket
// operations
type IPeerConnector interface {
	// Listen creates a listener on the own endpoint
	Listen(endpoint string) (net.Listener, error)

	// Connect establishes a single connection to a peer endpoint
	Connect(endpoint string) (net.Conn, error)

	// UpgradeConnection applies protocol-specific settings to an
	// established connection
	UpgradeConnection(conn net.Conn) error

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// MeshConfig parameterizes one mesh endpoint.
type MeshConfig struct {
	// Rank is the own process id, an index into Endpoints
	Rank int
	// Endpoints lists one endpoint per rank
	Endpoints []string
	// SendQueueCap is the send pool capacity per destination, in records
	SendQueueCap int
	// TimeoutSecond bounds mesh setup, collectives and flushes (0 = none)
	TimeoutSecond int
}

// ctrlQueueHeadroom reserves queue slots for control frames so that the
// collectives can always make progress past a full data pool.
const ctrlQueueHeadroom = 16

// outFrame is one queued frame on its way to a peer.
type outFrame struct {
	tag    byte
	value  uint64
	record [serializer.RecordSize]byte
}

// peerLink is the outbound half of one ordered peer pair: a connection owned
// by a single writer goroutine, fed through a bounded queue.
type peerLink struct {
	rank        int
	conn        net.Conn
	queue       chan outFrame
	dataPending atomic.Int64
}

// meshTransport implements the core mesh functionality independent of the
// specific socket flavor (unix, tcp).
type meshTransport struct {
	connector IPeerConnector
	codec     serializer.IRecordCodec
	cfg       MeshConfig
	nProc     int

	listener net.Listener
	links    *xsync.MapOf[int, *peerLink]
	conns    []net.Conn
	connsMu  sync.Mutex

	// inbox is the merged delivery queue. Its capacity covers the combined
	// send pools of all peers plus the loopback pool, so a reader goroutine
	// is never blocked on delivery while the main thread sits in a
	// collective.
	inbox    chan common.Message
	inFlight *xsync.Counter

	reduceCh chan uint64
	resultCh chan uint64

	closing atomic.Bool
	done    chan struct{}
	readers sync.WaitGroup
	writers sync.WaitGroup

	postedRecords   *metrics.Counter
	receivedRecords *metrics.Counter
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix)
// -----------------------------------------------------------

// NewBaseMeshTransport builds the full mesh: it listens on the own endpoint,
// dials every peer, and blocks until all 2*(N-1) directed connections are
// established. Peers may start at different times; dialing retries until the
// configured timeout.
func NewBaseMeshTransport(connector IPeerConnector, codec serializer.IRecordCodec, cfg MeshConfig) (transport.IMeshTransport, error) {
	nProc := len(cfg.Endpoints)
	if nProc == 0 {
		return nil, fmt.Errorf("no endpoints provided")
	}
	if cfg.Rank < 0 || cfg.Rank >= nProc {
		return nil, fmt.Errorf("rank %d out of range [0,%d)", cfg.Rank, nProc)
	}
	if cfg.SendQueueCap < 1 {
		return nil, fmt.Errorf("send queue capacity must be positive")
	}

	t := &meshTransport{
		connector:       connector,
		codec:           codec,
		cfg:             cfg,
		nProc:           nProc,
		links:           xsync.NewMapOf[int, *peerLink](),
		inbox:           make(chan common.Message, nProc*(cfg.SendQueueCap+ctrlQueueHeadroom)),
		inFlight:        xsync.NewCounter(),
		done:            make(chan struct{}),
		reduceCh:        make(chan uint64, nProc),
		resultCh:        make(chan uint64, 1),
		postedRecords:   metrics.GetOrCreateCounter(fmt.Sprintf(`dctg_records_posted_total{rank="%d"}`, cfg.Rank)),
		receivedRecords: metrics.GetOrCreateCounter(fmt.Sprintf(`dctg_records_received_total{rank="%d"}`, cfg.Rank)),
	}

	// Single process: only the loopback path is needed
	if nProc == 1 {
		return t, nil
	}

	listener, err := connector.Listen(cfg.Endpoints[cfg.Rank])
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %v", err)
	}
	t.listener = listener

	Logger.Infof("Rank %d starting %s mesh on %s with %d peers",
		cfg.Rank, connector.GetName(), cfg.Endpoints[cfg.Rank], nProc-1)

	var g errgroup.Group
	g.Go(t.acceptPeers)
	g.Go(t.dialPeers)

	if err := g.Wait(); err != nil {
		t.teardown()
		return nil, err
	}

	Logger.Infof("Rank %d mesh established (%d inbound, %d outbound)",
		cfg.Rank, nProc-1, nProc-1)

	return t, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IMeshTransport)
// --------------------------------------------------------------------------

func (t *meshTransport) Rank() int {
	return t.cfg.Rank
}

func (t *meshTransport) Size() int {
	return t.nProc
}

func (t *meshTransport) Post(dst int, msg common.Message) error {
	t.postedRecords.Inc()

	// Loopback: the own delivery queue doubles as the send pool for self
	if dst == t.cfg.Rank {
		select {
		case t.inbox <- msg:
			return nil
		default:
			return transport.ErrBufferExhausted
		}
	}

	link, ok := t.links.Load(dst)
	if !ok {
		return fmt.Errorf("no link to rank %d", dst)
	}
	if link.dataPending.Load() >= int64(t.cfg.SendQueueCap) {
		return transport.ErrBufferExhausted
	}

	f := outFrame{tag: frameData}
	t.codec.Encode(msg, &f.record)

	link.dataPending.Add(1)
	t.inFlight.Inc()
	link.queue <- f
	return nil
}

func (t *meshTransport) Poll() (common.Message, bool) {
	select {
	case msg := <-t.inbox:
		return msg, true
	default:
		return common.Message{}, false
	}
}

func (t *meshTransport) Flush() error {
	deadline := t.deadline()
	for t.inFlight.Value() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return fmt.Errorf("flush timed out with %d records in flight", t.inFlight.Value())
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

func (t *meshTransport) AllReduceSum(v uint64) (uint64, error) {
	if t.nProc == 1 {
		return v, nil
	}

	timeoutCh := t.timeoutCh()

	// Rank 0 gathers every contribution and broadcasts the sum; all other
	// ranks contribute and wait. Control frames share the per-link writer
	// queues, which keeps them ordered behind pending data towards the same
	// destination.
	if t.cfg.Rank == 0 {
		sum := v
		for i := 0; i < t.nProc-1; i++ {
			select {
			case x := <-t.reduceCh:
				sum += x
			case <-timeoutCh:
				return 0, fmt.Errorf("all-reduce timed out waiting for contributions")
			}
		}
		for r := 1; r < t.nProc; r++ {
			if err := t.postCtrl(r, frameReduceResult, sum); err != nil {
				return 0, err
			}
		}
		return sum, nil
	}

	if err := t.postCtrl(0, frameReduce, v); err != nil {
		return 0, err
	}
	select {
	case sum := <-t.resultCh:
		return sum, nil
	case <-timeoutCh:
		return 0, fmt.Errorf("all-reduce timed out waiting for result")
	}
}

func (t *meshTransport) Barrier() error {
	_, err := t.AllReduceSum(0)
	return err
}

func (t *meshTransport) Close() error {
	t.teardown()
	return nil
}

// --------------------------------------------------------------------------
// Mesh Setup
// --------------------------------------------------------------------------

// acceptPeers accepts one inbound connection per peer. The dialing peer
// identifies itself with a hello frame before any data flows.
func (t *meshTransport) acceptPeers() error {
	if d, ok := t.listener.(interface{ SetDeadline(time.Time) error }); ok {
		if deadline := t.deadline(); !deadline.IsZero() {
			_ = d.SetDeadline(deadline)
		}
	}

	seen := make(map[uint64]bool)
	for i := 0; i < t.nProc-1; i++ {
		conn, err := t.listener.Accept()
		if err != nil {
			return fmt.Errorf("accept error: %v", err)
		}
		if err := t.connector.UpgradeConnection(conn); err != nil {
			conn.Close()
			return fmt.Errorf("failed to upgrade inbound connection: %v", err)
		}

		if deadline := t.deadline(); !deadline.IsZero() {
			_ = conn.SetReadDeadline(deadline)
		}
		var record [serializer.RecordSize]byte
		tag, rank, err := readFrame(conn, &record)
		if err != nil || tag != frameHello {
			conn.Close()
			return fmt.Errorf("peer did not identify itself: %v", err)
		}
		if rank >= uint64(t.nProc) || int(rank) == t.cfg.Rank || seen[rank] {
			conn.Close()
			return fmt.Errorf("invalid hello from rank %d", rank)
		}
		seen[rank] = true
		_ = conn.SetReadDeadline(time.Time{})

		t.trackConn(conn)
		t.readers.Add(1)
		go t.readLoop(conn, int(rank))
	}
	return nil
}

// dialPeers establishes the outbound link to every peer, retrying while the
// peer may still be starting up.
func (t *meshTransport) dialPeers() error {
	for r := 0; r < t.nProc; r++ {
		if r == t.cfg.Rank {
			continue
		}

		conn, err := t.dialWithRetry(t.cfg.Endpoints[r])
		if err != nil {
			return fmt.Errorf("failed to connect to rank %d: %v", r, err)
		}
		if err := t.connector.UpgradeConnection(conn); err != nil {
			conn.Close()
			return fmt.Errorf("failed to upgrade connection to rank %d: %v", r, err)
		}
		if err := writeCtrlFrame(conn, frameHello, uint64(t.cfg.Rank)); err != nil {
			conn.Close()
			return fmt.Errorf("failed to identify towards rank %d: %v", r, err)
		}

		link := &peerLink{
			rank:  r,
			conn:  conn,
			queue: make(chan outFrame, t.cfg.SendQueueCap+ctrlQueueHeadroom),
		}
		t.trackConn(conn)
		t.links.Store(r, link)
		t.writers.Add(1)
		go t.writeLoop(link)
	}
	return nil
}

// dialWithRetry dials the endpoint with a short backoff until it succeeds or
// the setup deadline passes.
func (t *meshTransport) dialWithRetry(endpoint string) (net.Conn, error) {
	deadline := t.deadline()
	backoff := 50 * time.Millisecond

	for {
		conn, err := t.connector.Connect(endpoint)
		if err == nil {
			return conn, nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, err
		}

		Logger.Debugf("Dial %s failed, retrying: %v", endpoint, err)
		time.Sleep(backoff)
		if backoff < time.Second {
			backoff *= 2
		}
	}
}

// --------------------------------------------------------------------------
// Wire Loops
// --------------------------------------------------------------------------

// writeLoop is the single writer of one outbound link; queue order is wire
// order, which provides per-sender FIFO towards that peer.
func (t *meshTransport) writeLoop(link *peerLink) {
	defer t.writers.Done()

	for f := range link.queue {
		var err error
		switch f.tag {
		case frameData:
			err = writeDataFrame(link.conn, f.record[:])
			link.dataPending.Add(-1)
			t.inFlight.Dec()
		default:
			err = writeCtrlFrame(link.conn, f.tag, f.value)
		}
		if err != nil {
			if !t.closing.Load() {
				Logger.Errorf("Failed to write to rank %d: %v", link.rank, err)
			}
			return
		}
	}
}

// readLoop decodes every frame of one inbound connection and routes it:
// records to the delivery queue, control frames to the collective channels.
func (t *meshTransport) readLoop(conn net.Conn, rank int) {
	defer t.readers.Done()

	var record [serializer.RecordSize]byte
	for {
		tag, value, err := readFrame(conn, &record)
		if err != nil {
			if !t.closing.Load() {
				Logger.Errorf("Failed to read from rank %d: %v", rank, err)
			}
			return
		}

		switch tag {
		case frameData:
			var msg common.Message
			if err := t.codec.Decode(&record, &msg); err != nil {
				Logger.Errorf("Dropping malformed record from rank %d: %v", rank, err)
				continue
			}
			t.receivedRecords.Inc()
			select {
			case t.inbox <- msg:
			case <-t.done:
				return
			}
		case frameReduce:
			t.reduceCh <- value
		case frameReduceResult:
			t.resultCh <- value
		default:
			Logger.Errorf("Dropping frame with unknown tag %d from rank %d", tag, rank)
		}
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// postCtrl enqueues a control frame; control frames use the reserved queue
// headroom and may block briefly, never indefinitely.
func (t *meshTransport) postCtrl(dst int, tag byte, value uint64) error {
	link, ok := t.links.Load(dst)
	if !ok {
		return fmt.Errorf("no link to rank %d", dst)
	}
	link.queue <- outFrame{tag: tag, value: value}
	return nil
}

func (t *meshTransport) trackConn(conn net.Conn) {
	t.connsMu.Lock()
	defer t.connsMu.Unlock()
	t.conns = append(t.conns, conn)
}

// deadline returns the absolute setup/collective deadline, or the zero time
// if no timeout is configured.
func (t *meshTransport) deadline() time.Time {
	if t.cfg.TimeoutSecond <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(t.cfg.TimeoutSecond) * time.Second)
}

// timeoutCh returns a channel that fires at the collective deadline, or nil
// (never fires) without a timeout.
func (t *meshTransport) timeoutCh() <-chan time.Time {
	if t.cfg.TimeoutSecond <= 0 {
		return nil
	}
	return time.After(time.Duration(t.cfg.TimeoutSecond) * time.Second)
}

// teardown closes every wire and waits for the loops to exit.
func (t *meshTransport) teardown() {
	if !t.closing.CompareAndSwap(false, true) {
		return
	}
	close(t.done)

	if t.listener != nil {
		_ = t.listener.Close()
	}

	t.links.Range(func(_ int, link *peerLink) bool {
		close(link.queue)
		return true
	})
	t.writers.Wait()

	t.connsMu.Lock()
	for _, conn := range t.conns {
		_ = conn.Close()
	}
	t.conns = nil
	t.connsMu.Unlock()
	t.readers.Wait()
}
