package assembler

import (
	"fmt"
	"runtime"

	"github.com/ValentinKolb/dCTG/lib/kmer"
	"github.com/ValentinKolb/dCTG/rpc/common"
)

// cursor is the walk state of one locally owned start node. A cursor is
// ready when its tail may be advanced, waiting while a remote lookup is in
// flight, and done once its tail carries the terminal extension.
type cursor struct {
	contig []kmer.Kmer
	ready  bool
	done   bool
}

// walkPhase chains every local start node to its terminal k-mer and returns
// the finished contigs. The loop services incoming traffic first and then
// advances every ready cursor by one step, so lookups against this shard are
// answered while the own walks are stalled on remote replies.
func (a *Assembler) walkPhase(startNodes []kmer.Kmer) ([][]kmer.Kmer, error) {
	cursors := make([]*cursor, len(startNodes))
	for i, start := range startNodes {
		cursors[i] = &cursor{
			contig: []kmer.Kmer{start},
			ready:  true,
		}
	}

	totalDone := 0
	localDone := 0

	// A rank without start nodes is finished before its first step. It
	// still has to participate: peers resolve successors against its shard
	// until every rank has broadcast its token.
	if len(cursors) == 0 {
		if err := a.broadcastDone(); err != nil {
			return nil, err
		}
	}

	for totalDone < a.nProc {
		serviced, err := a.serviceTraffic(cursors, &totalDone)
		if err != nil {
			return nil, err
		}

		advanced := false
		if localDone < len(cursors) {
			advanced, err = a.advanceCursors(cursors, &localDone)
			if err != nil {
				return nil, err
			}
		}

		// All cursors parked on remote lookups: yield so the transport
		// goroutines can deliver
		if !serviced && !advanced {
			runtime.Gosched()
		}
	}

	if err := a.tp.Flush(); err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("flush after walk failed: %v", err))
	}
	if err := a.tp.Barrier(); err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("walk barrier failed: %v", err))
	}

	contigs := make([][]kmer.Kmer, len(cursors))
	for i, c := range cursors {
		contigs[i] = c.contig
	}
	return contigs, nil
}

// serviceTraffic polls until no record remains and dispatches each one. It
// reports whether at least one record was handled.
func (a *Assembler) serviceTraffic(cursors []*cursor, totalDone *int) (bool, error) {
	serviced := false
	for {
		msg, ok := a.tp.Poll()
		if !ok {
			return serviced, nil
		}
		serviced = true

		switch msg.MsgType {
		case common.MsgTLookupReq:
			k, hit := a.table.TryFind(msg.Kmer)
			a.lookupReplies.Inc()
			reply := common.NewLookupReplyMessage(a.rank, msg.CursorID, k, hit)
			if err := a.tp.Post(int(msg.SrcRank), reply); err != nil {
				return serviced, NewError(RetCBufferExhausted,
					fmt.Sprintf("failed to reply to rank %d: %v", msg.SrcRank, err))
			}

		case common.MsgTLookupReply:
			if msg.CursorID >= uint64(len(cursors)) {
				return serviced, NewError(RetCInternalError,
					fmt.Sprintf("reply for unknown cursor %d from rank %d", msg.CursorID, msg.SrcRank))
			}
			if !msg.Ok {
				c := cursors[msg.CursorID]
				tail := c.contig[len(c.contig)-1]
				return serviced, NewError(RetCBrokenChain,
					fmt.Sprintf("successor of %s (forward extension %q) is absent from the shard of rank %d",
						tail.String(), tail.ForwardExt, msg.SrcRank))
			}
			c := cursors[msg.CursorID]
			c.contig = append(c.contig, msg.Kmer)
			c.ready = true

		case common.MsgTDone:
			a.doneTokens.Inc()
			*totalDone++

		default:
			return serviced, NewError(RetCInternalError,
				fmt.Sprintf("unexpected %s record from rank %d during walk phase", msg.MsgType, msg.SrcRank))
		}
	}
}

// advanceCursors moves every ready cursor one step. When the last local
// cursor finishes, the done token is broadcast to every rank including this
// one. It reports whether at least one cursor made a step.
func (a *Assembler) advanceCursors(cursors []*cursor, localDone *int) (bool, error) {
	advanced := false
	for i, c := range cursors {
		if c.done || !c.ready {
			continue
		}
		advanced = true

		tail := c.contig[len(c.contig)-1]
		if tail.IsTerminal() {
			c.done = true
			*localDone++
			if *localDone == len(cursors) {
				if err := a.broadcastDone(); err != nil {
					return advanced, err
				}
			}
			continue
		}

		succ := tail.NextKey()
		owner := a.part.Owner(succ.Hash())
		if owner == a.rank {
			k, found := a.table.TryFind(succ)
			if !found {
				return advanced, NewError(RetCBrokenChain,
					fmt.Sprintf("successor of %s (forward extension %q) is absent from the local shard",
						tail.String(), tail.ForwardExt))
			}
			c.contig = append(c.contig, k)
			continue
		}

		c.ready = false
		a.lookupReqs.Inc()
		if err := a.tp.Post(owner, common.NewLookupReqMessage(a.rank, uint64(i), succ)); err != nil {
			return advanced, NewError(RetCBufferExhausted,
				fmt.Sprintf("failed to post lookup to rank %d: %v", owner, err))
		}
	}
	return advanced, nil
}

// broadcastDone posts the done token to every rank. The self token travels
// through the loopback so every rank counts exactly N tokens. Per-sender
// FIFO guarantees that any earlier reply posted to a destination is on the
// wire before its token.
func (a *Assembler) broadcastDone() error {
	for r := 0; r < a.nProc; r++ {
		if err := a.tp.Post(r, common.NewDoneMessage(a.rank)); err != nil {
			return NewError(RetCBufferExhausted,
				fmt.Sprintf("failed to broadcast done token to rank %d: %v", r, err))
		}
	}
	return nil
}
