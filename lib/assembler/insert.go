package assembler

import (
	"fmt"

	"github.com/ValentinKolb/dCTG/lib/kmer"
	"github.com/ValentinKolb/dCTG/lib/table"
	"github.com/ValentinKolb/dCTG/rpc/common"
)

// insertPhase routes the local input stripe into the distributed table and
// returns the start nodes found in the stripe. On exit the global table holds
// every input k-mer and no insert is in flight.
func (a *Assembler) insertPhase(kmers []kmer.Kmer) ([]kmer.Kmer, error) {
	var startNodes []kmer.Kmer

	for _, k := range kmers {
		// Overlap: apply whatever peers routed here before the next own
		// k-mer
		if err := a.drainInserts(); err != nil {
			return nil, err
		}

		if err := a.routeInsert(k); err != nil {
			return nil, err
		}
		if k.IsStart() {
			startNodes = append(startNodes, k)
		}
	}

	if err := a.tp.Flush(); err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("flush after insert failed: %v", err))
	}

	// Quiescence loop: the applied counters sum to the input line count
	// exactly once every routed insert has been applied by its owner.
	// Duplicates count too (the table tracks applies, not distinct keys).
	for {
		applied, err := a.tp.AllReduceSum(a.table.Applied())
		if err != nil {
			return nil, NewError(RetCInternalError, fmt.Sprintf("quiescence all-reduce failed: %v", err))
		}
		if applied >= a.totalKmers {
			break
		}
		if err := a.drainInserts(); err != nil {
			return nil, err
		}
	}

	if err := a.tp.Barrier(); err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("insert barrier failed: %v", err))
	}

	return startNodes, nil
}

// routeInsert stores a k-mer locally or posts it to its owner.
func (a *Assembler) routeInsert(k kmer.Kmer) error {
	owner := a.part.Owner(k.Hash())
	if owner == a.rank {
		a.localInserts.Inc()
		return a.applyInsert(k)
	}

	a.remoteInserts.Inc()
	if err := a.tp.Post(owner, common.NewInsertMessage(a.rank, k)); err != nil {
		return NewError(RetCBufferExhausted,
			fmt.Sprintf("failed to route k-mer to rank %d: %v", owner, err))
	}
	return nil
}

// drainInserts applies every pending incoming insert. Only insert records may
// arrive during this phase; anything else is a protocol violation.
func (a *Assembler) drainInserts() error {
	for {
		msg, ok := a.tp.Poll()
		if !ok {
			return nil
		}
		if msg.MsgType != common.MsgTInsert {
			return NewError(RetCInternalError,
				fmt.Sprintf("unexpected %s record from rank %d during insert phase", msg.MsgType, msg.SrcRank))
		}
		if err := a.applyInsert(msg.Kmer); err != nil {
			return err
		}
	}
}

// applyInsert performs the local table insert; an overflow is fatal.
func (a *Assembler) applyInsert(k kmer.Kmer) error {
	if a.table.TryInsert(k) == table.Full {
		return NewError(RetCTableFull,
			fmt.Sprintf("local shard of %d slots overflowed on rank %d", a.table.Cap(), a.rank))
	}
	return nil
}
