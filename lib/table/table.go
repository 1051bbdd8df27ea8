package table

import (
	"github.com/ValentinKolb/dCTG/lib/kmer"
	"github.com/ValentinKolb/dCTG/lib/partition"
)

// --------------------------------------------------------------------------
// Result Codes
// --------------------------------------------------------------------------

// InsertResult is the outcome of a TryInsert call.
type InsertResult uint8

const (
	// Inserted means the key was stored in a previously empty slot.
	Inserted InsertResult = iota
	// Duplicate means an equal key was already stored; the slot is unchanged.
	Duplicate
	// Full means every slot was probed without finding the key or a free
	// slot. The table is misconfigured; the caller treats this as fatal.
	Full
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Duplicate:
		return "duplicate"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Slot Table
// --------------------------------------------------------------------------

// slot is one open-addressing cell. filled never transitions back to false.
type slot struct {
	filled bool
	kmer   kmer.Kmer
}

// Table is one process-local shard of the distributed k-mer map.
type Table struct {
	slots   []slot
	part    partition.Partitioner
	size    uint64 // FILLED slots
	applied uint64 // insert attempts, duplicates included
}

// New creates a table with m slots using the given partitioner for home-slot
// computation. The partitioner must have been built with the same m.
func New(m uint64, part partition.Partitioner) *Table {
	return &Table{
		slots: make([]slot, m),
		part:  part,
	}
}

// TryInsert probes linearly from the key's home slot and stores the k-mer in
// the first empty slot. An equal key already present yields Duplicate; a full
// probe cycle yields Full. Duplicates still count towards Applied so that the
// global quiescence sum matches the input line count.
func (t *Table) TryInsert(k kmer.Kmer) InsertResult {
	m := uint64(len(t.slots))
	home := t.part.HomeSlot(k.Hash())

	for i := uint64(0); i < m; i++ {
		s := &t.slots[(home+i)%m]
		if !s.filled {
			s.filled = true
			s.kmer = k
			t.size++
			t.applied++
			return Inserted
		}
		if s.kmer.Equal(k) {
			t.applied++
			return Duplicate
		}
	}
	return Full
}

// TryFind probes linearly from the key's home slot and returns the stored
// k-mer (with its extensions) on a match. The first empty slot ends the probe
// with a miss.
func (t *Table) TryFind(key kmer.Kmer) (kmer.Kmer, bool) {
	m := uint64(len(t.slots))
	home := t.part.HomeSlot(key.Hash())

	for i := uint64(0); i < m; i++ {
		s := &t.slots[(home+i)%m]
		if !s.filled {
			return kmer.Kmer{}, false
		}
		if s.kmer.Equal(key) {
			return s.kmer, true
		}
	}
	return kmer.Kmer{}, false
}

// Size returns the number of FILLED slots.
func (t *Table) Size() uint64 {
	return t.size
}

// Applied returns the number of insert attempts applied to this shard,
// duplicates included.
func (t *Table) Applied() uint64 {
	return t.applied
}

// Cap returns the number of slots.
func (t *Table) Cap() uint64 {
	return uint64(len(t.slots))
}
