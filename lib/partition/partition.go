package partition

// Partitioner maps k-mer hashes to (owner rank, home slot) pairs. All fields
// are fixed at construction; the mapping never changes during a run.
type Partitioner struct {
	nProc     int
	tableSize uint64
}

// New creates a partitioner for nProc processes with tableSize slots per
// process. Both values must be positive.
func New(nProc int, tableSize uint64) Partitioner {
	return Partitioner{
		nProc:     nProc,
		tableSize: tableSize,
	}
}

// Owner returns the rank that owns the key with the given hash.
func (p Partitioner) Owner(hash uint64) int {
	return int(hash % uint64(p.nProc))
}

// HomeSlot returns the slot at which linear probing starts on the owner.
// The division by nProc discards the bits already consumed by Owner so that
// keys spread over the full slot range of their shard.
func (p Partitioner) HomeSlot(hash uint64) uint64 {
	return (hash / uint64(p.nProc)) % p.tableSize
}
