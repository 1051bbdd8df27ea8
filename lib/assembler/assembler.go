package assembler

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dCTG/lib/kmer"
	"github.com/ValentinKolb/dCTG/lib/partition"
	"github.com/ValentinKolb/dCTG/lib/table"
	"github.com/ValentinKolb/dCTG/rpc/common"
	"github.com/ValentinKolb/dCTG/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
)

var Logger = common.GetLogger("assembler")

// --------------------------------------------------------------------------
// Assembler Type
// --------------------------------------------------------------------------

// Assembler owns one process's shard of the distributed k-mer table and runs
// the insertion and walk phases against the peer mesh. All methods are
// single-threaded; progress on incoming traffic happens by cooperative
// polling between work items.
type Assembler struct {
	cfg        *common.Config
	tp         transport.IMeshTransport
	table      *table.Table
	part       partition.Partitioner
	totalKmers uint64
	rank       int
	nProc      int

	localInserts  *metrics.Counter
	remoteInserts *metrics.Counter
	lookupReqs    *metrics.Counter
	lookupReplies *metrics.Counter
	doneTokens    *metrics.Counter
}

// Result is the outcome of one assembly run on one process.
type Result struct {
	// Contigs holds the ordered k-mer chain of every locally owned start
	// node.
	Contigs [][]kmer.Kmer

	// Phase durations
	InsertDuration time.Duration
	WalkDuration   time.Duration
}

// KmerCount returns the number of k-mers across all local contigs.
func (r *Result) KmerCount() uint64 {
	var sum uint64
	for _, c := range r.Contigs {
		sum += uint64(len(c))
	}
	return sum
}

// LengthStats returns the distribution of local contig lengths in k-mers.
func (r *Result) LengthStats() Stats {
	lengths := make([]float64, len(r.Contigs))
	for i, c := range r.Contigs {
		lengths[i] = float64(len(c))
	}
	return NewStats(lengths)
}

// New creates an assembler for one rank. The shard is sized from the total
// k-mer count and the configured load headroom; the partitioner derived from
// that size is identical on every rank.
func New(cfg *common.Config, tp transport.IMeshTransport, totalKmers uint64) *Assembler {
	tableSize := cfg.TableSize(totalKmers)
	part := partition.New(tp.Size(), tableSize)

	rank := tp.Rank()
	return &Assembler{
		cfg:        cfg,
		tp:         tp,
		table:      table.New(tableSize, part),
		part:       part,
		totalKmers: totalKmers,
		rank:       rank,
		nProc:      tp.Size(),

		localInserts:  metrics.GetOrCreateCounter(fmt.Sprintf(`dctg_inserts_total{scope="local",rank="%d"}`, rank)),
		remoteInserts: metrics.GetOrCreateCounter(fmt.Sprintf(`dctg_inserts_total{scope="remote",rank="%d"}`, rank)),
		lookupReqs:    metrics.GetOrCreateCounter(fmt.Sprintf(`dctg_lookup_requests_total{rank="%d"}`, rank)),
		lookupReplies: metrics.GetOrCreateCounter(fmt.Sprintf(`dctg_lookup_replies_total{rank="%d"}`, rank)),
		doneTokens:    metrics.GetOrCreateCounter(fmt.Sprintf(`dctg_done_tokens_total{rank="%d"}`, rank)),
	}
}

// TableSize returns the slot count of the local shard.
func (a *Assembler) TableSize() uint64 {
	return a.table.Cap()
}

// Run executes both phases over the given input stripe and returns the local
// contigs. The k-mers must be this rank's stripe of a file with totalKmers
// records in total.
func (a *Assembler) Run(kmers []kmer.Kmer) (*Result, error) {
	startInsert := time.Now()
	startNodes, err := a.insertPhase(kmers)
	if err != nil {
		return nil, err
	}
	insertDuration := time.Since(startInsert)

	Logger.Debugf("Rank %d finished inserting in %s (%d slots filled, %d start nodes)",
		a.rank, insertDuration, a.table.Size(), len(startNodes))

	startWalk := time.Now()
	contigs, err := a.walkPhase(startNodes)
	if err != nil {
		return nil, err
	}
	walkDuration := time.Since(startWalk)

	Logger.Debugf("Rank %d reconstructed %d contigs in %s", a.rank, len(contigs), walkDuration)

	return &Result{
		Contigs:        contigs,
		InsertDuration: insertDuration,
		WalkDuration:   walkDuration,
	}, nil
}
