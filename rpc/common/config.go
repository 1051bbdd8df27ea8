package common

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// --------------------------------------------------------------------------
// Run Modes
// --------------------------------------------------------------------------

// RunMode selects the output behavior of an assembly run.
type RunMode string

const (
	// ModeSilent prints only the total assembly time of rank 0; no contig or
	// k-mer counts are printed.
	ModeSilent RunMode = "silent"
	// ModeVerbose prints phase timings and per-rank statistics.
	ModeVerbose RunMode = "verbose"
	// ModeTest writes one contig per line to test_<rank>.dat.
	ModeTest RunMode = "test"
)

// ParseRunMode converts a string to a RunMode.
func ParseRunMode(s string) (RunMode, error) {
	switch RunMode(strings.ToLower(s)) {
	case ModeSilent:
		return ModeSilent, nil
	case ModeVerbose:
		return ModeVerbose, nil
	case ModeTest:
		return ModeTest, nil
	default:
		return "", fmt.Errorf("invalid mode %s (expected one of: silent, verbose, test)", s)
	}
}

// --------------------------------------------------------------------------
// Assembler configuration struct
// --------------------------------------------------------------------------

// Config holds all configuration parameters for one assembly process.
type Config struct {
	// Input
	KmerFile string
	KmerLen  uint64
	Mode     RunMode

	// Process identity; Peers maps rank to endpoint and its length is the
	// process count N
	Rank  int
	Peers map[int]string

	// Transport selection (tcp, unix, local) and in-process rank count for
	// the local transport
	Transport string
	Procs     int

	// Sizing knobs: LoadHeadroom is the slot headroom alpha over K/N,
	// BufferFactor is the send pool factor c over K/N
	LoadHeadroom float64
	BufferFactor float64

	// Timeout for mesh setup, collectives and flushes of the tcp and unix
	// transports; the local transport does not use it
	TimeoutSecond int

	// Logging configuration
	LogLevel string
}

// NProc returns the number of cooperating processes.
func (c *Config) NProc() int {
	if c.Transport == "local" {
		return c.Procs
	}
	return len(c.Peers)
}

// TableSize returns the slot count per shard for the given total k-mer
// count: ceil(LoadHeadroom * K / N), at least one slot.
func (c *Config) TableSize(totalKmers uint64) uint64 {
	n := c.NProc()
	m := uint64(math.Ceil(c.LoadHeadroom * float64(totalKmers) / float64(n)))
	if m == 0 {
		m = 1
	}
	return m
}

// SendQueueCap returns the per-destination send pool capacity in records:
// ceil(BufferFactor * K / N), with a floor so tiny inputs still have room
// for reply traffic.
func (c *Config) SendQueueCap(totalKmers uint64) int {
	n := c.NProc()
	queueCap := int(math.Ceil(c.BufferFactor * float64(totalKmers) / float64(n)))
	if queueCap < 64 {
		queueCap = 64
	}
	return queueCap
}

// Validate checks the configuration for consistency before any allocation.
func (c *Config) Validate() error {
	if c.KmerFile == "" {
		return fmt.Errorf("no k-mer file given")
	}
	if c.KmerLen == 0 {
		return fmt.Errorf("k-mer length must be positive")
	}
	if c.LoadHeadroom < 1.2 {
		return fmt.Errorf("load headroom %.2f below minimum 1.2", c.LoadHeadroom)
	}
	if c.BufferFactor <= 0 {
		return fmt.Errorf("buffer factor must be positive")
	}
	switch c.Transport {
	case "local":
		if c.Procs < 1 {
			return fmt.Errorf("local transport requires at least one process")
		}
	case "tcp", "unix":
		if len(c.Peers) < 1 {
			return fmt.Errorf("%s transport requires a peer list", c.Transport)
		}
		if _, ok := c.Peers[c.Rank]; !ok {
			return fmt.Errorf("own rank %d missing from peer list", c.Rank)
		}
	default:
		return fmt.Errorf("invalid transport %s (expected one of: tcp, unix, local)", c.Transport)
	}
	return nil
}

// PeerEndpoints returns the endpoints ordered by rank. The peer map must be
// dense in [0, N).
func (c *Config) PeerEndpoints() ([]string, error) {
	endpoints := make([]string, len(c.Peers))
	for rank, ep := range c.Peers {
		if rank < 0 || rank >= len(c.Peers) {
			return nil, fmt.Errorf("peer rank %d out of range [0,%d)", rank, len(c.Peers))
		}
		endpoints[rank] = ep
	}
	for rank, ep := range endpoints {
		if ep == "" {
			return nil, fmt.Errorf("no endpoint for rank %d", rank)
		}
	}
	return endpoints, nil
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Input")
	addField("K-mer File", c.KmerFile)
	addField("K-mer Length", fmt.Sprintf("%d", c.KmerLen))
	addField("Mode", string(c.Mode))

	addSection("Process")
	addField("Rank", fmt.Sprintf("%d", c.Rank))
	addField("Processes", fmt.Sprintf("%d", c.NProc()))
	addField("Transport", c.Transport)

	addSection("Sizing")
	addField("Load Headroom", fmt.Sprintf("%.2f", c.LoadHeadroom))
	addField("Buffer Factor", fmt.Sprintf("%.2f", c.BufferFactor))
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	if len(c.Peers) > 0 {
		addSection("Peers")

		// Sort ranks for consistent output
		var ranks []int
		for r := range c.Peers {
			ranks = append(ranks, r)
		}
		sort.Ints(ranks)

		for _, r := range ranks {
			addField(fmt.Sprintf("Rank %d", r), c.Peers[r])
		}
	}

	return sb.String()
}
