package assembler

import (
	"math"
)

// Stats summarizes the distribution of local contig lengths (in k-mers) for
// the verbose report.
type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
}

// NewStats computes the length distribution in one pass over the raw moments:
// mean = s1/n, variance = s2/n - mean^2 (population form).
func NewStats(lengths []float64) Stats {
	n := float64(len(lengths))
	if n == 0 {
		return Stats{}
	}

	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var s1, s2 float64
	for _, l := range lengths {
		s1 += l
		s2 += l * l
		st.Min = math.Min(st.Min, l)
		st.Max = math.Max(st.Max, l)
	}

	st.Mean = s1 / n
	// Guard against a tiny negative variance from float cancellation
	st.StdDeviation = math.Sqrt(math.Max(0, s2/n-st.Mean*st.Mean))
	return st
}
