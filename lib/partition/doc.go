// Package partition implements the pure partition function that maps a k-mer
// hash to its owning process and home slot. The function is the only glue
// between the per-process table shards: it must be deterministic and agreed
// upon by every process for the lifetime of a run.
package partition
