// Package table implements the per-process open-addressed slot table holding
// one shard of the distributed k-mer map.
//
// The table is build-once/read-many: slots are fixed in number at
// construction, a FILLED slot is never overwritten or cleared, and there are
// no deletions or resizes. Linear probing therefore needs no tombstones and
// always terminates as long as the load factor stays below one, which the
// caller guarantees by sizing the table with headroom over the expected key
// count. The caller also guarantees single-threaded access.
package table
