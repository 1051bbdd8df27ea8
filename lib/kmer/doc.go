// Package kmer implements the packed k-mer value type used throughout dCTG.
//
// A k-mer is a fixed-length DNA subsequence. The package stores the bases
// 2-bit packed in a fixed-width array so that k-mers can be hashed, compared
// and shipped over the wire without any heap allocation. Every k-mer carries
// two extension characters naming the predecessor and successor base (or 'F'
// for "no neighbor"); the extensions travel with the k-mer but are excluded
// from identity and hashing.
//
// The package also contains the thin file wrappers (Size, LineCount,
// ReadStripe) that give each process its contiguous stripe of the input file.
package kmer
