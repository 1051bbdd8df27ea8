package kmer

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	// MaxLen is the maximum supported k-mer length in bases.
	MaxLen = 64

	// PackedBytes is the width of the packed base array (2 bits per base).
	PackedBytes = MaxLen / 4

	// Terminator is the extension character denoting "no neighbor".
	Terminator byte = 'F'
)

// --------------------------------------------------------------------------
// Kmer Type
// --------------------------------------------------------------------------

// Kmer is a fixed-length DNA subsequence with its two extension characters.
// Identity (Equal, Hash) is defined over Packed and Len only; the extensions
// are payload.
//
// The zero value is an empty k-mer of length 0.
type Kmer struct {
	Packed      [PackedBytes]byte
	Len         uint8
	BackwardExt byte
	ForwardExt  byte
}

// New creates a k-mer from its textual base sequence and its two extension
// characters. The sequence must consist of A, C, G, T and be at most MaxLen
// bases long; each extension must be a base or Terminator.
func New(seq string, backwardExt, forwardExt byte) (Kmer, error) {
	if len(seq) == 0 || len(seq) > MaxLen {
		return Kmer{}, fmt.Errorf("k-mer length %d out of range [1,%d]", len(seq), MaxLen)
	}
	if err := validateExt(backwardExt); err != nil {
		return Kmer{}, fmt.Errorf("backward extension: %v", err)
	}
	if err := validateExt(forwardExt); err != nil {
		return Kmer{}, fmt.Errorf("forward extension: %v", err)
	}

	k := Kmer{
		Len:         uint8(len(seq)),
		BackwardExt: backwardExt,
		ForwardExt:  forwardExt,
	}
	for i := 0; i < len(seq); i++ {
		code, err := encodeBase(seq[i])
		if err != nil {
			return Kmer{}, fmt.Errorf("position %d: %v", i, err)
		}
		k.setBase(uint8(i), code)
	}
	return k, nil
}

// String unpacks the base sequence.
func (k Kmer) String() string {
	buf := make([]byte, k.Len)
	for i := uint8(0); i < k.Len; i++ {
		buf[i] = decodeBase(k.base(i))
	}
	return string(buf)
}

// Equal reports whether both k-mers have the same packed key. Extensions are
// ignored.
func (k Kmer) Equal(other Kmer) bool {
	return k.Len == other.Len && k.Packed == other.Packed
}

// Hash returns the stable hash of the packed key. Extensions are ignored, so
// a key-only probe hashes identically to the stored k-mer.
func (k Kmer) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.Write(k.Packed[:])
	_, _ = d.Write([]byte{k.Len})
	return d.Sum64()
}

// IsStart reports whether this k-mer seeds a contig.
func (k Kmer) IsStart() bool {
	return k.BackwardExt == Terminator
}

// IsTerminal reports whether this k-mer ends its contig.
func (k Kmer) IsTerminal() bool {
	return k.ForwardExt == Terminator
}

// NextKey derives the successor key: the first base is shifted off and the
// forward extension appended. The result is a key-only probe, its own
// extensions are left as Terminator. Must not be called on a terminal k-mer.
func (k Kmer) NextKey() Kmer {
	n := Kmer{
		Len:         k.Len,
		BackwardExt: Terminator,
		ForwardExt:  Terminator,
	}
	for i := uint8(1); i < k.Len; i++ {
		n.setBase(i-1, k.base(i))
	}
	code, _ := encodeBase(k.ForwardExt)
	n.setBase(k.Len-1, code)
	return n
}

// --------------------------------------------------------------------------
// Base Packing
// --------------------------------------------------------------------------

// base returns the 2-bit code of the base at position i.
func (k Kmer) base(i uint8) byte {
	shift := (3 - i%4) * 2
	return (k.Packed[i/4] >> shift) & 0x3
}

// setBase stores the 2-bit code at position i.
func (k *Kmer) setBase(i uint8, code byte) {
	shift := (3 - i%4) * 2
	k.Packed[i/4] &^= 0x3 << shift
	k.Packed[i/4] |= (code & 0x3) << shift
}

func encodeBase(b byte) (byte, error) {
	switch b {
	case 'A':
		return 0, nil
	case 'C':
		return 1, nil
	case 'G':
		return 2, nil
	case 'T':
		return 3, nil
	default:
		return 0, fmt.Errorf("invalid base %q", b)
	}
}

func decodeBase(code byte) byte {
	switch code & 0x3 {
	case 0:
		return 'A'
	case 1:
		return 'C'
	case 2:
		return 'G'
	default:
		return 'T'
	}
}

func validateExt(b byte) error {
	switch b {
	case 'A', 'C', 'G', 'T', Terminator:
		return nil
	default:
		return fmt.Errorf("invalid extension %q", b)
	}
}
