package kmer

import (
	"testing"
)

// TestNewAndString tests packing and unpacking of base sequences
func TestNewAndString(t *testing.T) {
	sequences := []string{
		"A",
		"ACT",
		"ACGTACGTACGT",
		"TTTTTTTTTTTTTTTTTTT",
		"GATTACAGATTACAGATTACAGATTACAGATTACAGATTACAGATTACAGATTACAGATTACAG", // MaxLen bases
	}

	for _, seq := range sequences {
		k, err := New(seq, 'F', 'F')
		if err != nil {
			t.Fatalf("New(%q) failed: %v", seq, err)
		}
		if got := k.String(); got != seq {
			t.Errorf("round trip of %q yielded %q", seq, got)
		}
		if k.Len != uint8(len(seq)) {
			t.Errorf("length of %q is %d, expected %d", seq, k.Len, len(seq))
		}
	}
}

// TestNewRejectsInvalidInput tests the input validation
func TestNewRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name       string
		seq        string
		bext, fext byte
	}{
		{"empty sequence", "", 'F', 'F'},
		{"invalid base", "ACXT", 'F', 'F'},
		{"lowercase base", "acgt", 'F', 'F'},
		{"invalid backward extension", "ACT", 'X', 'F'},
		{"invalid forward extension", "ACT", 'F', 'B'},
		{"too long", string(make([]byte, MaxLen+1)), 'F', 'F'},
	}

	for _, c := range cases {
		if _, err := New(c.seq, c.bext, c.fext); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}

// TestIdentityIgnoresExtensions tests that equality and hashing are defined
// over the packed key only
func TestIdentityIgnoresExtensions(t *testing.T) {
	a, _ := New("ACTGA", 'F', 'G')
	b, _ := New("ACTGA", 'C', 'T')
	c, _ := New("ACTGT", 'F', 'G')

	if !a.Equal(b) {
		t.Error("same sequence with different extensions should be equal")
	}
	if a.Hash() != b.Hash() {
		t.Error("same sequence with different extensions should hash equally")
	}
	if a.Equal(c) {
		t.Error("different sequences should not be equal")
	}
	if a.Hash() == c.Hash() {
		t.Error("different sequences should not collide on this input")
	}
}

// TestHashIsStable tests that the hash of a key never changes
func TestHashIsStable(t *testing.T) {
	k, _ := New("GATTACA", 'F', 'F')
	h := k.Hash()
	for i := 0; i < 10; i++ {
		if k.Hash() != h {
			t.Fatal("hash is not stable across calls")
		}
	}
}

// TestLengthIsPartOfIdentity tests that a prefix-equal shorter key differs
func TestLengthIsPartOfIdentity(t *testing.T) {
	a, _ := New("ACGT", 'F', 'F')
	b, _ := New("ACG", 'F', 'F')

	if a.Equal(b) {
		t.Error("keys of different length should not be equal")
	}
	if a.Hash() == b.Hash() {
		t.Error("keys of different length should not hash equally")
	}
}

// TestNextKey tests the successor key derivation
func TestNextKey(t *testing.T) {
	k, err := New("ACT", 'F', 'G')
	if err != nil {
		t.Fatal(err)
	}

	next := k.NextKey()
	if got := next.String(); got != "CTG" {
		t.Errorf("NextKey of ACT with forward extension G is %q, expected CTG", got)
	}
	if next.Len != k.Len {
		t.Errorf("NextKey changed the length to %d", next.Len)
	}

	// The derived key must equal the stored successor regardless of the
	// successor's own extensions
	stored, _ := New("CTG", 'A', 'T')
	if !next.Equal(stored) {
		t.Error("derived key does not match the stored successor")
	}
	if next.Hash() != stored.Hash() {
		t.Error("derived key does not hash like the stored successor")
	}
}

// TestTerminalFlags tests the extension predicates
func TestTerminalFlags(t *testing.T) {
	start, _ := New("ACT", 'F', 'G')
	if !start.IsStart() || start.IsTerminal() {
		t.Error("k-mer with backward F should be a start node only")
	}

	end, _ := New("TGT", 'C', 'F')
	if end.IsStart() || !end.IsTerminal() {
		t.Error("k-mer with forward F should be terminal only")
	}
}
