package table

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/dCTG/lib/kmer"
	"github.com/ValentinKolb/dCTG/lib/partition"
)

// newTestTable creates a single-shard table with m slots
func newTestTable(m uint64) *Table {
	return New(m, partition.New(1, m))
}

// mustKmer builds a k-mer or fails the test
func mustKmer(t *testing.T, seq string, bext, fext byte) kmer.Kmer {
	t.Helper()
	k, err := kmer.New(seq, bext, fext)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

// TestInsertAndFind tests the basic insert/find cycle
func TestInsertAndFind(t *testing.T) {
	tbl := newTestTable(16)
	k := mustKmer(t, "ACT", 'F', 'G')

	if res := tbl.TryInsert(k); res != Inserted {
		t.Fatalf("TryInsert = %s, expected inserted", res)
	}
	if tbl.Size() != 1 {
		t.Errorf("Size() = %d, expected 1", tbl.Size())
	}

	got, found := tbl.TryFind(k)
	if !found {
		t.Fatal("inserted key not found")
	}
	if got.ForwardExt != 'G' || got.BackwardExt != 'F' {
		t.Error("found k-mer lost its extensions")
	}
}

// TestFindByKeyOnly tests that a key-only probe (different extensions) finds
// the stored k-mer
func TestFindByKeyOnly(t *testing.T) {
	tbl := newTestTable(16)
	stored := mustKmer(t, "CTG", 'A', 'T')
	if res := tbl.TryInsert(stored); res != Inserted {
		t.Fatal("insert failed")
	}

	probe := mustKmer(t, "CTG", 'F', 'F')
	got, found := tbl.TryFind(probe)
	if !found {
		t.Fatal("key-only probe missed")
	}
	if got.BackwardExt != 'A' || got.ForwardExt != 'T' {
		t.Error("probe did not return the stored extensions")
	}
}

// TestFindMissing tests the miss path
func TestFindMissing(t *testing.T) {
	tbl := newTestTable(16)
	tbl.TryInsert(mustKmer(t, "ACT", 'F', 'G'))

	if _, found := tbl.TryFind(mustKmer(t, "GGG", 'F', 'F')); found {
		t.Error("found a key that was never inserted")
	}
}

// TestDuplicate tests that an equal key is reported as duplicate and still
// counts towards Applied
func TestDuplicate(t *testing.T) {
	tbl := newTestTable(16)
	a := mustKmer(t, "ACT", 'F', 'G')
	b := mustKmer(t, "ACT", 'F', 'G')

	if res := tbl.TryInsert(a); res != Inserted {
		t.Fatal("first insert failed")
	}
	if res := tbl.TryInsert(b); res != Duplicate {
		t.Fatalf("second insert = %s, expected duplicate", res)
	}

	if tbl.Size() != 1 {
		t.Errorf("Size() = %d, expected 1", tbl.Size())
	}
	if tbl.Applied() != 2 {
		t.Errorf("Applied() = %d, expected 2", tbl.Applied())
	}
}

// TestFull tests the overflow path
func TestFull(t *testing.T) {
	tbl := newTestTable(2)

	seqs := []string{"AAA", "CCC", "GGG"}
	results := make([]InsertResult, 0, len(seqs))
	for _, seq := range seqs {
		results = append(results, tbl.TryInsert(mustKmer(t, seq, 'F', 'F')))
	}

	if results[0] != Inserted || results[1] != Inserted {
		t.Fatalf("first two inserts = %s/%s, expected inserted", results[0], results[1])
	}
	if results[2] != Full {
		t.Errorf("third insert = %s, expected full", results[2])
	}
	if tbl.Applied() != 2 {
		t.Errorf("Applied() = %d, a full insert must not count", tbl.Applied())
	}
}

// TestProbeChains tests collision resolution with many keys in a small table
func TestProbeChains(t *testing.T) {
	const n = 48
	tbl := newTestTable(64)

	bases := []byte{'A', 'C', 'G', 'T'}
	var seqs []string
	for i := 0; i < n; i++ {
		seqs = append(seqs, fmt.Sprintf("%c%c%c",
			bases[i%4], bases[(i/4)%4], bases[(i/16)%4]))
	}

	for _, seq := range seqs {
		if res := tbl.TryInsert(mustKmer(t, seq, 'F', 'F')); res != Inserted {
			t.Fatalf("insert of %s = %s", seq, res)
		}
	}
	if tbl.Size() != n {
		t.Fatalf("Size() = %d, expected %d", tbl.Size(), n)
	}

	for _, seq := range seqs {
		if _, found := tbl.TryFind(mustKmer(t, seq, 'F', 'F')); !found {
			t.Errorf("key %s lost after %d inserts", seq, n)
		}
	}
}
