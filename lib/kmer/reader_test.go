package kmer

import (
	"os"
	"path/filepath"
	"testing"
)

// writeKmerFile writes a k-mer file with the given records into a temp dir
func writeKmerFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kmers.dat")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestSize tests reading the k-mer length from the first record
func TestSize(t *testing.T) {
	path := writeKmerFile(t, "ACT FG\nCTG AT\n")

	size, err := Size(path)
	if err != nil {
		t.Fatal(err)
	}
	if size != 3 {
		t.Errorf("Size() = %d, expected 3", size)
	}
}

// TestSizeDetectsMismatch tests that a 4-mer file reports length 4, which the
// startup check rejects when the run is configured for 3-mers
func TestSizeDetectsMismatch(t *testing.T) {
	path := writeKmerFile(t, "ACTG FG\n")

	size, err := Size(path)
	if err != nil {
		t.Fatal(err)
	}
	if size == 3 {
		t.Error("a 4-mer file must not report length 3")
	}
}

// TestSizeEmptyFile tests the empty file error
func TestSizeEmptyFile(t *testing.T) {
	path := writeKmerFile(t, "")
	if _, err := Size(path); err == nil {
		t.Error("expected an error for an empty file")
	}
}

// TestLineCount tests the record count, ignoring blank lines
func TestLineCount(t *testing.T) {
	path := writeKmerFile(t, "ACT FG\nCTG AT\n\nTGT CF\n")

	count, err := LineCount(path)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("LineCount() = %d, expected 3", count)
	}
}

// TestReadStripeCoversFile tests that the stripes of all ranks partition the
// file without overlap
func TestReadStripeCoversFile(t *testing.T) {
	path := writeKmerFile(t, "ACT FG\nCTG AT\nTGT CF\nGGA FT\nGAT GF\n")

	for _, nProc := range []int{1, 2, 3, 5, 8} {
		var total int
		seen := make(map[string]int)
		for rank := 0; rank < nProc; rank++ {
			stripe, err := ReadStripe(path, nProc, rank)
			if err != nil {
				t.Fatalf("nProc=%d rank=%d: %v", nProc, rank, err)
			}
			total += len(stripe)
			for _, k := range stripe {
				seen[k.String()]++
			}
		}

		if total != 5 {
			t.Errorf("nProc=%d: stripes cover %d records, expected 5", nProc, total)
		}
		for seq, n := range seen {
			if n != 1 {
				t.Errorf("nProc=%d: record %s appears in %d stripes", nProc, seq, n)
			}
		}
	}
}

// TestReadStripeParsesExtensions tests that both extension characters reach
// the k-mer
func TestReadStripeParsesExtensions(t *testing.T) {
	path := writeKmerFile(t, "ACT FG\n")

	stripe, err := ReadStripe(path, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(stripe) != 1 {
		t.Fatalf("expected one record, got %d", len(stripe))
	}

	k := stripe[0]
	if k.BackwardExt != 'F' || k.ForwardExt != 'G' {
		t.Errorf("extensions are %q/%q, expected F/G", k.BackwardExt, k.ForwardExt)
	}
}

// TestReadStripeRejectsMalformedRecords tests the record validation
func TestReadStripeRejectsMalformedRecords(t *testing.T) {
	cases := []string{
		"ACT\n",       // missing extensions
		"ACT F\n",     // only one extension character
		"ACT FG G\n",  // too many fields
		"AXT FG\n",    // invalid base
		"ACT FGT\n",   // three extension characters
	}

	for _, lines := range cases {
		path := writeKmerFile(t, lines)
		if _, err := ReadStripe(path, 1, 0); err == nil {
			t.Errorf("expected an error for %q", lines)
		}
	}
}
