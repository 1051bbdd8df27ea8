package assembler

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ValentinKolb/dCTG/lib/kmer"
)

// ExtractContig materializes the contig string of one finished chain: the
// first k-mer verbatim, then one base per following step. Each k-mer after
// the first overlaps its predecessor in all but its last base, and that last
// base is the predecessor's forward extension.
func ExtractContig(chain []kmer.Kmer) string {
	if len(chain) == 0 {
		return ""
	}

	buf := make([]byte, 0, int(chain[0].Len)+len(chain)-1)
	buf = append(buf, chain[0].String()...)
	for _, k := range chain {
		if !k.IsTerminal() {
			buf = append(buf, k.ForwardExt)
		}
	}
	return string(buf)
}

// WriteContigs writes one contig string per line.
func WriteContigs(w io.Writer, contigs [][]kmer.Kmer) error {
	bw := bufio.NewWriter(w)
	for _, chain := range contigs {
		if _, err := bw.WriteString(ExtractContig(chain)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// TestFileName returns the per-rank output file name used in test mode.
func TestFileName(rank int) string {
	return fmt.Sprintf("test_%d.dat", rank)
}

// WriteTestFile writes the rank's contigs to test_<rank>.dat in the current
// working directory.
func WriteTestFile(rank int, contigs [][]kmer.Kmer) error {
	f, err := os.Create(TestFileName(rank))
	if err != nil {
		return fmt.Errorf("failed to create test output: %v", err)
	}
	defer f.Close()

	return WriteContigs(f, contigs)
}
