package assembler

import (
	"fmt"

	"github.com/ValentinKolb/dCTG/lib/kmer"
)

// VerifyKmerLength rejects an input file whose k-mer length differs from the
// configured length. It must run before any table or buffer allocation; a
// mismatch means the file belongs to a different run configuration.
func VerifyKmerLength(path string, expected uint64) error {
	ks, err := kmer.Size(path)
	if err != nil {
		return err
	}
	if ks != expected {
		return NewError(RetCKmerLengthMismatch,
			fmt.Sprintf("%s contains %d-mers, while this run is configured for %d-mers", path, ks, expected))
	}
	return nil
}
