package assembler

import (
	"os"
	"path/filepath"
	"testing"
)

// writeKmerFile writes a k-mer input file into a temp dir
func writeKmerFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kmers.dat")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestVerifyKmerLengthMismatch tests the fatal rejection of a file whose
// k-mer length differs from the run configuration
func TestVerifyKmerLengthMismatch(t *testing.T) {
	path := writeKmerFile(t, "ACTG FG\nCTGT AF\n")

	err := VerifyKmerLength(path, 3)
	if err == nil {
		t.Fatal("expected a length mismatch error")
	}
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Code != RetCKmerLengthMismatch {
		t.Errorf("expected KmerLengthMismatch, got %v", err)
	}
}

// TestVerifyKmerLengthMatch tests that a matching file passes
func TestVerifyKmerLengthMatch(t *testing.T) {
	path := writeKmerFile(t, "ACT FG\nCTG AT\n")

	if err := VerifyKmerLength(path, 3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestVerifyKmerLengthUnreadableFile tests that a missing file surfaces the
// underlying error rather than a mismatch
func TestVerifyKmerLengthUnreadableFile(t *testing.T) {
	err := VerifyKmerLength(filepath.Join(t.TempDir(), "missing.dat"), 3)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if asmErr, ok := err.(*Error); ok && asmErr.Code == RetCKmerLengthMismatch {
		t.Error("a missing file must not be reported as a length mismatch")
	}
}
