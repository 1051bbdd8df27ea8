package kmer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// The input file holds one k-mer per line: the base sequence, whitespace, and
// a two-character extension pair (backward then forward), e.g. "ACT FG".

// Size returns the k-mer length used by the file, read from its first record.
func Size(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open k-mer file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		return uint64(len(fields[0])), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read k-mer file: %v", err)
	}
	return 0, fmt.Errorf("k-mer file %s is empty", path)
}

// LineCount returns the number of k-mer records in the file.
func LineCount(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open k-mer file: %v", err)
	}
	defer f.Close()

	var count uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read k-mer file: %v", err)
	}
	return count, nil
}

// ReadStripe reads the contiguous stripe of records owned by the given rank.
// The file is split into nProc stripes of near-equal size; every process
// computes the same stripe boundaries from the total line count.
func ReadStripe(path string, nProc, rank int) ([]Kmer, error) {
	total, err := LineCount(path)
	if err != nil {
		return nil, err
	}

	start := total * uint64(rank) / uint64(nProc)
	end := total * uint64(rank+1) / uint64(nProc)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open k-mer file: %v", err)
	}
	defer f.Close()

	kmers := make([]Kmer, 0, end-start)
	var lineNo uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		idx := lineNo
		lineNo++
		if idx < start {
			continue
		}
		if idx >= end {
			break
		}

		k, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("record %d: %v", idx+1, err)
		}
		kmers = append(kmers, k)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read k-mer file: %v", err)
	}
	return kmers, nil
}

// parseLine parses one record of the form "SEQ BF".
func parseLine(line string) (Kmer, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 || len(fields[1]) != 2 {
		return Kmer{}, fmt.Errorf("malformed record %q (expected 'SEQ BF')", line)
	}
	return New(fields[0], fields[1][0], fields[1][1])
}
