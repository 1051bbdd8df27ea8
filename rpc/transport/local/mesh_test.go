package local

import (
	"sync"
	"testing"

	"github.com/ValentinKolb/dCTG/lib/kmer"
	"github.com/ValentinKolb/dCTG/rpc/common"
	"github.com/ValentinKolb/dCTG/rpc/transport"
)

// TestPostAndPoll tests basic delivery between two ranks
func TestPostAndPoll(t *testing.T) {
	transports, err := NewLocalMesh(2, 8)
	if err != nil {
		t.Fatal(err)
	}

	k, _ := kmer.New("ACT", 'F', 'G')
	if err := transports[0].Post(1, common.NewInsertMessage(0, k)); err != nil {
		t.Fatal(err)
	}

	msg, ok := transports[1].Poll()
	if !ok {
		t.Fatal("posted record not delivered")
	}
	if msg.MsgType != common.MsgTInsert || msg.SrcRank != 0 {
		t.Errorf("delivered %s from rank %d", msg.MsgType, msg.SrcRank)
	}
	if !msg.Kmer.Equal(k) {
		t.Error("delivered k-mer differs from the posted one")
	}

	if _, ok := transports[1].Poll(); ok {
		t.Error("Poll returned a second record")
	}
}

// TestLoopback tests that a rank can post to itself
func TestLoopback(t *testing.T) {
	transports, err := NewLocalMesh(1, 8)
	if err != nil {
		t.Fatal(err)
	}

	if err := transports[0].Post(0, common.NewDoneMessage(0)); err != nil {
		t.Fatal(err)
	}
	msg, ok := transports[0].Poll()
	if !ok || msg.MsgType != common.MsgTDone {
		t.Error("self post not delivered")
	}
}

// TestPerSenderFIFO tests that one sender's records arrive in post order
func TestPerSenderFIFO(t *testing.T) {
	transports, err := NewLocalMesh(2, 128)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		msg := common.NewLookupReqMessage(0, uint64(i), kmer.Kmer{})
		if err := transports[0].Post(1, msg); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < 100; i++ {
		msg, ok := transports[1].Poll()
		if !ok {
			t.Fatalf("record %d missing", i)
		}
		if msg.CursorID != uint64(i) {
			t.Fatalf("record %d arrived out of order (cursor %d)", i, msg.CursorID)
		}
	}
}

// TestBufferExhausted tests that a full send pool fails the post
func TestBufferExhausted(t *testing.T) {
	transports, err := NewLocalMesh(1, 4)
	if err != nil {
		t.Fatal(err)
	}

	var lastErr error
	for i := 0; i < 10; i++ {
		if err := transports[0].Post(0, common.NewDoneMessage(0)); err != nil {
			lastErr = err
			break
		}
	}
	if lastErr != transport.ErrBufferExhausted {
		t.Errorf("expected ErrBufferExhausted, got %v", lastErr)
	}
}

// TestPostUnknownRank tests the destination validation
func TestPostUnknownRank(t *testing.T) {
	transports, err := NewLocalMesh(2, 4)
	if err != nil {
		t.Fatal(err)
	}

	if err := transports[0].Post(5, common.NewDoneMessage(0)); err == nil {
		t.Error("expected an error for an unknown rank")
	}
}

// TestAllReduceSum tests the collective with concurrent ranks
func TestAllReduceSum(t *testing.T) {
	const nProc = 4
	transports, err := NewLocalMesh(nProc, 8)
	if err != nil {
		t.Fatal(err)
	}

	sums := make([]uint64, nProc)
	var wg sync.WaitGroup
	for r := 0; r < nProc; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			sum, err := transports[r].AllReduceSum(uint64(r + 1))
			if err != nil {
				t.Errorf("rank %d: %v", r, err)
				return
			}
			sums[r] = sum
		}(r)
	}
	wg.Wait()

	for r, sum := range sums {
		if sum != 10 { // 1+2+3+4
			t.Errorf("rank %d received sum %d, expected 10", r, sum)
		}
	}
}

// TestRepeatedCollectives tests that consecutive rounds do not interfere,
// which the insertion quiescence loop depends on
func TestRepeatedCollectives(t *testing.T) {
	const nProc = 3
	transports, err := NewLocalMesh(nProc, 8)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for r := 0; r < nProc; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			for round := 0; round < 20; round++ {
				sum, err := transports[r].AllReduceSum(uint64(round))
				if err != nil {
					t.Errorf("rank %d round %d: %v", r, round, err)
					return
				}
				if sum != uint64(round*nProc) {
					t.Errorf("rank %d round %d: sum %d, expected %d", r, round, sum, round*nProc)
					return
				}
				if err := transports[r].Barrier(); err != nil {
					t.Errorf("rank %d round %d barrier: %v", r, round, err)
					return
				}
			}
		}(r)
	}
	wg.Wait()
}
