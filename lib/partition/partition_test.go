package partition

import (
	"testing"
)

// TestOwnerRange tests that every hash maps to a valid rank
func TestOwnerRange(t *testing.T) {
	p := New(4, 128)

	hashes := []uint64{0, 1, 3, 4, 1<<63 - 1, ^uint64(0)}
	for _, h := range hashes {
		owner := p.Owner(h)
		if owner < 0 || owner >= 4 {
			t.Errorf("Owner(%d) = %d, out of range [0,4)", h, owner)
		}
	}
}

// TestHomeSlotRange tests that every hash maps to a valid slot
func TestHomeSlotRange(t *testing.T) {
	p := New(4, 128)

	hashes := []uint64{0, 1, 127, 128, 129, ^uint64(0)}
	for _, h := range hashes {
		slot := p.HomeSlot(h)
		if slot >= 128 {
			t.Errorf("HomeSlot(%d) = %d, out of range [0,128)", h, slot)
		}
	}
}

// TestDeterminism tests that independently constructed partitioners agree,
// which is what lets every process compute ownership on its own
func TestDeterminism(t *testing.T) {
	a := New(3, 64)
	b := New(3, 64)

	for h := uint64(0); h < 1000; h++ {
		if a.Owner(h) != b.Owner(h) {
			t.Fatalf("partitioners disagree on owner of hash %d", h)
		}
		if a.HomeSlot(h) != b.HomeSlot(h) {
			t.Fatalf("partitioners disagree on home slot of hash %d", h)
		}
	}
}

// TestHomeSlotSpread tests that consecutive hashes owned by the same rank do
// not collapse onto one slot
func TestHomeSlotSpread(t *testing.T) {
	p := New(2, 64)

	slots := make(map[uint64]bool)
	for h := uint64(0); h < 256; h += 2 { // all owned by rank 0
		slots[p.HomeSlot(h)] = true
	}
	if len(slots) < 32 {
		t.Errorf("only %d distinct home slots for 128 hashes", len(slots))
	}
}
