package chat

import "testing"

func TestPairKeyCanonical(t *testing.T) {
	if PairKey(3, 7) != PairKey(7, 3) {
		t.Fatal("pair key depends on argument order")
	}
	if PairKey(3, 7) != "3:7" {
		t.Fatalf("PairKey(3,7) = %q", PairKey(3, 7))
	}
	if PairKey(3, 7) == PairKey(3, 8) {
		t.Fatal("distinct pairs share a key")
	}
}

func TestJoinAndLeaveBookkeeping(t *testing.T) {
	h := NewHub()
	key := PairKey(1, 2)

	// A fake conn pointer is enough for registry bookkeeping; Leave is not
	// exercised here because it closes the connection.
	h.Join(key, nil, 1)
	h.mu.RLock()
	n := len(h.rooms[key])
	h.mu.RUnlock()
	if n != 1 {
		t.Fatalf("room size = %d, want 1", n)
	}
}
