package pipeline

import "testing"

func TestPoolProcessesAllItems(t *testing.T) {
	pool := New(4, 8, func(t *TileData) {
		t.Output = []byte{byte(t.Index)}
	})

	const n = 50
	go func() {
		for i := 0; i < n; i++ {
			pool.Submit(&TileData{Index: i})
		}
		pool.Close()
	}()

	seen := make(map[int]bool)
	for t := range pool.Results {
		seen[t.Index] = true
		if len(t.Output) != 1 || t.Output[0] != byte(t.Index) {
			panic("unexpected output")
		}
	}
	if len(seen) != n {
		t.Fatalf("processed %d of %d items", len(seen), n)
	}
}

func TestPoolAutodetectsThreadsWhenZero(t *testing.T) {
	pool := New(0, 0, func(t *TileData) {})
	pool.Submit(&TileData{Index: 0})
	pool.Close()
	<-pool.Results
}

func TestReassemblerReleasesInOrder(t *testing.T) {
	r := NewReassembler(0)
	r.Push(&TileData{Index: 2})
	r.Push(&TileData{Index: 0})

	if _, ok := r.Ready(); !ok {
		t.Fatalf("expected index 0 ready")
	}
	if _, ok := r.Ready(); ok {
		t.Fatalf("index 1 not yet pushed, should not be ready")
	}
	r.Push(&TileData{Index: 1})
	first, ok := r.Ready()
	if !ok || first.Index != 1 {
		t.Fatalf("expected index 1 ready, got %+v ok=%v", first, ok)
	}
	second, ok := r.Ready()
	if !ok || second.Index != 2 {
		t.Fatalf("expected index 2 ready, got %+v ok=%v", second, ok)
	}
	if r.Pending() != 0 {
		t.Fatalf("expected empty reassembler, pending=%d", r.Pending())
	}
}

func TestReassemblerHonorsStartIndex(t *testing.T) {
	r := NewReassembler(5)
	r.Push(&TileData{Index: 5})
	t5, ok := r.Ready()
	if !ok || t5.Index != 5 {
		t.Fatalf("expected index 5 ready first, got %+v ok=%v", t5, ok)
	}
}
