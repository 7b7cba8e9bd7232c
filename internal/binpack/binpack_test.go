package binpack

import "testing"

func TestInsertNoOverlap(t *testing.T) {
	b := New(128, 128)
	var placed []Rect
	for i := 0; i < 10; i++ {
		r := b.Insert(16, 16, BestAreaFit)
		if r.Width == 0 {
			t.Fatalf("insert %d: failed to place", i)
		}
		placed = append(placed, r)
	}

	for i := range placed {
		for j := range placed {
			if i == j {
				continue
			}
			if overlaps(placed[i], placed[j]) {
				t.Fatalf("rects %d and %d overlap: %+v %+v", i, j, placed[i], placed[j])
			}
		}
	}
}

func TestInsertWithinBin(t *testing.T) {
	b := New(64, 64)
	for i := 0; i < 4; i++ {
		r := b.Insert(32, 32, BottomLeftRule)
		if r.X < 0 || r.Y < 0 || r.X+r.Width > b.Width || r.Y+r.Height > b.Height {
			t.Fatalf("rect %+v escapes bin %dx%d", r, b.Width, b.Height)
		}
	}
}

func TestInsertFailsWhenFull(t *testing.T) {
	b := New(32, 32)
	r1 := b.Insert(32, 32, BestShortSideFit)
	if r1.Width != 32 {
		t.Fatalf("expected full-bin placement, got %+v", r1)
	}
	r2 := b.Insert(1, 1, BestShortSideFit)
	if r2.Width != 0 || r2.Height != 0 {
		t.Fatalf("expected failed placement (zero area), got %+v", r2)
	}
}

func TestFreeListNeverContainsRedundantRect(t *testing.T) {
	b := New(100, 100)
	b.Insert(10, 90, BestAreaFit)
	b.Insert(90, 10, BestAreaFit)
	b.Insert(20, 20, BestAreaFit)

	for i := range b.free {
		for j := range b.free {
			if i == j {
				continue
			}
			if isContainedIn(b.free[i], b.free[j]) {
				t.Fatalf("free rect %d (%+v) is contained in free rect %d (%+v)", i, b.free[i], j, b.free[j])
			}
		}
	}
}

func TestTwoTileShrinkBottomLeft(t *testing.T) {
	b := New(1024, 1024)
	r1 := b.Insert(64, 64, BottomLeftRule)
	r2 := b.Insert(64, 64, BottomLeftRule)

	if r1.X != 0 || r1.Y != 0 {
		t.Fatalf("expected first tile at (0,0), got (%d,%d)", r1.X, r1.Y)
	}
	if r2.X != 64 || r2.Y != 0 {
		t.Fatalf("expected second tile at (64,0), got (%d,%d)", r2.X, r2.Y)
	}

	b.ShrinkToFit(true)
	if b.Width != 128 || b.Height != 64 {
		t.Fatalf("expected shrunk bin 128x64, got %dx%d", b.Width, b.Height)
	}
}

func TestShrinkToFitTranslatesWhenOffOrigin(t *testing.T) {
	b := New(256, 256)
	// Insert always fills from the origin, so place a rect away from the
	// origin directly to make the bounding box start at (128,64).
	b.used = append(b.used, Rect{128, 64, 64, 64})

	b.ShrinkToFit(false)
	for _, r := range b.used {
		if r.X < 0 || r.Y < 0 {
			t.Fatalf("used rect has negative coordinate after shrink: %+v", r)
		}
	}
	if b.Width != 64 || b.Height != 64 {
		t.Fatalf("expected shrunk bin 64x64, got %dx%d", b.Width, b.Height)
	}
	if got := b.used[0]; got != (Rect{0, 0, 64, 64}) {
		t.Fatalf("expected rect translated to origin, got %+v", got)
	}
	if len(b.free) != 0 {
		t.Fatalf("expected free list cleared after translation, got %+v", b.free)
	}
}

func TestOccupancy(t *testing.T) {
	b := New(100, 100)
	b.Insert(50, 50, BestAreaFit)
	got := b.Occupancy()
	want := 2500.0 / 10000.0
	if got != want {
		t.Fatalf("occupancy = %v, want %v", got, want)
	}
}

func TestInsertBatchOffline(t *testing.T) {
	b := New(128, 128)
	sizes := []RectSize{{64, 64}, {64, 64}, {32, 32}, {32, 32}}
	placed := b.InsertBatch(sizes, BestShortSideFit)
	if len(placed) != len(sizes) {
		t.Fatalf("placed %d of %d rects", len(placed), len(sizes))
	}
	for i := range placed {
		for j := range placed {
			if i != j && overlaps(placed[i], placed[j]) {
				t.Fatalf("batch placement overlap: %+v %+v", placed[i], placed[j])
			}
		}
	}
}

func overlaps(a, b Rect) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}
