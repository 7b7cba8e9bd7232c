package quant

import "testing"

func solidARGB(w, h int, a, r, g, b byte) []byte {
	buf := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		buf[i*4+0] = a
		buf[i*4+1] = r
		buf[i*4+2] = g
		buf[i*4+3] = b
	}
	return buf
}

func TestQuantizeUniformOpaqueColor(t *testing.T) {
	pixels := solidARGB(8, 8, 255, 200, 100, 50)
	palette, indices := Quantize(pixels, 8, 8, 5)

	if len(palette) != 1024 {
		t.Fatalf("palette length = %d, want 1024", len(palette))
	}
	idx := indices[0]
	for _, v := range indices {
		if v != idx {
			t.Fatalf("expected single uniform index, got %d and %d", idx, v)
		}
	}
	r, g, b := palette[int(idx)*4+0], palette[int(idx)*4+1], palette[int(idx)*4+2]
	if r != 200 || g != 100 || b != 50 {
		t.Fatalf("palette[%d] = (%d,%d,%d), want (200,100,50)", idx, r, g, b)
	}
}

func TestQuantizeReservesSentinelWhenTransparentPresent(t *testing.T) {
	pixels := solidARGB(4, 4, 255, 10, 20, 30)
	// Make one pixel fully transparent.
	pixels[0] = 0
	pixels[1], pixels[2], pixels[3] = 1, 2, 3

	palette, indices := Quantize(pixels, 4, 4, 5)
	if indices[0] != SentinelIndex {
		t.Fatalf("expected transparent pixel to map to sentinel index, got %d", indices[0])
	}
	if palette[0] != 0 || palette[1] != 255 || palette[2] != 0 {
		t.Fatalf("expected sentinel palette entry (0,255,0), got (%d,%d,%d)", palette[0], palette[1], palette[2])
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] == SentinelIndex {
			t.Fatalf("opaque pixel %d incorrectly mapped to sentinel index", i)
		}
	}
}

func TestQuantizeReservesIndexZeroEvenWithoutTransparency(t *testing.T) {
	pixels := solidARGB(2, 2, 255, 5, 6, 7)
	palette, indices := Quantize(pixels, 2, 2, 5)
	// Index 0 is always the reserved sentinel, even when this tile has no
	// transparent pixel at all: every opaque index must be >= 1.
	if palette[0] != 0 || palette[1] != 255 || palette[2] != 0 {
		t.Fatalf("expected sentinel palette entry (0,255,0) at index 0, got (%d,%d,%d)", palette[0], palette[1], palette[2])
	}
	for i, v := range indices {
		if v == SentinelIndex {
			t.Fatalf("opaque pixel %d mapped to reserved sentinel index 0", i)
		}
	}
}

func TestQuantizeManyColorsStaysWithinPaletteBudget(t *testing.T) {
	w, h := 32, 32
	pixels := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		pixels[i*4+0] = 255
		pixels[i*4+1] = byte(i * 7)
		pixels[i*4+2] = byte(i * 13)
		pixels[i*4+3] = byte(i * 19)
	}

	palette, indices := Quantize(pixels, w, h, 5)
	seen := make(map[byte]bool)
	for _, v := range indices {
		seen[v] = true
	}
	if len(seen) > 256 {
		t.Fatalf("used %d distinct palette indices, want <= 256", len(seen))
	}
	if len(palette) != 1024 {
		t.Fatalf("palette length = %d, want 1024", len(palette))
	}
}
