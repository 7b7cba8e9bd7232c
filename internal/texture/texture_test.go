package texture

import (
	"testing"

	"github.com/argent77/tile2ee-go/internal/tctypes"
)

func TestCalculateDataBlockSizeRaw(t *testing.T) {
	if got := CalculateDataBlockSize(64, 64, tctypes.EncodingUnknown); got != 64*64*4 {
		t.Fatalf("raw size = %d, want %d", got, 64*64*4)
	}
}

func TestCalculateDataBlockSizeBC1(t *testing.T) {
	if got := CalculateDataBlockSize(64, 64, tctypes.EncodingBC1); got != 64*64/2 {
		t.Fatalf("BC1 size = %d, want %d", got, 64*64/2)
	}
	// Non-aligned dimensions round up to the next multiple of 4.
	if got := CalculateDataBlockSize(5, 5, tctypes.EncodingBC1); got != 8*8/2 {
		t.Fatalf("BC1 size for 5x5 = %d, want %d", got, 8*8/2)
	}
}

func TestCalculateDataBlockSizeBC2BC3(t *testing.T) {
	if got := CalculateDataBlockSize(64, 64, tctypes.EncodingBC2); got != 64*64 {
		t.Fatalf("BC2 size = %d, want %d", got, 64*64)
	}
	if got := CalculateDataBlockSize(64, 64, tctypes.EncodingBC3); got != 64*64 {
		t.Fatalf("BC3 size = %d, want %d", got, 64*64)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	cases := map[int]bool{0: false, 1: true, 2: true, 3: false, 1024: true, 1023: false, -4: false}
	for v, want := range cases {
		if got := IsPowerOfTwo(v); got != want {
			t.Fatalf("IsPowerOfTwo(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestInitFillsEmptyPixel(t *testing.T) {
	tex := New(8, 8, tctypes.ARGB)
	want := [4]byte{255, 0, 0, 0}
	for i := 0; i < 8*8; i++ {
		got := tex.Pix()[i*4 : i*4+4]
		for j := 0; j < 4; j++ {
			if got[j] != want[j] {
				t.Fatalf("pixel %d = %v, want %v", i, got, want)
			}
		}
	}
}

func TestSetGetBlockRoundTrip(t *testing.T) {
	tex := New(16, 16, tctypes.ARGB)
	block := make([]byte, 4*4*4)
	for i := range block {
		block[i] = byte(i)
	}
	if err := tex.SetBlock(4, 4, 4, 4, block); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	got, err := tex.GetBlock(4, 4, 4, 4)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	for i := range block {
		if got[i] != block[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], block[i])
		}
	}
}

func TestGetBlockRejectsOutOfRange(t *testing.T) {
	tex := New(8, 8, tctypes.ARGB)
	if _, err := tex.GetBlock(4, 4, 8, 8); err == nil {
		t.Fatalf("expected error for out-of-range block")
	}
}

func TestResizePreservesTopLeft(t *testing.T) {
	tex := New(4, 4, tctypes.ARGB)
	block := make([]byte, 4*4*4)
	for i := range block {
		block[i] = byte(i + 1)
	}
	if err := tex.SetBlock(0, 0, 4, 4, block); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	tex.Resize(8, 8)
	if tex.Width() != 8 || tex.Height() != 8 {
		t.Fatalf("dimensions after resize = %dx%d, want 8x8", tex.Width(), tex.Height())
	}
	got, err := tex.GetBlock(0, 0, 4, 4)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	for i := range block {
		if got[i] != block[i] {
			t.Fatalf("byte %d = %d, want %d after resize", i, got[i], block[i])
		}
	}
}

func TestPvrzRoundTripBC1(t *testing.T) {
	tex := New(8, 8, tctypes.ARGB)
	tex.Encoding = tctypes.EncodingBC1
	block := make([]byte, 8*8*4)
	for i := 0; i < 8*8; i++ {
		block[i*4+0] = 255
		block[i*4+1] = 100
		block[i*4+2] = 150
		block[i*4+3] = 200
	}
	if err := tex.SetBlock(0, 0, 8, 8, block); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	data, err := tex.SavePvrz()
	if err != nil {
		t.Fatalf("SavePvrz: %v", err)
	}

	loaded, err := LoadPvrz(data, tctypes.ARGB)
	if err != nil {
		t.Fatalf("LoadPvrz: %v", err)
	}
	if loaded.Width() != 8 || loaded.Height() != 8 {
		t.Fatalf("loaded dims = %dx%d, want 8x8", loaded.Width(), loaded.Height())
	}
	if loaded.Encoding != tctypes.EncodingBC1 {
		t.Fatalf("loaded encoding = %v, want BC1", loaded.Encoding)
	}
}
