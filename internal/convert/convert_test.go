package convert

import (
	"testing"

	"github.com/argent77/tile2ee-go/internal/tctypes"
)

func solidPalette(r, g, b byte) []byte {
	pal := make([]byte, tctypes.PaletteSize)
	for i := 0; i < 256; i++ {
		pal[i*4+0] = r
		pal[i*4+1] = g
		pal[i*4+2] = b
	}
	return pal
}

func TestDecodePaletteTileOpaqueColor(t *testing.T) {
	pal := solidPalette(10, 20, 30)
	indices := make([]byte, 4)
	pixels, allBlack := decodePaletteTile(pal, indices, 2, 2)
	if allBlack {
		t.Fatalf("expected allBlack = false for non-black color")
	}
	for i := 0; i < 4; i++ {
		o := i * 4
		if pixels[o+0] != 255 || pixels[o+1] != 10 || pixels[o+2] != 20 || pixels[o+3] != 30 {
			t.Fatalf("pixel %d = %v, want opaque (10,20,30)", i, pixels[o:o+4])
		}
	}
}

func TestDecodePaletteTileSentinelIsTransparent(t *testing.T) {
	pal := solidPalette(0, 255, 0)
	indices := make([]byte, 4)
	pixels, allBlack := decodePaletteTile(pal, indices, 2, 2)
	if !allBlack {
		t.Fatalf("expected allBlack = true when every pixel decodes to the sentinel")
	}
	for i := 0; i < 4; i++ {
		o := i * 4
		if pixels[o+0] != 0 || pixels[o+1] != 0 || pixels[o+2] != 0 || pixels[o+3] != 0 {
			t.Fatalf("pixel %d = %v, want fully zero (transparent sentinel)", i, pixels[o:o+4])
		}
	}
}

func TestDecodePaletteTileBlackIsNotSentinel(t *testing.T) {
	pal := solidPalette(0, 0, 0)
	indices := make([]byte, 4)
	pixels, allBlack := decodePaletteTile(pal, indices, 2, 2)
	if !allBlack {
		t.Fatalf("expected allBlack = true for pure black (0,0,0) even though it isn't the sentinel")
	}
	for i := 0; i < 4; i++ {
		o := i * 4
		if pixels[o+0] != 255 {
			t.Fatalf("pixel %d alpha = %d, want 255 (opaque black, not the transparent sentinel)", i, pixels[o+0])
		}
	}
}

func TestDecodePaletteTileMixedIsNotAllBlack(t *testing.T) {
	pal := make([]byte, tctypes.PaletteSize)
	// index 0 -> black, index 1 -> red
	pal[1*4+0] = 200
	indices := []byte{0, 1, 0, 1}
	_, allBlack := decodePaletteTile(pal, indices, 2, 2)
	if allBlack {
		t.Fatalf("expected allBlack = false when any pixel has nonzero RGB")
	}
}

func TestPlaceTileReusesExistingPageBeforeAllocating(t *testing.T) {
	var pages []*atlasPage
	newPageCalls := 0
	newPage := func() (*atlasPage, error) {
		newPageCalls++
		return newAtlasPage(newPageCalls-1, tctypes.ARGB, 9), nil
	}
	pixels := make([]byte, tctypes.TileDim*tctypes.TileDim*4)

	idx1, _, err := placeTile(&pages, 0, pixels, tctypes.TileDim, tctypes.TileDim, 0, newPage)
	if err != nil {
		t.Fatalf("placeTile: %v", err)
	}
	idx2, _, err := placeTile(&pages, 0, pixels, tctypes.TileDim, tctypes.TileDim, 0, newPage)
	if err != nil {
		t.Fatalf("placeTile: %v", err)
	}
	if newPageCalls != 1 {
		t.Fatalf("newPage called %d times, want 1 (page has room for both 64x64 tiles)", newPageCalls)
	}
	if idx1 != 0 || idx2 != 0 {
		t.Fatalf("idx1=%d idx2=%d, want both on page 0", idx1, idx2)
	}
}

func TestPlaceTileAllocatesNewPageWhenFull(t *testing.T) {
	var pages []*atlasPage
	newPageCalls := 0
	newPage := func() (*atlasPage, error) {
		newPageCalls++
		return newAtlasPage(newPageCalls-1, tctypes.ARGB, 9), nil
	}
	pixels := make([]byte, tctypes.TileDim*tctypes.TileDim*4)

	tilesPerPage := (tctypes.PageDim / tctypes.TileDim) * (tctypes.PageDim / tctypes.TileDim)
	for i := 0; i < tilesPerPage; i++ {
		if _, _, err := placeTile(&pages, 0, pixels, tctypes.TileDim, tctypes.TileDim, 0, newPage); err != nil {
			t.Fatalf("placeTile #%d: %v", i, err)
		}
	}
	if newPageCalls != 1 {
		t.Fatalf("newPage called %d times after filling one page, want 1", newPageCalls)
	}

	idx, _, err := placeTile(&pages, 0, pixels, tctypes.TileDim, tctypes.TileDim, 0, newPage)
	if err != nil {
		t.Fatalf("placeTile overflow: %v", err)
	}
	if newPageCalls != 2 {
		t.Fatalf("newPage called %d times, want 2 (first page now full)", newPageCalls)
	}
	if idx != 1 {
		t.Fatalf("idx = %d, want 1 (second page)", idx)
	}
}
