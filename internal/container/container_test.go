package container

import (
	"testing"

	"github.com/argent77/tile2ee-go/internal/binio"
)

func TestTisHeaderRoundTripV1(t *testing.T) {
	w := binio.NewWriter(0)
	WriteTisHeader(w, 12, true)
	r := binio.NewReader(w.Bytes())
	hdr, err := ParseTisHeader(r, true, false)
	if err != nil {
		t.Fatalf("ParseTisHeader: %v", err)
	}
	if hdr.NumTiles != 12 {
		t.Fatalf("NumTiles = %d, want 12", hdr.NumTiles)
	}
}

func TestTisHeaderRoundTripV2WritesV1Version(t *testing.T) {
	w := binio.NewWriter(0)
	WriteTisHeader(w, 3, false)
	raw := w.Bytes()
	if string(raw[4:8]) != "V1  " {
		t.Fatalf("version field = %q, want %q", raw[4:8], "V1  ")
	}
	r := binio.NewReader(raw)
	hdr, err := ParseTisHeader(r, false, false)
	if err != nil {
		t.Fatalf("ParseTisHeader: %v", err)
	}
	if hdr.NumTiles != 3 {
		t.Fatalf("NumTiles = %d, want 3", hdr.NumTiles)
	}
}

func TestTisHeaderRejectsWrongBodyKind(t *testing.T) {
	w := binio.NewWriter(0)
	WriteTisHeader(w, 1, true)
	r := binio.NewReader(w.Bytes())
	if _, err := ParseTisHeader(r, false, false); err == nil {
		t.Fatalf("expected error reading V1 body as V2")
	}
}

func TestHeaderlessTisV1(t *testing.T) {
	data := make([]byte, tisTileSizeV1*3)
	r := binio.NewReader(data)
	hdr, err := ParseTisHeader(r, true, true)
	if err != nil {
		t.Fatalf("ParseTisHeader: %v", err)
	}
	if !hdr.Headerless || hdr.NumTiles != 3 {
		t.Fatalf("hdr = %+v, want headerless 3 tiles", hdr)
	}
}

func TestHeaderlessTisRejectsNonTisSignature(t *testing.T) {
	data := make([]byte, tisTileSizeV1)
	r := binio.NewReader(data)
	if _, err := ParseTisHeader(r, true, false); err == nil {
		t.Fatalf("expected error without assumeTis fallback")
	}
}

func TestTisV1TileRoundTrip(t *testing.T) {
	pal := make([]byte, 1024)
	idx := make([]byte, 4096)
	for i := range pal {
		pal[i] = byte(i)
	}
	for i := range idx {
		idx[i] = byte(i * 3)
	}
	w := binio.NewWriter(0)
	WriteTisV1Tile(w, pal, idx)
	r := binio.NewReader(w.Bytes())
	gotPal, gotIdx, err := ReadTisV1Tile(r)
	if err != nil {
		t.Fatalf("ReadTisV1Tile: %v", err)
	}
	for i := range pal {
		if gotPal[i] != pal[i] {
			t.Fatalf("palette byte %d mismatch", i)
		}
	}
	for i := range idx {
		if gotIdx[i] != idx[i] {
			t.Fatalf("index byte %d mismatch", i)
		}
	}
}

func TestTisV2TileRoundTrip(t *testing.T) {
	w := binio.NewWriter(0)
	want := TisV2Tile{Page: 7, X: 320, Y: 64}
	WriteTisV2Tile(w, want)
	r := binio.NewReader(w.Bytes())
	got, err := ReadTisV2Tile(r)
	if err != nil {
		t.Fatalf("ReadTisV2Tile: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTisV2TileNegativePageSentinel(t *testing.T) {
	w := binio.NewWriter(0)
	WriteTisV2Tile(w, TisV2Tile{Page: -1})
	r := binio.NewReader(w.Bytes())
	got, err := ReadTisV2Tile(r)
	if err != nil {
		t.Fatalf("ReadTisV2Tile: %v", err)
	}
	if got.Page != -1 {
		t.Fatalf("Page = %d, want -1", got.Page)
	}
}

func TestMosV1PlainRoundTrip(t *testing.T) {
	layout := PlanMosV1Layout(100, 100)
	buf := NewMosV1Buffer(layout)

	parsed, err := ParseMosV1(buf)
	if err != nil {
		t.Fatalf("ParseMosV1: %v", err)
	}
	if parsed.Width != 100 || parsed.Height != 100 {
		t.Fatalf("dims = %dx%d, want 100x100", parsed.Width, parsed.Height)
	}
	if parsed.Cols != 2 || parsed.Rows != 2 {
		t.Fatalf("grid = %dx%d, want 2x2", parsed.Cols, parsed.Rows)
	}
}

func TestMosV1MoscRoundTrip(t *testing.T) {
	layout := PlanMosV1Layout(64, 64)
	buf := NewMosV1Buffer(layout)
	wrapped := WriteMosV1(buf, true)
	if string(wrapped[0:4]) != "MOSC" {
		t.Fatalf("signature = %q, want MOSC", wrapped[0:4])
	}

	parsed, err := ParseMosV1(wrapped)
	if err != nil {
		t.Fatalf("ParseMosV1: %v", err)
	}
	if parsed.Width != 64 || parsed.Height != 64 {
		t.Fatalf("dims = %dx%d, want 64x64", parsed.Width, parsed.Height)
	}
}

func TestMosV1UnwrappedPassesThrough(t *testing.T) {
	layout := PlanMosV1Layout(64, 64)
	buf := NewMosV1Buffer(layout)
	if got := WriteMosV1(buf, false); len(got) != len(buf) {
		t.Fatalf("unwrapped length changed: got %d, want %d", len(got), len(buf))
	}
}

func TestPlanMosV1LayoutSingleTile(t *testing.T) {
	layout := PlanMosV1Layout(40, 40)
	if layout.Cols != 1 || layout.Rows != 1 {
		t.Fatalf("grid = %dx%d, want 1x1", layout.Cols, layout.Rows)
	}
	wantSize := layout.TileDataOfs + 40*40
	if layout.TotalSize != wantSize {
		t.Fatalf("TotalSize = %d, want %d", layout.TotalSize, wantSize)
	}
}

func TestBlockDimsClipsEdges(t *testing.T) {
	// 100x100 image tiled into a 2x2 grid of 64x64 tiles: last col/row clip to 36.
	w, h := BlockDims(1, 1, 2, 2, 100, 100)
	if w != 36 || h != 36 {
		t.Fatalf("edge block dims = %dx%d, want 36x36", w, h)
	}
	w, h = BlockDims(0, 0, 2, 2, 100, 100)
	if w != 64 || h != 64 {
		t.Fatalf("interior block dims = %dx%d, want 64x64", w, h)
	}
}

func TestMosV2HeaderRoundTrip(t *testing.T) {
	w := binio.NewWriter(0)
	want := MosV2Header{Width: 800, Height: 600, NumBlocks: 4, OfsBlocks: 24}
	WriteMosV2Header(w, want)
	r := binio.NewReader(w.Bytes())
	got, err := ParseMosV2Header(r)
	if err != nil {
		t.Fatalf("ParseMosV2Header: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMosV2BlockRoundTrip(t *testing.T) {
	w := binio.NewWriter(0)
	want := MosV2Block{Page: 2, SrcX: 10, SrcY: 20, Width: 64, Height: 64, DstX: 128, DstY: 192}
	WriteMosV2Block(w, want)
	r := binio.NewReader(w.Bytes())
	got, err := ReadMosV2Block(r)
	if err != nil {
		t.Fatalf("ReadMosV2Block: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
