package container

import (
	"encoding/binary"
	"fmt"

	"github.com/argent77/tile2ee-go/internal/binio"
	"github.com/argent77/tile2ee-go/internal/tctypes"
	"github.com/argent77/tile2ee-go/internal/zlibio"
)

// MosV1 holds a fully parsed MOS V1 payload (after MOSC decompression, if
// any): dimensions plus direct slices into the owning byte buffer.
type MosV1 struct {
	Width, Height int
	Cols, Rows    int
	// Raw is the complete MOS V1 byte buffer (header, palettes, tile
	// offsets, and tile index data), suitable for re-wrapping as MOSC.
	Raw []byte
	// PalOfs is the byte offset of the first palette table entry within Raw.
	PalOfs int
}

// ParseMosV1 accepts either a raw "MOS "-signed V1 buffer or a "MOSC"
// compressed wrapper and returns the decompressed MOS V1 payload.
// Grounded on Graphics.cpp's readMosV1.
func ParseMosV1(data []byte) (MosV1, error) {
	r := binio.NewReader(data)
	sig, err := r.Bytes(4)
	if err != nil {
		return MosV1{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	var raw []byte
	switch {
	case equal4(sig, sigMOSC):
		ver, err := r.Bytes(4)
		if err != nil {
			return MosV1{}, err
		}
		if !equal4(ver, verV1) {
			return MosV1{}, fmt.Errorf("%w: invalid MOSC version", ErrUnsupportedVersion)
		}
		mosSize, err := r.U32()
		if err != nil {
			return MosV1{}, err
		}
		if mosSize < headerSize24 {
			return MosV1{}, fmt.Errorf("%w: MOS size too small", ErrBadDimension)
		}
		compressed, err := r.Bytes(r.Remaining())
		if err != nil {
			return MosV1{}, err
		}
		raw, err = zlibio.Inflate(compressed, int(mosSize))
		if err != nil {
			return MosV1{}, fmt.Errorf("container: decompressing MOSC: %w", err)
		}
	case equal4(sig, sigMOS):
		raw = data
	default:
		return MosV1{}, fmt.Errorf("%w: invalid MOS signature", ErrBadSignature)
	}

	return parseMosV1Body(raw)
}

func parseMosV1Body(raw []byte) (MosV1, error) {
	if len(raw) < headerSize24 {
		return MosV1{}, fmt.Errorf("%w: MOS size too small", ErrBadDimension)
	}

	r := binio.NewReader(raw)
	sig, _ := r.Bytes(4)
	if !equal4(sig, sigMOS) {
		return MosV1{}, fmt.Errorf("%w: invalid MOS signature", ErrBadSignature)
	}
	ver, _ := r.Bytes(4)
	if !equal4(ver, verV1) {
		return MosV1{}, fmt.Errorf("%w: unsupported MOS version", ErrUnsupportedVersion)
	}
	width, err := r.U16()
	if err != nil || width == 0 {
		return MosV1{}, fmt.Errorf("%w: invalid MOS width", ErrBadDimension)
	}
	height, err := r.U16()
	if err != nil || height == 0 {
		return MosV1{}, fmt.Errorf("%w: invalid MOS height", ErrBadDimension)
	}
	cols, err := r.U16()
	if err != nil || cols == 0 {
		return MosV1{}, fmt.Errorf("%w: invalid number of tiles", ErrBadDimension)
	}
	rows, err := r.U16()
	if err != nil || rows == 0 {
		return MosV1{}, fmt.Errorf("%w: invalid number of tiles", ErrBadDimension)
	}
	dim, err := r.U32()
	if err != nil || dim != tileDim {
		return MosV1{}, fmt.Errorf("%w: invalid tile dimensions", ErrBadDimension)
	}
	palOfs, err := r.U32()
	if err != nil || palOfs < headerSize24 {
		return MosV1{}, fmt.Errorf("%w: MOS header too small", ErrBadDimension)
	}

	need := int(palOfs) + int(cols)*int(rows)*tctypes.PaletteSize + int(cols)*int(rows)*4 + int(width)*int(height)
	if len(raw) < need {
		return MosV1{}, fmt.Errorf("%w: incomplete or corrupted MOS file", ErrBadDimension)
	}

	return MosV1{
		Width: int(width), Height: int(height),
		Cols: int(cols), Rows: int(rows),
		Raw: raw, PalOfs: int(palOfs),
	}, nil
}

// MosV1Layout precomputes the byte offsets of a MOS V1 body so per-block
// palette/tile writes can proceed in any order.
type MosV1Layout struct {
	Width, Height   int
	Cols, Rows      int
	PalOfs          int
	TileOfsTableOfs int
	TileDataOfs     int
	TotalSize       int
}

// PlanMosV1Layout computes byte offsets for a new MOS V1 buffer of the
// given dimensions, mirroring mosV2ToMosV1's up-front size computation so
// per-block writes can run out of order.
func PlanMosV1Layout(width, height int) MosV1Layout {
	cols := (width + 63) / 64
	rows := (height + 63) / 64
	numTiles := cols * rows
	palOfs := headerSize24
	tileOfsTableOfs := palOfs + numTiles*tctypes.PaletteSize
	tileDataOfs := tileOfsTableOfs + numTiles*4

	lastColWidth := width % 64
	if lastColWidth == 0 {
		lastColWidth = tileDim
	}
	lastRowHeight := height % 64
	if lastRowHeight == 0 {
		lastRowHeight = tileDim
	}

	dataSize := 0
	if rows > 1 && cols > 1 {
		dataSize += (rows - 1) * (cols - 1) * tctypes.MaxTileSize8
	}
	if rows > 1 {
		dataSize += (rows - 1) * tileDim * lastColWidth
	}
	if cols > 1 {
		dataSize += lastRowHeight * (cols - 1) * tileDim
	}
	dataSize += lastRowHeight * lastColWidth

	return MosV1Layout{
		Width: width, Height: height, Cols: cols, Rows: rows,
		PalOfs: palOfs, TileOfsTableOfs: tileOfsTableOfs, TileDataOfs: tileDataOfs,
		TotalSize: tileDataOfs + dataSize,
	}
}

// NewMosV1Buffer allocates and header-initializes a MOS V1 buffer per
// layout, writing the per-block tile-offset table (offsets relative to
// TileDataOfs) up front.
func NewMosV1Buffer(layout MosV1Layout) []byte {
	buf := make([]byte, layout.TotalSize)
	w := binio.NewWriter(0)
	w.WriteBytes(sigMOS[:])
	w.WriteBytes(verV1[:])
	w.WriteU16(uint16(layout.Width))
	w.WriteU16(uint16(layout.Height))
	w.WriteU16(uint16(layout.Cols))
	w.WriteU16(uint16(layout.Rows))
	w.WriteU32(tileDim)
	w.WriteU32(uint32(layout.PalOfs))
	copy(buf[:headerSize24], w.Bytes())

	lastColWidth := layout.Width % 64
	if lastColWidth == 0 {
		lastColWidth = tileDim
	}
	lastRowHeight := layout.Height % 64
	if lastRowHeight == 0 {
		lastRowHeight = tileDim
	}

	curTileOfs := uint32(0)
	ofs := layout.TileOfsTableOfs
	for y := 0; y < layout.Rows; y++ {
		rowHeight := tileDim
		if y == layout.Rows-1 {
			rowHeight = lastRowHeight
		}
		for x := 0; x < layout.Cols; x++ {
			colWidth := tileDim
			if x == layout.Cols-1 {
				colWidth = lastColWidth
			}
			binary.LittleEndian.PutUint32(buf[ofs:ofs+4], curTileOfs)
			ofs += 4
			curTileOfs += uint32(rowHeight * colWidth)
		}
	}
	return buf
}

// BlockDims returns the actual (possibly edge-clipped) pixel dimensions of
// block (col,row) in a cols x rows grid covering a width x height image.
func BlockDims(col, row, cols, rows, width, height int) (w, h int) {
	w = tileDim
	if col == cols-1 {
		if r := width % 64; r != 0 {
			w = r
		}
	}
	h = tileDim
	if row == rows-1 {
		if r := height % 64; r != 0 {
			h = r
		}
	}
	return w, h
}

// WriteMosV1 wraps a complete MOS V1 buffer as MOSC when mosc is true
// (zlib-compressed, §6), or returns it unchanged otherwise.
func WriteMosV1(mos []byte, mosc bool) []byte {
	if !mosc {
		return mos
	}
	compressed := zlibio.Deflate(mos)
	out := make([]byte, 12+len(compressed))
	copy(out[0:4], sigMOSC[:])
	copy(out[4:8], verV1[:])
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(mos)))
	copy(out[12:], compressed)
	return out
}

// MosV2Header is the 24-byte MOS V2 header (§6).
type MosV2Header struct {
	Width, Height, NumBlocks, OfsBlocks int
}

// ParseMosV2Header reads the "MOS "/"V2  " header.
func ParseMosV2Header(r *binio.Reader) (MosV2Header, error) {
	sig, err := r.Bytes(4)
	if err != nil || !equal4(sig, sigMOS) {
		return MosV2Header{}, fmt.Errorf("%w: invalid MOS signature", ErrBadSignature)
	}
	ver, err := r.Bytes(4)
	if err != nil || !equal4(ver, verV2) {
		return MosV2Header{}, fmt.Errorf("%w: invalid MOS version", ErrUnsupportedVersion)
	}
	width, err := r.U32()
	if err != nil || width == 0 {
		return MosV2Header{}, fmt.Errorf("%w: invalid MOS width", ErrBadDimension)
	}
	height, err := r.U32()
	if err != nil || height == 0 {
		return MosV2Header{}, fmt.Errorf("%w: invalid MOS height", ErrBadDimension)
	}
	numBlocks, err := r.U32()
	if err != nil || numBlocks == 0 {
		return MosV2Header{}, fmt.Errorf("%w: invalid block count", ErrBadDimension)
	}
	ofsBlocks, err := r.U32()
	if err != nil || ofsBlocks < headerSize24 {
		return MosV2Header{}, fmt.Errorf("%w: invalid block table offset", ErrBadDimension)
	}
	return MosV2Header{
		Width: int(width), Height: int(height),
		NumBlocks: int(numBlocks), OfsBlocks: int(ofsBlocks),
	}, nil
}

// WriteMosV2Header writes the 24-byte MOS V2 header.
func WriteMosV2Header(w *binio.Writer, h MosV2Header) {
	w.WriteBytes(sigMOS[:])
	w.WriteBytes(verV2[:])
	w.WriteU32(uint32(h.Width))
	w.WriteU32(uint32(h.Height))
	w.WriteU32(uint32(h.NumBlocks))
	w.WriteU32(uint32(h.OfsBlocks))
}

// MosV2Block is one page/srcX/srcY/width/height/dstX/dstY block record.
type MosV2Block struct {
	Page               int
	SrcX, SrcY         int
	Width, Height      int
	DstX, DstY         int
}

// ReadMosV2Block reads one 28-byte block record.
func ReadMosV2Block(r *binio.Reader) (MosV2Block, error) {
	var vals [7]uint32
	for i := range vals {
		v, err := r.U32()
		if err != nil {
			return MosV2Block{}, err
		}
		vals[i] = v
	}
	return MosV2Block{
		Page: int(vals[0]), SrcX: int(vals[1]), SrcY: int(vals[2]),
		Width: int(vals[3]), Height: int(vals[4]),
		DstX: int(vals[5]), DstY: int(vals[6]),
	}, nil
}

// WriteMosV2Block writes one 28-byte block record.
func WriteMosV2Block(w *binio.Writer, b MosV2Block) {
	w.WriteU32(uint32(b.Page))
	w.WriteU32(uint32(b.SrcX))
	w.WriteU32(uint32(b.SrcY))
	w.WriteU32(uint32(b.Width))
	w.WriteU32(uint32(b.Height))
	w.WriteU32(uint32(b.DstX))
	w.WriteU32(uint32(b.DstY))
}
