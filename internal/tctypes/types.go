// Package tctypes holds the small set of enums and size constants shared
// across every conversion package: the input/output file kind, the BCn
// encoding, and the in-memory channel order. Grounded on the original
// tile2ee Types.hpp.
package tctypes

// FileType identifies the container/version kind of an input file.
type FileType int

const (
	FileUnknown FileType = iota
	FileTISV1
	FileTISV2
	FileMOSV1
	FileMOSV2
)

func (t FileType) String() string {
	switch t {
	case FileTISV1:
		return "TISV1"
	case FileTISV2:
		return "TISV2"
	case FileMOSV1:
		return "MOSV1"
	case FileMOSV2:
		return "MOSV2"
	default:
		return "UNKNOWN"
	}
}

// Encoding identifies the BCn (DXTn) block-compression format used by V2
// texture data.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingBC1
	EncodingBC2
	EncodingBC3
)

func (e Encoding) String() string {
	switch e {
	case EncodingBC1:
		return "BC1"
	case EncodingBC2:
		return "BC2"
	case EncodingBC3:
		return "BC3"
	default:
		return "UNKNOWN"
	}
}

// BlockBytes returns the number of bytes a single 4x4 block occupies under e.
func (e Encoding) BlockBytes() int {
	if e == EncodingBC1 {
		return 8
	}
	return 16
}

// PVRPixelFormat returns the PVR v3 pixelFormat field value for e.
func (e Encoding) PVRPixelFormat() uint32 {
	switch e {
	case EncodingBC1:
		return 7
	case EncodingBC2:
		return 9
	case EncodingBC3:
		return 11
	default:
		return 0
	}
}

// EncodingFromPVRPixelFormat maps a PVR v3 pixelFormat field back to an
// Encoding. Returns EncodingUnknown for unsupported values.
func EncodingFromPVRPixelFormat(v uint32) Encoding {
	switch v {
	case 7:
		return EncodingBC1
	case 9:
		return EncodingBC2
	case 11:
		return EncodingBC3
	default:
		return EncodingUnknown
	}
}

// ColorFormat is the in-memory byte order of a 32-bit pixel.
type ColorFormat int

const (
	ARGB ColorFormat = iota
	ABGR
	BGRA
	RGBA
)

// componentOrder returns, for a given ColorFormat, which source byte index
// (0..3) holds each of A,R,G,B in that order.
func componentOrder(f ColorFormat) [4]int {
	switch f {
	case ARGB:
		return [4]int{0, 1, 2, 3} // A,R,G,B
	case ABGR:
		return [4]int{0, 3, 2, 1} // A,B,G,R -> A,R,G,B positions
	case BGRA:
		return [4]int{3, 2, 1, 0} // B,G,R,A
	case RGBA:
		return [4]int{3, 0, 1, 2} // R,G,B,A
	default:
		return [4]int{0, 1, 2, 3}
	}
}

// ReorderColors permutes the channel order of numPixels 4-byte pixels in
// place, from one ColorFormat to another. A pure permutation: no channel
// value is modified, only its byte position.
func ReorderColors(buf []byte, numPixels int, from, to ColorFormat) {
	if from == to {
		return
	}
	fromOrder := componentOrder(from)
	toOrder := componentOrder(to)

	for i := 0; i < numPixels; i++ {
		px := buf[i*4 : i*4+4]
		var argb [4]byte
		argb[0] = px[fromOrder[0]]
		argb[1] = px[fromOrder[1]]
		argb[2] = px[fromOrder[2]]
		argb[3] = px[fromOrder[3]]

		var out [4]byte
		out[toOrder[0]] = argb[0]
		out[toOrder[1]] = argb[1]
		out[toOrder[2]] = argb[2]
		out[toOrder[3]] = argb[3]
		copy(px, out[:])
	}
}

const (
	// PaletteSize is the size in bytes of a V1 256-color palette (256*4).
	PaletteSize = 1024
	// TileDim is the maximum tile dimension (both TIS tiles and MOS blocks).
	TileDim = 64
	// MaxTileSize8 is the size in bytes of a TileDim x TileDim 8-bit indexed tile.
	MaxTileSize8 = TileDim * TileDim
	// MaxTileSize32 is the size in bytes of a TileDim x TileDim 32-bit tile.
	MaxTileSize32 = TileDim * TileDim * 4
	// PageDim is the fixed dimension of a V2 texture atlas page.
	PageDim = 1024
)
