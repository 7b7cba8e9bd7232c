// Package texture owns a 32-bpp pixel surface plus PVR(Z) container
// load/save, the atlas page abstraction every conversion direction packs
// tiles into or reads tiles out of (§4.6).
//
// Grounded on Texture.cpp/Texture.hpp for the getBlock/setBlock/resize/
// CalculateDataBlockSize contract. The pixel surface itself is a stdlib
// image.RGBA (its Pix/Stride reused directly) rather than a bespoke
// []byte+stride pair, following internal/tile/rgbapool.go's and
// internal/tile/tiledata.go's idiom for representing tile pixel buffers in
// the teacher repo; internal/texture/pool.go adapts rgbapool.go's
// sync.Pool-per-dimension pattern for 1024x1024 page-sized surfaces.
package texture

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/argent77/tile2ee-go/internal/bcn"
	"github.com/argent77/tile2ee-go/internal/tctypes"
	"github.com/argent77/tile2ee-go/internal/zlibio"
)

const pvrHeaderSize = 0x34
const pvrMagic = 0x03525650

// Texture is a width*height 32-bpp pixel surface with an associated color
// channel order, BCn encoding (used only by SavePvrz) and caller-assigned
// index.
type Texture struct {
	Format   tctypes.ColorFormat
	Encoding tctypes.Encoding
	Index    int
	// Quality is the 0..9 block-compression quality tier SavePvrz passes
	// to bcn.EncodeBC1/EncodeBC3. New sets it to 9 (highest quality);
	// LoadPvrz leaves it at 0.
	Quality int

	width, height int
	img           *image.RGBA
}

// New allocates a width*height texture in the given color format, filled
// with the format's empty pixel.
func New(width, height int, format tctypes.ColorFormat) *Texture {
	t := &Texture{Format: format, Encoding: tctypes.EncodingBC1, Quality: 9}
	t.Init(width, height, format)
	return t
}

// Init discards any current data and reallocates width*height pixels in
// the given format, filled with the format's empty pixel.
func (t *Texture) Init(width, height int, format tctypes.ColorFormat) {
	t.width, t.height = width, height
	t.Format = format
	t.img = getSurface(width, height)

	empty := bcn.EmptyPixel(format)
	px := t.img.Pix
	for i := 0; i < width*height; i++ {
		copy(px[i*4:i*4+4], empty[:])
	}
}

// Width returns the current texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the current texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Pix exposes the raw pixel buffer directly, in t.Format order.
func (t *Texture) Pix() []byte { return t.img.Pix }

func (t *Texture) checkRect(x, y, w, h int) error {
	if x < 0 || y < 0 || w < 1 || h < 1 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("texture: rectangle (%d,%d,%d,%d) escapes %dx%d surface", x, y, w, h, t.width, t.height)
	}
	return nil
}

// GetBlock copies a w*h sub-rectangle at (x,y) out of the texture.
func (t *Texture) GetBlock(x, y, w, h int) ([]byte, error) {
	if err := t.checkRect(x, y, w, h); err != nil {
		return nil, err
	}
	out := make([]byte, w*h*4)
	srcStride := t.width * 4
	dstStride := w * 4
	srcOfs := (y*t.width + x) * 4
	dstOfs := 0
	for row := 0; row < h; row++ {
		copy(out[dstOfs:dstOfs+dstStride], t.img.Pix[srcOfs:srcOfs+dstStride])
		srcOfs += srcStride
		dstOfs += dstStride
	}
	return out, nil
}

// SetBlock writes a w*h sub-rectangle of data into the texture at (x,y).
func (t *Texture) SetBlock(x, y, w, h int, data []byte) error {
	if err := t.checkRect(x, y, w, h); err != nil {
		return err
	}
	if len(data) < w*h*4 {
		return fmt.Errorf("texture: SetBlock data too short: have %d, need %d", len(data), w*h*4)
	}
	srcStride := w * 4
	dstStride := t.width * 4
	srcOfs := 0
	dstOfs := (y*t.width + x) * 4
	for row := 0; row < h; row++ {
		copy(t.img.Pix[dstOfs:dstOfs+srcStride], data[srcOfs:srcOfs+srcStride])
		srcOfs += srcStride
		dstOfs += dstStride
	}
	return nil
}

// Resize allocates a new newWidth*newHeight surface filled with the empty
// pixel, then copies the top-left min(oldW,newW) x min(oldH,newH) region of
// the old surface into it.
func (t *Texture) Resize(newWidth, newHeight int) {
	if newWidth == t.width && newHeight == t.height {
		return
	}

	old := t.img
	oldW, oldH := t.width, t.height
	t.Init(newWidth, newHeight, t.Format)

	minStride := minInt(oldW, newWidth) * 4
	minHeight := minInt(oldH, newHeight)
	srcStride := oldW * 4
	dstStride := newWidth * 4
	for row := 0; row < minHeight; row++ {
		srcOfs := row * srcStride
		dstOfs := row * dstStride
		copy(t.img.Pix[dstOfs:dstOfs+minStride], old.Pix[srcOfs:srcOfs+minStride])
	}
	putSurface(old)
}

// CalculateDataBlockSize returns the number of bytes needed to hold a
// width*height block of data under the given encoding. EncodingUnknown
// means raw uncompressed 32-bit pixels.
func CalculateDataBlockSize(width, height int, encoding tctypes.Encoding) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	alignedW := (width + 3) &^ 3
	alignedH := (height + 3) &^ 3
	switch encoding {
	case tctypes.EncodingBC1:
		return alignedW * alignedH / 2
	case tctypes.EncodingBC2, tctypes.EncodingBC3:
		return alignedW * alignedH
	default:
		return width * height * 4
	}
}

// IsPowerOfTwo reports whether value is a positive power of two.
func IsPowerOfTwo(value int) bool {
	return value > 0 && value&(value-1) == 0
}

// LoadPvrz parses a complete PVRZ file (4-byte LE uncompressed size prefix
// followed by a zlib stream wrapping a PVR v3 container) and returns a
// texture holding its decoded pixels in the given color format.
func LoadPvrz(data []byte, format tctypes.ColorFormat) (*Texture, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("texture: PVRZ file too short")
	}
	uncompressedSize := int(binary.LittleEndian.Uint32(data[0:4]))
	if uncompressedSize <= pvrHeaderSize {
		return nil, fmt.Errorf("texture: PVRZ declares implausible uncompressed size %d", uncompressedSize)
	}

	pvr, err := zlibio.Inflate(data[4:], uncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("texture: PVRZ inflate: %w", err)
	}
	if len(pvr) < pvrHeaderSize {
		return nil, fmt.Errorf("texture: decompressed PVR shorter than header")
	}

	if binary.LittleEndian.Uint32(pvr[0:4]) != pvrMagic {
		return nil, fmt.Errorf("texture: bad PVR signature")
	}
	pixelFormat := binary.LittleEndian.Uint32(pvr[8:12])
	encoding := tctypes.EncodingFromPVRPixelFormat(pixelFormat)
	if encoding == tctypes.EncodingUnknown {
		return nil, fmt.Errorf("texture: unsupported PVR pixel format %d", pixelFormat)
	}
	if binary.LittleEndian.Uint32(pvr[16:20]) != 0 {
		return nil, fmt.Errorf("texture: unsupported PVR color space")
	}
	if binary.LittleEndian.Uint32(pvr[20:24]) != 0 {
		return nil, fmt.Errorf("texture: unsupported PVR channel type")
	}
	height := int(binary.LittleEndian.Uint32(pvr[24:28]))
	width := int(binary.LittleEndian.Uint32(pvr[28:32]))
	if !IsPowerOfTwo(width) || !IsPowerOfTwo(height) {
		return nil, fmt.Errorf("texture: PVR dimensions %dx%d are not power-of-two", width, height)
	}
	for _, ofs := range []int{32, 36, 40, 44} {
		if binary.LittleEndian.Uint32(pvr[ofs:ofs+4]) != 1 {
			return nil, fmt.Errorf("texture: unsupported PVR depth/surface/face/mipmap count")
		}
	}
	metaSize := int(binary.LittleEndian.Uint32(pvr[48:52]))

	dataStart := pvrHeaderSize + metaSize
	if dataStart > len(pvr) {
		return nil, fmt.Errorf("texture: PVR metadata size escapes stream")
	}
	blockData := pvr[dataStart:]

	var pixels []byte
	switch encoding {
	case tctypes.EncodingBC1:
		pixels, err = bcn.DecodeBC1(blockData, width, height, format)
	case tctypes.EncodingBC2:
		pixels, err = bcn.DecodeBC2(blockData, width, height, format)
	case tctypes.EncodingBC3:
		pixels, err = bcn.DecodeBC3(blockData, width, height, format)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: PVR block decode: %w", err)
	}

	t := &Texture{Format: format, Encoding: encoding}
	t.Init(width, height, format)
	copy(t.img.Pix, pixels)
	return t, nil
}

// SavePvrz encodes the texture's pixels under its Encoding and returns a
// complete PVRZ file (4-byte LE uncompressed size prefix + zlib stream).
func (t *Texture) SavePvrz() ([]byte, error) {
	if t.Encoding == tctypes.EncodingUnknown {
		return nil, fmt.Errorf("texture: cannot save PVRZ with unknown encoding")
	}

	var encoded []byte
	var err error
	switch t.Encoding {
	case tctypes.EncodingBC1:
		encoded, err = bcn.EncodeBC1(t.img.Pix, t.width, t.height, t.Quality, t.Format)
	case tctypes.EncodingBC2:
		encoded, err = bcn.EncodeBC2(t.img.Pix, t.width, t.height, t.Format)
	case tctypes.EncodingBC3:
		encoded, err = bcn.EncodeBC3(t.img.Pix, t.width, t.height, t.Quality, t.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: block encode: %w", err)
	}

	pvr := make([]byte, pvrHeaderSize+len(encoded))
	binary.LittleEndian.PutUint32(pvr[0:4], pvrMagic)
	binary.LittleEndian.PutUint32(pvr[4:8], 0) // flags
	binary.LittleEndian.PutUint32(pvr[8:12], t.Encoding.PVRPixelFormat())
	binary.LittleEndian.PutUint32(pvr[12:16], 0) // extended pixel format
	binary.LittleEndian.PutUint32(pvr[16:20], 0) // color space
	binary.LittleEndian.PutUint32(pvr[20:24], 0) // channel type
	binary.LittleEndian.PutUint32(pvr[24:28], uint32(t.height))
	binary.LittleEndian.PutUint32(pvr[28:32], uint32(t.width))
	binary.LittleEndian.PutUint32(pvr[32:36], 1) // depth
	binary.LittleEndian.PutUint32(pvr[36:40], 1) // surfaces
	binary.LittleEndian.PutUint32(pvr[40:44], 1) // faces
	binary.LittleEndian.PutUint32(pvr[44:48], 1) // mipmap levels
	binary.LittleEndian.PutUint32(pvr[48:52], 0) // metadata size
	copy(pvr[pvrHeaderSize:], encoded)

	compressed := zlibio.Deflate(pvr)
	out := make([]byte, 4+len(compressed))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(pvr)))
	copy(out[4:], compressed)
	return out, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
