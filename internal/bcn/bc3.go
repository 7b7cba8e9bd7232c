package bcn

import (
	"fmt"

	wbcn "github.com/woozymasta/bcn"

	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// DecodeBC3 decodes a BC3 (DXT5) block stream into a width*height 32-bit
// pixel buffer in the given color format. width and height must each be a
// multiple of 4.
func DecodeBC3(data []byte, width, height int, format tctypes.ColorFormat) ([]byte, error) {
	blocksX, blocksY := width/4, height/4
	need := blocksX * blocksY * 16
	if len(data) < need {
		return nil, fmt.Errorf("bcn: BC3 stream too short: have %d, need %d", len(data), need)
	}

	out := make([]byte, width*height*4)
	pos := 0
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			alphaPalette := decodeAlphaPalette(data[pos], data[pos+1])
			indices := decodeAlphaIndices(data[pos+2 : pos+8])
			block := decodeColorBlock(data[pos+8:pos+16], true)
			pos += 16

			for i := range block {
				a8 := alphaPalette[indices[i]]
				block[i] = (block[i] &^ (0xff << 24)) | uint32(a8)<<24
			}

			px := blockToARGBBytes(block, format)
			for row := 0; row < 4; row++ {
				di := ((by*4+row)*width + bx*4) * 4
				copy(out[di:di+16], px[row*16:row*16+16])
			}
		}
	}
	return out, nil
}

// decodeAlphaPalette builds the 8-entry interpolated alpha palette from the
// two 8-bit endpoints, per the standard BC3/DXT5 rule: 8 interpolated
// values when a0>a1, else 6 interpolated plus explicit 0 and 255.
func decodeAlphaPalette(a0, a1 byte) [8]byte {
	var p [8]byte
	p[0], p[1] = a0, a1
	if a0 > a1 {
		for i := 1; i <= 6; i++ {
			p[1+i] = byte((int(a0)*(7-i) + int(a1)*i) / 7)
		}
	} else {
		for i := 1; i <= 4; i++ {
			p[1+i] = byte((int(a0)*(5-i) + int(a1)*i) / 5)
		}
		p[6] = 0
		p[7] = 255
	}
	return p
}

// decodeAlphaIndices unpacks the 16 3-bit indices from 6 bytes (two 24-bit
// little-endian groups of 8 indices each).
func decodeAlphaIndices(data []byte) [16]byte {
	var out [16]byte
	lo := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
	hi := uint32(data[3]) | uint32(data[4])<<8 | uint32(data[5])<<16
	for i := 0; i < 8; i++ {
		out[i] = byte((lo >> uint(i*3)) & 0x7)
	}
	for i := 0; i < 8; i++ {
		out[8+i] = byte((hi >> uint(i*3)) & 0x7)
	}
	return out
}

// EncodeBC3 encodes a width*height 32-bit pixel buffer in the given color
// format into a BC3 (DXT5) block stream, via github.com/woozymasta/bcn.
// quality is the 0..9 user-facing tier, translated by qualityToEncodeOptions.
func EncodeBC3(pixels []byte, width, height, quality int, format tctypes.ColorFormat) ([]byte, error) {
	img := toRGBAImage(pixels, width, height, format)
	data, _, _, err := wbcn.EncodeImageWithOptions(img, wbcn.FormatDXT5, qualityToEncodeOptions(quality))
	if err != nil {
		return nil, fmt.Errorf("bcn: BC3 encode: %w", err)
	}
	return data, nil
}
