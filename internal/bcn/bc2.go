package bcn

import (
	"fmt"

	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// DecodeBC2 decodes a BC2 (DXT3) block stream into a width*height 32-bit
// pixel buffer in the given color format. width and height must each be a
// multiple of 4.
func DecodeBC2(data []byte, width, height int, format tctypes.ColorFormat) ([]byte, error) {
	blocksX, blocksY := width/4, height/4
	need := blocksX * blocksY * 16
	if len(data) < need {
		return nil, fmt.Errorf("bcn: BC2 stream too short: have %d, need %d", len(data), need)
	}

	out := make([]byte, width*height*4)
	pos := 0
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			alphaBits := data[pos : pos+8]
			block := decodeColorBlock(data[pos+8:pos+16], true)
			pos += 16

			for i := range block {
				nibbleByte := alphaBits[i/2]
				var a4 byte
				if i%2 == 0 {
					a4 = nibbleByte & 0x0f
				} else {
					a4 = (nibbleByte >> 4) & 0x0f
				}
				a8 := (a4 << 4) | a4
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

// EncodeBC2 encodes a width*height 32-bit pixel buffer in the given color
// format into a BC2 (DXT3) block stream. No BC2 encoder was found in the
// retrieved library pack, so this block encoder is hand-written: explicit
// 4-bit alpha per pixel plus a four-color range-fit color block.
func EncodeBC2(pixels []byte, width, height int, format tctypes.ColorFormat) ([]byte, error) {
	if width%4 != 0 || height%4 != 0 {
		return nil, fmt.Errorf("bcn: BC2 encode requires 4x4-aligned dimensions, got %dx%d", width, height)
	}

	buf := make([]byte, len(pixels))
	copy(buf, pixels)
	tctypes.ReorderColors(buf, width*height, format, tctypes.ARGB)

	blocksX, blocksY := width/4, height/4
	out := make([]byte, 0, blocksX*blocksY*16)

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			var px [16]uint32
			var alphas [16]byte
			for row := 0; row < 4; row++ {
				si := ((by*4+row)*width + bx*4) * 4
				for col := 0; col < 4; col++ {
					o := si + col*4
					a, r, g, b := buf[o], buf[o+1], buf[o+2], buf[o+3]
					i := row*4 + col
					px[i] = uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
					alphas[i] = a
				}
			}

			var alphaBits [8]byte
			for i := 0; i < 16; i++ {
				a4 := alphas[i] >> 4
				if i%2 == 0 {
					alphaBits[i/2] |= a4
				} else {
					alphaBits[i/2] |= a4 << 4
				}
			}

			colorBits := encodeColorBlockFourColor(px)

			out = append(out, alphaBits[:]...)
			out = append(out, colorBits[:]...)
		}
	}
	return out, nil
}
