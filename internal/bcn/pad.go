package bcn

import "github.com/argent77/tile2ee-go/internal/tctypes"

// EmptyPixel returns the encoded value of a single "empty" pixel in the
// given color format: opaque black (alpha 255, RGB 0) in every format,
// matching Texture::GetEmptyPixel and the opaque-black placeholder tile
// spec.md §4.8 requires for the TIS V2->V1 page<0 sentinel. Only the byte
// position of the alpha channel varies by format.
func EmptyPixel(format tctypes.ColorFormat) [4]byte {
	switch format {
	case tctypes.ARGB, tctypes.ABGR:
		return [4]byte{255, 0, 0, 0} // alpha in byte 0
	default: // BGRA, RGBA
		return [4]byte{0, 0, 0, 255} // alpha in byte 3
	}
}

// Pad expands a sw x sh 32-bpp pixel block to dw x dh (dw>=sw, dh>=sh).
// Pixels outside the source rectangle are replicated from the nearest edge
// pixel (clamped independently on each axis) when copy is true, or filled
// with the format-appropriate empty pixel otherwise.
func Pad(src []byte, sw, sh, dw, dh int, format tctypes.ColorFormat, copy bool) []byte {
	dst := make([]byte, dw*dh*4)
	empty := EmptyPixel(format)

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			di := (y*dw + x) * 4
			if x < sw && y < sh {
				si := (y*sw + x) * 4
				copy4(dst[di:di+4], src[si:si+4])
				continue
			}
			if !copy {
				copy4(dst[di:di+4], empty[:])
				continue
			}
			sx, sy := x, y
			if sx >= sw {
				sx = sw - 1
			}
			if sy >= sh {
				sy = sh - 1
			}
			si := (sy*sw + sx) * 4
			copy4(dst[di:di+4], src[si:si+4])
		}
	}

	return dst
}

// Unpad crops a srcW x srcH pixel block down to dstW x dstH (a plain
// sub-copy of the top-left region).
func Unpad(src []byte, srcW, srcH, dstW, dstH int) []byte {
	dst := make([]byte, dstW*dstH*4)
	for y := 0; y < dstH; y++ {
		si := (y * srcW) * 4
		di := (y * dstW) * 4
		copy(dst[di:di+dstW*4], src[si:si+dstW*4])
	}
	return dst
}

func copy4(dst, src []byte) {
	dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], src[3]
}

// padUp rounds v up to the next multiple of 4.
func padUp(v int) int {
	return (v + 3) &^ 3
}
