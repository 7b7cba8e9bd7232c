// Package bcn implements BC1/BC2/BC3 (DXT1/DXT3/DXT5) 4x4 block
// compression and decompression, plus the pixel padding helpers needed to
// square a tile up to a block-aligned size before encoding.
//
// Encoding for BC1 and BC3 delegates to github.com/woozymasta/bcn, the only
// BCn codec library found in the retrieved pack. BC2 has no exposed encoder
// there, so its block encoder is hand-written below. All three decoders are
// hand-written: a PVRZ page consumed on the V2->V1 path may have been
// produced by any tool, so decoding follows the documented S3TC bit layout
// directly rather than trusting a specific encoder's output shape.
package bcn

import "github.com/argent77/tile2ee-go/internal/tctypes"

// expand565 expands a 16-bit RGB565 value into 8-bit-per-channel r,g,b via
// bit replication of the high bits into the low bits.
func expand565(v uint16) (r, g, b byte) {
	r5 := byte(v>>11) & 0x1f
	g6 := byte(v>>5) & 0x3f
	b5 := byte(v) & 0x1f
	r = (r5 << 3) | (r5 >> 2)
	g = (g6 << 2) | (g6 >> 4)
	b = (b5 << 3) | (b5 >> 2)
	return
}

// pack565 quantizes 8-bit r,g,b down to a packed RGB565 value.
func pack565(r, g, b byte) uint16 {
	r5 := uint16(r>>3) & 0x1f
	g6 := uint16(g>>2) & 0x3f
	b5 := uint16(b>>3) & 0x1f
	return (r5 << 11) | (g6 << 5) | b5
}

// colorBlock holds the decoded 16 ARGB pixels of a single 4x4 block, row
// major, one uint32 per pixel in 0xAARRGGBB order.
type colorBlock [16]uint32

// decodeColorBlock decodes the BC1-style 2-bits-per-pixel color block
// shared by BC1/BC2/BC3: two RGB565 endpoints followed by 16 2-bit indices
// packed into a little-endian 32-bit word (pixel 0 in the low 2 bits).
func decodeColorBlock(data []byte, alphaOpaque bool) colorBlock {
	c0 := uint16(data[0]) | uint16(data[1])<<8
	c1 := uint16(data[2]) | uint16(data[3])<<8
	idx := uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24

	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)

	var palette [4]uint32
	mkARGB := func(a, r, g, b byte) uint32 {
		return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}

	fourColor := c0 > c1 || alphaOpaque
	palette[0] = mkARGB(255, r0, g0, b0)
	palette[1] = mkARGB(255, r1, g1, b1)
	if fourColor {
		palette[2] = mkARGB(255,
			byte((2*int(r0)+int(r1))/3),
			byte((2*int(g0)+int(g1))/3),
			byte((2*int(b0)+int(b1))/3))
		palette[3] = mkARGB(255,
			byte((int(r0)+2*int(r1))/3),
			byte((int(g0)+2*int(g1))/3),
			byte((int(b0)+2*int(b1))/3))
	} else {
		palette[2] = mkARGB(255,
			byte((int(r0)+int(r1))/2),
			byte((int(g0)+int(g1))/2),
			byte((int(b0)+int(b1))/2))
		palette[3] = mkARGB(0, 0, 0, 0)
	}

	var out colorBlock
	for i := 0; i < 16; i++ {
		sel := (idx >> uint(i*2)) & 0x3
		out[i] = palette[sel]
	}
	return out
}

// encodeColorBlockFourColor fits a plain four-color BC1-style color block
// to 16 input ARGB pixels using a min/max-endpoint range fit, ignoring
// alpha. Used directly by the BC2 encoder.
func encodeColorBlockFourColor(px [16]uint32) [8]byte {
	var minR, minG, minB byte = 255, 255, 255
	var maxR, maxG, maxB byte = 0, 0, 0
	for _, p := range px {
		r := byte(p >> 16)
		g := byte(p >> 8)
		b := byte(p)
		if r < minR {
			minR = r
		}
		if g < minG {
			minG = g
		}
		if b < minB {
			minB = b
		}
		if r > maxR {
			maxR = r
		}
		if g > maxG {
			maxG = g
		}
		if b > maxB {
			maxB = b
		}
	}

	c0 := pack565(maxR, maxG, maxB)
	c1 := pack565(minR, minG, minB)
	if c0 == c1 {
		// Force four-color mode even for a uniform block.
		if c0 > 0 {
			c1 = c0 - 1
		} else {
			c0 = 1
		}
	} else if c0 < c1 {
		c0, c1 = c1, c0
	}

	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)
	palette := [4][3]int{
		{int(r0), int(g0), int(b0)},
		{int(r1), int(g1), int(b1)},
		{(2*int(r0) + int(r1)) / 3, (2*int(g0) + int(g1)) / 3, (2*int(b0) + int(b1)) / 3},
		{(int(r0) + 2*int(r1)) / 3, (int(g0) + 2*int(g1)) / 3, (int(b0) + 2*int(b1)) / 3},
	}

	var idx uint32
	for i, p := range px {
		r := int(byte(p >> 16))
		g := int(byte(p >> 8))
		b := int(byte(p))
		best, bestDist := 0, 1<<30
		for k, c := range palette {
			dr, dg, db := r-c[0], g-c[1], b-c[2]
			dist := dr*dr + dg*dg + db*db
			if dist < bestDist {
				bestDist, best = dist, k
			}
		}
		idx |= uint32(best) << uint(i*2)
	}

	var out [8]byte
	out[0], out[1] = byte(c0), byte(c0>>8)
	out[2], out[3] = byte(c1), byte(c1>>8)
	out[4], out[5], out[6], out[7] = byte(idx), byte(idx>>8), byte(idx>>16), byte(idx>>24)
	return out
}

func blockToARGBBytes(b colorBlock, format tctypes.ColorFormat) []byte {
	out := make([]byte, 16*4)
	for i, px := range b {
		out[i*4+0] = byte(px >> 24) // A
		out[i*4+1] = byte(px >> 16) // R
		out[i*4+2] = byte(px >> 8)  // G
		out[i*4+3] = byte(px)       // B
	}
	tctypes.ReorderColors(out, 16, tctypes.ARGB, format)
	return out
}
