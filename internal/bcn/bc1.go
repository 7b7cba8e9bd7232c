package bcn

import (
	"fmt"
	"image"

	wbcn "github.com/woozymasta/bcn"

	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// DecodeBC1 decodes a BC1 (DXT1) block stream into a width*height 32-bit
// pixel buffer in the given color format. width and height must each be a
// multiple of 4.
func DecodeBC1(data []byte, width, height int, format tctypes.ColorFormat) ([]byte, error) {
	blocksX, blocksY := width/4, height/4
	need := blocksX * blocksY * 8
	if len(data) < need {
		return nil, fmt.Errorf("bcn: BC1 stream too short: have %d, need %d", len(data), need)
	}

	out := make([]byte, width*height*4)
	pos := 0
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			block := decodeColorBlock(data[pos:pos+8], false)
			pos += 8
			px := blockToARGBBytes(block, format)
			for row := 0; row < 4; row++ {
				di := ((by*4+row)*width + bx*4) * 4
				copy(out[di:di+16], px[row*16:row*16+16])
			}
		}
	}
	return out, nil
}

// EncodeBC1 encodes a width*height 32-bit pixel buffer in the given color
// format into a BC1 (DXT1) block stream, via github.com/woozymasta/bcn.
// quality is the 0..9 user-facing tier, translated by qualityToEncodeOptions.
func EncodeBC1(pixels []byte, width, height, quality int, format tctypes.ColorFormat) ([]byte, error) {
	img := toRGBAImage(pixels, width, height, format)
	data, _, _, err := wbcn.EncodeImageWithOptions(img, wbcn.FormatDXT1, qualityToEncodeOptions(quality))
	if err != nil {
		return nil, fmt.Errorf("bcn: BC1 encode: %w", err)
	}
	return data, nil
}

// qualityToEncodeOptions maps the 0..9 user-facing QualityV2 tier onto
// wbcn.EncodeOptions.Quality, the vendored encoder's only quality axis
// (github.com/woozymasta/bcn v0.1.2, options.go/quality.go): QualityFast is
// a plain bounding-box fit, QualityBalanced adds a PCA-oriented endpoint
// search with limited refinement, QualityBest adds further refinement
// iterations. 0-2 map to the fast range fit, 3-4 to the single-pass
// PCA+refine ("single cluster fit"), 5-9 to the most-refined pass
// ("iterative cluster fit"). The vendored type has no separate
// alpha-weighting field, so 5-9's alpha-weighting distinction collapses
// onto the same QualityBest level as the rest of that range.
func qualityToEncodeOptions(quality int) *wbcn.EncodeOptions {
	var q wbcn.Quality
	switch {
	case quality <= 2:
		q = wbcn.QualityFast
	case quality <= 4:
		q = wbcn.QualityBalanced
	default:
		q = wbcn.QualityBest
	}
	return &wbcn.EncodeOptions{Quality: q}
}

// toRGBAImage converts a packed pixel buffer in an arbitrary ColorFormat to
// a stdlib image.RGBA (R,G,B,A byte order), as required by image/draw and
// third-party encoders.
func toRGBAImage(pixels []byte, width, height int, format tctypes.ColorFormat) *image.RGBA {
	buf := make([]byte, len(pixels))
	copy(buf, pixels)
	tctypes.ReorderColors(buf, width*height, format, tctypes.RGBA)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, buf)
	return img
}
