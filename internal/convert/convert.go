package convert

import (
	"os"
	"path/filepath"

	"github.com/argent77/tile2ee-go/internal/binpack"
	"github.com/argent77/tile2ee-go/internal/pipeline"
	"github.com/argent77/tile2ee-go/internal/tctypes"
	"github.com/argent77/tile2ee-go/internal/texture"
)

// decodePaletteTile expands a palette-indexed w*h tile/block into an ARGB
// pixel buffer (alpha byte 0, matching tctypes.ARGB), reporting whether
// every resulting pixel is pure black (RGB all zero, regardless of alpha) —
// the signal a V1->V2 direction uses to emit the page<0 black-tile sentinel
// instead of packing the tile onto an atlas page. Ported from
// Graphics::paletteToPixels: a palette entry of (R=0,G=255,B=0) is the
// reserved fully-transparent sentinel and decodes to alpha 0, RGB 0.
func decodePaletteTile(palette, indices []byte, width, height int) (pixels []byte, allBlack bool) {
	n := width * height
	pixels = make([]byte, n*4)
	allBlack = true
	for i := 0; i < n; i++ {
		pe := palette[int(indices[i])*4:]
		r, g, b := pe[0], pe[1], pe[2]
		a := byte(255)
		if r == 0 && g == 255 && b == 0 {
			a, r, g, b = 0, 0, 0, 0
		}
		if r != 0 || g != 0 || b != 0 {
			allBlack = false
		}
		o := i * 4
		pixels[o+0], pixels[o+1], pixels[o+2], pixels[o+3] = a, r, g, b
	}
	return pixels, allBlack
}

// atlasPage is one 1024x1024 PVRZ page being packed by a V1->V2 direction:
// a bin tracking free space and the texture surface tiles are written into.
type atlasPage struct {
	bin *binpack.Bin
	tex *texture.Texture
	// index is the final PVRZ index this page will be written under.
	index int
}

func newAtlasPage(index int, format tctypes.ColorFormat, quality int) *atlasPage {
	tex := texture.New(tctypes.PageDim, tctypes.PageDim, format)
	tex.Quality = quality
	return &atlasPage{
		bin:   binpack.New(tctypes.PageDim, tctypes.PageDim),
		tex:   tex,
		index: index,
	}
}

// placeTile inserts a TileDim x TileDim block at the first page (starting
// at startIdx) with room, writing its pixels in, and appending a fresh page
// via newPage when none fits. Returns the page index within pages (not the
// PVRZ index) and the placed rect. Mirrors the shared bin-search loop in
// tisV1ToTisV2/mosV1ToMosV2: try existing pages first, only allocate a new
// one when every existing page is full.
func placeTile(pages *[]*atlasPage, startIdx int, pixels []byte, blockW, blockH int, rule binpack.Rule, newPage func() (*atlasPage, error)) (pageIdx int, rect binpack.Rect, err error) {
	for i := startIdx; i < len(*pages); i++ {
		r := (*pages)[i].bin.Insert(tctypes.TileDim, tctypes.TileDim, rule)
		if r.Width > 0 {
			if err := (*pages)[i].tex.SetBlock(r.X, r.Y, blockW, blockH, pixels); err != nil {
				return 0, binpack.Rect{}, err
			}
			return i, r, nil
		}
	}
	page, err := newPage()
	if err != nil {
		return 0, binpack.Rect{}, err
	}
	*pages = append(*pages, page)
	idx := len(*pages) - 1
	r := page.bin.Insert(tctypes.TileDim, tctypes.TileDim, rule)
	if r.Width == 0 {
		return 0, binpack.Rect{}, errf(ErrBadDimension, "", nil)
	}
	if err := page.tex.SetBlock(r.X, r.Y, blockW, blockH, pixels); err != nil {
		return 0, binpack.Rect{}, err
	}
	return idx, r, nil
}

// encodeAndWritePages BC1-encodes every page to a PVRZ file in parallel
// (order-independent: each page is an unrelated output file), writing
// outDir/nameFor(page.index). Ported from the PVRZ-writing thread-pool
// loop shared by tisV1ToTisV2 and mosV1ToMosV2.
func encodeAndWritePages(pages []*atlasPage, outDir string, threads int, nameFor func(index int) (string, error)) error {
	if len(pages) == 0 {
		return nil
	}
	pool := pipeline.New(threads, len(pages), func(t *pipeline.TileData) {
		page := pages[t.Index]
		page.bin.ShrinkToFit(true)
		page.tex.Resize(page.bin.Width, page.bin.Height)
		data, err := page.tex.SavePvrz()
		if err != nil {
			t.Err = err
			return
		}
		t.Output = data
	})
	for i := range pages {
		pool.Submit(&pipeline.TileData{Index: i})
	}
	pool.Close()

	for res := range pool.Results {
		page := pages[res.Index]
		if res.Err != nil {
			return errf(ErrEncodeFailed, "", res.Err)
		}
		name, err := nameFor(page.index)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, res.Output, 0o644); err != nil {
			return errf(ErrIoWrite, path, err)
		}
	}
	return nil
}

// createOutput opens outPath for writing, returning a cleanup func that
// removes the partial file unless commit is called first. Ported from
// File::setDeleteOnClose(true): every orchestrator creates its output file
// up front and only keeps it once conversion fully succeeds.
func createOutput(outPath string) (f *os.File, commit func(), cleanup func(), err error) {
	f, err = os.Create(outPath)
	if err != nil {
		return nil, nil, nil, errf(ErrIoWrite, outPath, err)
	}
	committed := false
	commit = func() { committed = true }
	cleanup = func() {
		f.Close()
		if !committed {
			os.Remove(outPath)
		}
	}
	return f, commit, cleanup, nil
}
