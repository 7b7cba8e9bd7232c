package convert

import (
	"os"
	"path/filepath"

	"github.com/argent77/tile2ee-go/internal/binio"
	"github.com/argent77/tile2ee-go/internal/container"
	"github.com/argent77/tile2ee-go/internal/pipeline"
	"github.com/argent77/tile2ee-go/internal/quant"
	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// ConvertMosV1ToV2 reads a palette-indexed MOS V1 (or MOSC-compressed) file
// and writes the equivalent PVRZ-referencing MOS V2 file alongside one or
// more BC1-encoded PVRZ atlas pages. Returns the highest absolute PVRZ index
// used (or opts.MosIndex-1 if the file needed no atlas pages at all), so a
// multi-file batch driver can chain each file's starting index one past the
// last, the way Tile2EE.cpp's `pvrzIndex++` loop carries it between MOS
// inputs. Ported from Graphics::mosV1ToMosV2.
func ConvertMosV1ToV2(inPath, outPath string, opts *Options) (lastIndex int, err error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	lastIndex = opts.MosIndex - 1
	if same, err := SameFile(inPath, outPath); err != nil {
		return lastIndex, errf(ErrUnknown, inPath, err)
	} else if same {
		return lastIndex, errf(ErrInputEqualsOutput, outPath, nil)
	}

	raw, err := os.ReadFile(inPath)
	if err != nil {
		return lastIndex, errf(ErrNotFound, inPath, err)
	}
	mos, err := container.ParseMosV1(raw)
	if err != nil {
		return lastIndex, errf(kindFor(err), inPath, err)
	}

	f, commit, cleanup, err := createOutput(outPath)
	if err != nil {
		return lastIndex, err
	}
	defer cleanup()

	w := binio.NewWriter(0)
	container.WriteMosV2Header(w, container.MosV2Header{
		Width: mos.Width, Height: mos.Height,
		NumBlocks: mos.Cols * mos.Rows, OfsBlocks: 0x18,
	})

	ofsTileOfs := mos.PalOfs + mos.Cols*mos.Rows*tctypes.PaletteSize
	ofsTileData := ofsTileOfs + mos.Cols*mos.Rows*4

	var pages []*atlasPage
	prevOffset := -1
	records := make([]container.MosV2Block, mos.Cols*mos.Rows)

	for y, blockIdx := 0, 0; y < mos.Rows; y++ {
		for x := 0; x < mos.Cols; x, blockIdx = x+1, blockIdx+1 {
			blockW, blockH := container.BlockDims(x, y, mos.Cols, mos.Rows, mos.Width, mos.Height)
			blockSize := blockW * blockH

			palette := mos.Raw[mos.PalOfs+blockIdx*tctypes.PaletteSize : mos.PalOfs+(blockIdx+1)*tctypes.PaletteSize]
			tileOfs := int(le32(mos.Raw, ofsTileOfs+blockIdx*4))
			indices := mos.Raw[ofsTileData+tileOfs : ofsTileData+tileOfs+blockSize]

			pixels, _ := decodePaletteTile(palette, indices, blockW, blockH)

			pageIdx, rect, err := placeTile(&pages, 0, pixels, blockW, blockH, opts.Rule, func() (*atlasPage, error) {
				offset, err := nextMosPvrzIndex(opts, outPath, prevOffset)
				if err != nil {
					return nil, errf(ErrPvrzIndexOverflow, outPath, err)
				}
				prevOffset = offset
				page := newAtlasPage(opts.MosIndex+offset, opts.Format, opts.QualityV2)
				page.tex.Encoding = tctypes.EncodingBC1
				return page, nil
			})
			if err != nil {
				return lastIndex, err
			}

			records[blockIdx] = container.MosV2Block{
				Page: pages[pageIdx].index,
				SrcX: rect.X, SrcY: rect.Y,
				Width: blockW, Height: blockH,
				DstX: x * tctypes.TileDim, DstY: y * tctypes.TileDim,
			}
		}
	}

	for _, rec := range records {
		container.WriteMosV2Block(w, rec)
	}
	if _, err := f.Write(w.Bytes()); err != nil {
		return lastIndex, errf(ErrIoWrite, outPath, err)
	}

	if err := encodeAndWritePages(pages, filepath.Dir(outPath), opts.Threads, func(index int) (string, error) {
		return MosPvrzFileName(index)
	}); err != nil {
		return lastIndex, err
	}

	if len(pages) > 0 {
		lastIndex = pages[len(pages)-1].index
	}
	commit()
	opts.logf("MOS V1 file converted successfully. Total number of PVRZ files: %d\n", len(pages))
	return lastIndex, nil
}

// ConvertMosV2ToV1 reads a PVRZ-referencing MOS V2 file, assembles its
// blocks into a full-size working surface, re-tiles that surface into
// 64x64 blocks, quantizes each back to a 256-color palette, and writes a
// palette-indexed MOS V1 (optionally MOSC-compressed) file. Ported from
// Graphics::mosV2ToMosV1.
func ConvertMosV2ToV1(inPath, outPath string, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if same, err := SameFile(inPath, outPath); err != nil {
		return errf(ErrUnknown, inPath, err)
	} else if same {
		return errf(ErrInputEqualsOutput, outPath, nil)
	}

	raw, err := os.ReadFile(inPath)
	if err != nil {
		return errf(ErrNotFound, inPath, err)
	}
	r := binio.NewReader(raw)
	hdr, err := container.ParseMosV2Header(r)
	if err != nil {
		return errf(kindFor(err), inPath, err)
	}

	layout := container.PlanMosV1Layout(hdr.Width, hdr.Height)
	mosBuf := container.NewMosV1Buffer(layout)
	surface := make([]byte, hdr.Width*hdr.Height*4)

	cache := newPageCache()
	primaryDir := filepath.Dir(inPath)

	if err := r.SeekAbs(hdr.OfsBlocks); err != nil {
		return errf(ErrTruncated, inPath, err)
	}
	for i := 0; i < hdr.NumBlocks; i++ {
		block, err := container.ReadMosV2Block(r)
		if err != nil {
			return errf(ErrTruncated, inPath, err)
		}

		if err := cache.ensure(block.Page, primaryDir, opts.SearchPaths, opts.Format, func(p int) (string, error) {
			return MosPvrzFileName(p)
		}); err != nil {
			return err
		}
		pixels, err := cache.tex.GetBlock(block.SrcX, block.SrcY, block.Width, block.Height)
		if err != nil {
			return errf(ErrBadDimension, inPath, err)
		}

		blitBlock(surface, hdr.Width, pixels, block.DstX, block.DstY, block.Width, block.Height)
	}

	f, commit, cleanup, err := createOutput(outPath)
	if err != nil {
		return err
	}
	defer cleanup()

	speed := opts.quantSpeed()
	pool := pipeline.New(opts.Threads, 64, func(t *pipeline.TileData) {
		pal, idx := quant.Quantize(t.Input, t.Width, t.Height, speed)
		t.Palette = pal
		t.Output = idx
	})

	writeErr := make(chan error, 1)
	go func() {
		reasm := pipeline.NewReassembler(0)
		for res := range pool.Results {
			reasm.Push(res)
			for {
				t, ok := reasm.Ready()
				if !ok {
					break
				}
				writeMosV1Block(mosBuf, layout, t.Index, t.Palette, t.Output)
			}
		}
		writeErr <- nil
	}()

	for blockIdx, y := 0, 0; y < layout.Rows; y++ {
		for x := 0; x < layout.Cols; x, blockIdx = x+1, blockIdx+1 {
			blockW, blockH := container.BlockDims(x, y, layout.Cols, layout.Rows, layout.Width, layout.Height)
			pixels := make([]byte, blockW*blockH*4)
			copyBlock(pixels, surface, layout.Width, x*tctypes.TileDim, y*tctypes.TileDim, blockW, blockH)
			pool.Submit(&pipeline.TileData{
				Index: blockIdx, Width: blockW, Height: blockH,
				InputType: tctypes.FileMOSV2, Input: pixels,
			})
		}
	}
	pool.Close()
	<-writeErr

	out := container.WriteMosV1(mosBuf, opts.Mosc)
	if _, err := f.Write(out); err != nil {
		return errf(ErrIoWrite, outPath, err)
	}

	commit()
	opts.logf("MOS V2 file converted successfully.\n")
	return nil
}

// writeMosV1Block copies one quantized block's palette and indices into
// their reserved slot in a MOS V1 buffer built by NewMosV1Buffer.
func writeMosV1Block(mosBuf []byte, layout container.MosV1Layout, blockIdx int, palette, indices []byte) {
	copy(mosBuf[layout.PalOfs+blockIdx*tctypes.PaletteSize:], palette)
	tileOfs := int(le32(mosBuf, layout.TileOfsTableOfs+blockIdx*4))
	copy(mosBuf[layout.TileDataOfs+tileOfs:], indices)
}

// blitBlock copies a w*h ARGB block into a dstWidth-wide surface at (dstX,dstY).
func blitBlock(surface []byte, dstWidth int, block []byte, dstX, dstY, w, h int) {
	for row := 0; row < h; row++ {
		srcOfs := row * w * 4
		dstOfs := ((dstY+row)*dstWidth + dstX) * 4
		copy(surface[dstOfs:dstOfs+w*4], block[srcOfs:srcOfs+w*4])
	}
}

// copyBlock extracts a w*h ARGB block out of a srcWidth-wide surface at (srcX,srcY).
func copyBlock(dst, surface []byte, srcWidth, srcX, srcY, w, h int) {
	for row := 0; row < h; row++ {
		srcOfs := ((srcY+row)*srcWidth + srcX) * 4
		dstOfs := row * w * 4
		copy(dst[dstOfs:dstOfs+w*4], surface[srcOfs:srcOfs+w*4])
	}
}

func le32(buf []byte, ofs int) uint32 {
	return uint32(buf[ofs]) | uint32(buf[ofs+1])<<8 | uint32(buf[ofs+2])<<16 | uint32(buf[ofs+3])<<24
}
