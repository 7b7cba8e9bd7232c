package convert

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/argent77/tile2ee-go/internal/bcn"
	"github.com/argent77/tile2ee-go/internal/binio"
	"github.com/argent77/tile2ee-go/internal/container"
	"github.com/argent77/tile2ee-go/internal/pipeline"
	"github.com/argent77/tile2ee-go/internal/quant"
	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// ConvertTisV1ToV2 reads a palette-indexed TIS V1 file and writes the
// equivalent PVRZ-referencing TIS V2 file alongside one or more BC1-encoded
// PVRZ atlas pages. Ported from Graphics::tisV1ToTisV2.
func ConvertTisV1ToV2(inPath, outPath string, opts *Options) error {
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
	hdr, err := container.ParseTisHeader(r, true, opts.AssumeTis)
	if err != nil {
		return errf(kindFor(err), inPath, err)
	}

	f, commit, cleanup, err := createOutput(outPath)
	if err != nil {
		return err
	}
	defer cleanup()

	w := binio.NewWriter(0)
	container.WriteTisHeader(w, hdr.NumTiles, false)

	var pages []*atlasPage
	type tileRecord struct{ page, x, y int32 }
	records := make([]tileRecord, hdr.NumTiles)

	for i := 0; i < hdr.NumTiles; i++ {
		palette, indices, err := container.ReadTisV1Tile(r)
		if err != nil {
			return errf(ErrTruncated, inPath, err)
		}
		pixels, allBlack := decodePaletteTile(palette, indices, tctypes.TileDim, tctypes.TileDim)
		if allBlack {
			records[i] = tileRecord{page: -1}
			continue
		}

		pageIdx, rect, err := placeTile(&pages, 0, pixels, tctypes.TileDim, tctypes.TileDim, opts.Rule, func() (*atlasPage, error) {
			if opts.TisPage+len(pages) >= 100 {
				return nil, errf(ErrPvrzIndexOverflow, outPath, nil)
			}
			page := newAtlasPage(opts.TisPage+len(pages), opts.Format, opts.QualityV2)
			page.tex.Encoding = tctypes.EncodingBC1
			return page, nil
		})
		if err != nil {
			return err
		}
		records[i] = tileRecord{page: int32(pages[pageIdx].index), x: int32(rect.X), y: int32(rect.Y)}
	}

	for _, rec := range records {
		container.WriteTisV2Tile(w, container.TisV2Tile{Page: rec.page, X: rec.x, Y: rec.y})
	}
	if _, err := f.Write(w.Bytes()); err != nil {
		return errf(ErrIoWrite, outPath, err)
	}

	if err := encodeAndWritePages(pages, filepath.Dir(outPath), opts.Threads, func(index int) (string, error) {
		return TisPvrzFileName(filepath.Base(outPath), index)
	}); err != nil {
		return err
	}

	commit()
	opts.logf("TIS V1 file converted successfully. Total number of PVRZ files: %d\n", len(pages))
	return nil
}

// ConvertTisV2ToV1 reads a PVRZ-referencing TIS V2 file, decodes each
// referenced tile from its atlas page (or synthesizes an opaque-black tile
// for the page<0 sentinel), quantizes it back to a 256-color palette, and
// writes a palette-indexed TIS V1 file. Ported from Graphics::tisV2ToTisV1.
func ConvertTisV2ToV1(inPath, outPath string, opts *Options) error {
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
	hdr, err := container.ParseTisHeader(r, false, opts.AssumeTis)
	if err != nil {
		return errf(kindFor(err), inPath, err)
	}

	f, commit, cleanup, err := createOutput(outPath)
	if err != nil {
		return err
	}
	defer cleanup()

	w := binio.NewWriter(0)
	container.WriteTisHeader(w, hdr.NumTiles, true)

	blackTile := make([]byte, tctypes.TileDim*tctypes.TileDim*4)
	empty := bcn.EmptyPixel(opts.Format)
	for i := 0; i < tctypes.TileDim*tctypes.TileDim; i++ {
		copy(blackTile[i*4:i*4+4], empty[:])
	}

	cache := newPageCache()
	primaryDir := filepath.Dir(inPath)
	inBase := filepath.Base(inPath)
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
				container.WriteTisV1Tile(w, t.Palette, t.Output)
			}
		}
		writeErr <- nil
	}()

	var readErr error
	for i := 0; i < hdr.NumTiles && readErr == nil; i++ {
		tile, err := container.ReadTisV2Tile(r)
		if err != nil {
			readErr = errf(ErrTruncated, inPath, err)
			break
		}

		var pixels []byte
		if tile.Page < 0 {
			pixels = make([]byte, len(blackTile))
			copy(pixels, blackTile)
		} else {
			if err := cache.ensure(int(tile.Page), primaryDir, opts.SearchPaths, opts.Format, func(p int) (string, error) {
				return TisPvrzFileName(inBase, p)
			}); err != nil {
				readErr = err
				break
			}
			pixels, err = cache.tex.GetBlock(int(tile.X), int(tile.Y), tctypes.TileDim, tctypes.TileDim)
			if err != nil {
				readErr = errf(ErrBadDimension, inPath, err)
				break
			}
		}

		pool.Submit(&pipeline.TileData{
			Index: i, Width: tctypes.TileDim, Height: tctypes.TileDim,
			InputType: tctypes.FileTISV2, Input: pixels,
		})
	}
	pool.Close()
	<-writeErr
	if readErr != nil {
		return readErr
	}

	if _, err := f.Write(w.Bytes()); err != nil {
		return errf(ErrIoWrite, outPath, err)
	}

	commit()
	opts.logf("TIS V2 file converted successfully.\n")
	return nil
}

func kindFor(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrUnknown
	case errors.Is(err, container.ErrBadSignature):
		return ErrBadSignature
	case errors.Is(err, container.ErrUnsupportedVersion):
		return ErrUnsupportedVersion
	case errors.Is(err, container.ErrBadDimension):
		return ErrBadDimension
	case errors.Is(err, binio.ErrTruncated):
		return ErrTruncated
	default:
		return ErrUnknown
	}
}
