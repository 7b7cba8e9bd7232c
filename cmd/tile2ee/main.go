package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/argent77/tile2ee-go/internal/container"
	"github.com/argent77/tile2ee-go/internal/convert"
	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// direction filters the batch loop the way Options::getConversionType does:
// 0 = both, 1 = only V2->V1 (skip V1 inputs), 2 = only V1->V2 (skip V2 inputs).
type direction int

const (
	directionBoth direction = iota
	directionToV1
	directionToV2
)

func parseDirection(s string) (direction, error) {
	switch s {
	case "", "both":
		return directionBoth, nil
	case "to-v1":
		return directionToV1, nil
	case "to-v2":
		return directionToV2, nil
	default:
		return directionBoth, fmt.Errorf("invalid -direction %q (want both, to-v1, or to-v2)", s)
	}
}

func main() {
	var (
		qualityV1     int
		qualityV2     int
		tisPage       int
		mosIndex      int
		overwritePvrz bool
		mosc          bool
		threads       int
		searchPaths   string
		assumeTis     bool
		haltOnError   bool
		silent        bool
		directionFlag string
	)

	flag.IntVar(&qualityV1, "quality-v1", 9, "Palette quantization quality 0-9 (V2->V1 conversions)")
	flag.IntVar(&qualityV2, "quality-v2", 9, "Block-compression quality 0-9 (V1->V2 conversions)")
	flag.IntVar(&tisPage, "tis-page", 0, "Starting PVRZ page index for TIS V2 output")
	flag.IntVar(&mosIndex, "mos-index", 0, "Starting PVRZ index for MOS V2 output")
	flag.BoolVar(&overwritePvrz, "overwrite-pvrz", false, "Overwrite existing PVRZ files instead of searching for a free index")
	flag.BoolVar(&mosc, "mosc", false, "Wrap MOS V1 output as a compressed MOSC container")
	flag.IntVar(&threads, "threads", 0, "Worker thread count (0 = autodetect)")
	flag.StringVar(&searchPaths, "search-path", "", "Additional PVRZ search directories, separated by the OS path separator")
	flag.BoolVar(&assumeTis, "assume-tis", false, "Fall back to headerless TIS size-based detection when no signature matches")
	flag.BoolVar(&haltOnError, "halt-on-error", false, "Stop at the first file that fails to convert")
	flag.BoolVar(&silent, "silent", false, "Suppress progress output")
	flag.StringVar(&directionFlag, "direction", "both", "Which conversions to perform: both, to-v1 (skip V1 inputs), to-v2 (skip V2 inputs)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tile2ee [flags] <input-file...> <output-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Convert Infinity Engine TIS/MOS tile files between their palette-indexed\n")
		fmt.Fprintf(os.Stderr, "V1 format and their PVRZ-referencing V2 format. Direction and output\n")
		fmt.Fprintf(os.Stderr, "container are auto-detected per input file from its signature (or size,\n")
		fmt.Fprintf(os.Stderr, "with -assume-tis).\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	dir, err := parseDirection(directionFlag)
	if err != nil {
		log.Fatal(err)
	}

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	outDir := args[len(args)-1]
	inputPaths := args[:len(args)-1]
	if fi, err := os.Stat(outDir); err != nil || !fi.IsDir() {
		log.Fatalf("Output path %q is not an existing directory", outDir)
	}

	opts := convert.DefaultOptions()
	opts.QualityV1 = qualityV1
	opts.QualityV2 = qualityV2
	opts.TisPage = tisPage
	opts.MosIndex = mosIndex
	opts.OverwritePvrz = overwritePvrz
	opts.Mosc = mosc
	opts.Threads = threads
	opts.AssumeTis = assumeTis
	opts.HaltOnError = haltOnError
	opts.Silent = silent
	if searchPaths != "" {
		opts.SearchPaths = strings.Split(searchPaths, string(os.PathListSeparator))
	}

	failed := 0
	for i, inPath := range inputPaths {
		if !silent && len(inputPaths) > 1 {
			log.Printf("Processing file %d of %d", i+1, len(inputPaths))
		}
		if err := convertOne(inPath, outDir, opts, dir); err != nil {
			log.Printf("%s: %v", inPath, err)
			failed++
			if haltOnError {
				break
			}
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// convertOne detects inPath's container kind and dispatches to the matching
// internal/convert orchestrator, writing its output into outDir under the
// same base name and extension (a TIS stays .tis, a MOS stays .mos). Ported from
// Tile2EE.cpp's per-file detect-then-dispatch driver loop.
func convertOne(inPath, outDir string, opts *convert.Options, dir direction) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	kind := container.DetectFileType(data, opts.AssumeTis)

	switch {
	case dir == directionToV1 && (kind == tctypes.FileTISV1 || kind == tctypes.FileMOSV1):
		if !opts.Silent {
			log.Printf("Skipping palette-based %s file %q...", kind, inPath)
		}
		return nil
	case dir == directionToV2 && (kind == tctypes.FileTISV2 || kind == tctypes.FileMOSV2):
		if !opts.Silent {
			log.Printf("Skipping pvrz-based %s file %q...", kind, inPath)
		}
		return nil
	}

	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	switch kind {
	case tctypes.FileTISV1:
		outPath := filepath.Join(outDir, base+".tis")
		return convert.ConvertTisV1ToV2(inPath, outPath, opts)
	case tctypes.FileTISV2:
		outPath := filepath.Join(outDir, base+".tis")
		return convert.ConvertTisV2ToV1(inPath, outPath, opts)
	case tctypes.FileMOSV1:
		outPath := filepath.Join(outDir, base+".mos")
		lastIndex, err := convert.ConvertMosV1ToV2(inPath, outPath, opts)
		if err == nil {
			// Mirrors Tile2EE.cpp's pvrzIndex++ after a successful
			// mosV1ToMosV2 call: the next MOS V1 input in this batch
			// starts its free-index search one past this file's last
			// used PVRZ index.
			opts.MosIndex = lastIndex + 1
		}
		return err
	case tctypes.FileMOSV2:
		outPath := filepath.Join(outDir, base+".mos")
		return convert.ConvertMosV2ToV1(inPath, outPath, opts)
	default:
		return fmt.Errorf("unrecognized TIS/MOS file")
	}
}
